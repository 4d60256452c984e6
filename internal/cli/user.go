package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage your profile and the assignee name cache",
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := Users.CurrentUser()
		if profile == nil {
			fmt.Println("No profile set (run 'boardly user set' to complete onboarding)")
			return nil
		}
		fmt.Printf("Name:   %s\n", profile.Name)
		fmt.Printf("Avatar: %s (%s)\n", profile.Avatar, profile.AvatarType)
		return nil
	},
}

var (
	userSetAvatar     string
	userSetAvatarType string
)

var userSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the current profile",
	Long: `Set your display name and avatar. Avatar type is one of emoji, upload,
or url; the avatar value is interpreted accordingly. Setting a profile marks
onboarding as complete.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		avatarType := models.AvatarType(userSetAvatarType)
		switch avatarType {
		case models.AvatarEmoji, models.AvatarUpload, models.AvatarURL:
		default:
			return fmt.Errorf("invalid avatar type %q: must be emoji, upload, or url", userSetAvatarType)
		}

		profile := models.Profile{
			Name:       args[0],
			Avatar:     userSetAvatar,
			AvatarType: avatarType,
		}
		if err := Users.SetCurrentUser(profile); err != nil {
			return fmt.Errorf("setting profile: %w", err)
		}
		fmt.Printf("Profile set: %s\n", profile.Name)
		return nil
	},
}

var userClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Users.ClearUser(); err != nil {
			return fmt.Errorf("clearing profile: %w", err)
		}
		fmt.Println("Profile cleared")
		return nil
	},
}

var assigneesCmd = &cobra.Command{
	Use:   "assignees",
	Short: "Manage the assignee autocomplete cache",
}

var assigneesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached assignee names",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := Users.AllUsers()
		if len(names) == 0 {
			fmt.Println("No assignees cached")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var assigneesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a name to the assignee cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Users.AddUser(args[0]); err != nil {
			return fmt.Errorf("adding assignee: %w", err)
		}
		fmt.Printf("Added %s\n", args[0])
		return nil
	},
}

var assigneesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a name from the assignee cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Users.RemoveUser(args[0]); err != nil {
			return fmt.Errorf("removing assignee: %w", err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	userSetCmd.Flags().StringVar(&userSetAvatar, "avatar", "🙂", "avatar value (emoji glyph, image data, or URL)")
	userSetCmd.Flags().StringVar(&userSetAvatarType, "avatar-type", "emoji", "avatar type: emoji, upload, or url")

	assigneesCmd.AddCommand(assigneesListCmd)
	assigneesCmd.AddCommand(assigneesAddCmd)
	assigneesCmd.AddCommand(assigneesRemoveCmd)

	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetCmd)
	userCmd.AddCommand(userClearCmd)
	userCmd.AddCommand(assigneesCmd)
	rootCmd.AddCommand(userCmd)
}
