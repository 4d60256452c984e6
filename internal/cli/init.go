package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cosmic-jellyfish/boardly/internal/core"
)

// configFile mirrors the .boardlyrc layout.
type configFile struct {
	UserID   string `yaml:"user_id"`
	Defaults struct {
		Priority string `yaml:"priority"`
		Status   string `yaml:"status"`
	} `yaml:"defaults"`
	SeedOnboarding bool     `yaml:"seed_onboarding"`
	Columns        []string `yaml:"columns"`
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a boardly workspace in the current directory",
	Long: `Write a default .boardlyrc configuration file and create the data
directory. Existing configuration is left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := filepath.Join(BasePath, ".boardlyrc")
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}

		defaults := core.DefaultConfig()
		var cf configFile
		cf.UserID = defaults.UserID
		cf.Defaults.Priority = string(defaults.DefaultPriority)
		cf.Defaults.Status = string(defaults.DefaultStatus)
		cf.SeedOnboarding = defaults.SeedOnboarding
		for _, c := range defaults.Columns {
			cf.Columns = append(cf.Columns, string(c))
		}

		data, err := yaml.Marshal(cf)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		if err := os.MkdirAll(filepath.Join(BasePath, "data"), 0o750); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", configPath, err)
		}

		fmt.Printf("Initialized boardly workspace in %s\n", BasePath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing .boardlyrc")
	rootCmd.AddCommand(initCmd)
}
