package models

// AvatarType discriminates how a profile avatar string is interpreted.
type AvatarType string

const (
	AvatarEmoji  AvatarType = "emoji"
	AvatarUpload AvatarType = "upload"
	AvatarURL    AvatarType = "url"
)

// Profile is the single local user's identity. Its presence is the signal
// that onboarding has been completed.
type Profile struct {
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar"`
	AvatarType AvatarType `json:"avatarType"`
}

// LocalUserID is the constant user sentinel attached to activity entries in
// this single-user system.
const LocalUserID = "local-user"

// DefaultAssignee is the display name seeded into the assignee cache on
// first run.
const DefaultAssignee = "Local User"
