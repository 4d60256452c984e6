package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// Config holds the workspace settings read from .boardlyrc.
type Config struct {
	// UserID is the sentinel recorded on every activity entry.
	UserID string `yaml:"user_id"`
	// DefaultPriority is applied to new tasks created without one.
	DefaultPriority models.Priority `yaml:"default_priority"`
	// DefaultStatus is the column new tasks land in.
	DefaultStatus models.Status `yaml:"default_status"`
	// SeedOnboarding controls whether first-run sample tasks are created.
	SeedOnboarding bool `yaml:"seed_onboarding"`
	// Columns is the board column order shown by list and board views.
	Columns []models.Status `yaml:"columns"`
}

// ConfigManager loads and validates the workspace configuration.
type ConfigManager interface {
	Load() (*Config, error)
	Validate(cfg *Config) error
}

// viperConfigManager implements ConfigManager using Viper for reading the
// .boardlyrc YAML file.
type viperConfigManager struct {
	basePath string
}

// NewConfigManager creates a ConfigManager that reads .boardlyrc from
// basePath.
func NewConfigManager(basePath string) ConfigManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UserID:          models.LocalUserID,
		DefaultPriority: models.PriorityMedium,
		DefaultStatus:   models.StatusTodo,
		SeedOnboarding:  true,
		Columns:         models.Statuses(),
	}
}

// Load reads .boardlyrc from the base path. A missing file yields defaults.
func (cm *viperConfigManager) Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".boardlyrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("user_id", cfg.UserID)
	v.SetDefault("defaults.priority", string(cfg.DefaultPriority))
	v.SetDefault("defaults.status", string(cfg.DefaultStatus))
	v.SetDefault("seed_onboarding", cfg.SeedOnboarding)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .boardlyrc: %w", err)
	}

	cfg.UserID = v.GetString("user_id")
	cfg.DefaultPriority = models.Priority(v.GetString("defaults.priority"))
	cfg.DefaultStatus = models.Status(v.GetString("defaults.status"))
	cfg.SeedOnboarding = v.GetBool("seed_onboarding")

	if v.IsSet("columns") {
		var columns []models.Status
		for _, c := range v.GetStringSlice("columns") {
			columns = append(columns, models.Status(c))
		}
		if len(columns) > 0 {
			cfg.Columns = columns
		}
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values and returns a clear
// error message identifying every problem found.
func (cm *viperConfigManager) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.UserID == "" {
		errs = append(errs, "user_id must not be empty")
	}
	if cfg.DefaultPriority != "" && !cfg.DefaultPriority.Known() {
		errs = append(errs, fmt.Sprintf(
			"defaults.priority %q is invalid, must be one of: Low, Medium, High, Critical",
			cfg.DefaultPriority,
		))
	}
	if len(cfg.Columns) == 0 {
		errs = append(errs, "columns must not be empty")
	}
	seen := make(map[models.Status]bool, len(cfg.Columns))
	for _, c := range cfg.Columns {
		if c == "" {
			errs = append(errs, "columns must not contain empty values")
			continue
		}
		if seen[c] {
			errs = append(errs, fmt.Sprintf("column %q is listed more than once", c))
		}
		seen[c] = true
	}
	if cfg.DefaultStatus != "" && len(cfg.Columns) > 0 && !seen[cfg.DefaultStatus] {
		errs = append(errs, fmt.Sprintf("defaults.status %q is not one of the configured columns", cfg.DefaultStatus))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
