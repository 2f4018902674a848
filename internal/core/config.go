// Package core contains the business logic of phasetrack: the task
// lifecycle controller, context assembly, relevance ranking, progress
// aggregation, and project configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/phasetrack/phasetrack/pkg/models"
	"github.com/spf13/viper"
)

// ConfigLoader reads and validates the per-project configuration file.
type ConfigLoader interface {
	Load() (*models.ProjectConfig, error)
	Validate(cfg *models.ProjectConfig) error
}

// viperConfigLoader implements ConfigLoader using Viper to read
// .phasetrack.yaml from the project root.
type viperConfigLoader struct {
	root string
}

// NewConfigLoader creates a ConfigLoader reading configuration relative to
// the given project root.
func NewConfigLoader(root string) ConfigLoader {
	return &viperConfigLoader{root: root}
}

// DefaultConfig returns a ProjectConfig populated with sensible defaults.
func DefaultConfig() *models.ProjectConfig {
	return &models.ProjectConfig{
		DocsDir:            "docs",
		PhasesDir:          "phases",
		ContextsDir:        "contexts",
		StrictDuplicates:   false,
		RelatedLimit:       5,
		CrossPhaseFallback: false,
		DecisionsLimit:     10,
	}
}

// Load reads .phasetrack.yaml from the project root. A missing file yields
// the defaults; a malformed file is an error.
func (l *viperConfigLoader) Load() (*models.ProjectConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".phasetrack")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.root)

	v.SetDefault("docs_dir", cfg.DocsDir)
	v.SetDefault("phases_dir", cfg.PhasesDir)
	v.SetDefault("contexts_dir", cfg.ContextsDir)
	v.SetDefault("strict_duplicates", cfg.StrictDuplicates)
	v.SetDefault("related.limit", cfg.RelatedLimit)
	v.SetDefault("related.cross_phase_fallback", cfg.CrossPhaseFallback)
	v.SetDefault("decisions.limit", cfg.DecisionsLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .phasetrack.yaml: %w", err)
	}

	cfg.DocsDir = v.GetString("docs_dir")
	cfg.PhasesDir = v.GetString("phases_dir")
	cfg.ContextsDir = v.GetString("contexts_dir")
	cfg.StrictDuplicates = v.GetBool("strict_duplicates")
	cfg.CrossPhaseFallback = v.GetBool("related.cross_phase_fallback")

	// Use IsSet to distinguish "not set" from "explicitly set to 0".
	if v.IsSet("related.limit") {
		cfg.RelatedLimit = v.GetInt("related.limit")
	}
	if v.IsSet("decisions.limit") {
		cfg.DecisionsLimit = v.GetInt("decisions.limit")
	}

	return cfg, nil
}

// Validate checks a ProjectConfig for invalid values and returns a clear
// error message identifying every problem found.
func (l *viperConfigLoader) Validate(cfg *models.ProjectConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.DocsDir == "" {
		errs = append(errs, "docs_dir must not be empty")
	}
	if cfg.PhasesDir == "" {
		errs = append(errs, "phases_dir must not be empty")
	}
	if cfg.ContextsDir == "" {
		errs = append(errs, "contexts_dir must not be empty")
	}
	if cfg.RelatedLimit < 0 {
		errs = append(errs, fmt.Sprintf("related.limit must be non-negative, got %d", cfg.RelatedLimit))
	}
	if cfg.DecisionsLimit < 0 {
		errs = append(errs, fmt.Sprintf("decisions.limit must be non-negative, got %d", cfg.DecisionsLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
