package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 100 {
		return errors.New("matching.threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.MinScore < 0 || c.Selection.MinScore > 100 {
		return errors.New("selection.min_score must be between 0 and 100")
	}
	if c.Selection.ScoreTolerance < 0 {
		return errors.New("selection.score_tolerance must not be negative")
	}
	for _, format := range c.Selection.FormatPreference {
		switch format {
		case "mp3", "flac", "m4a", "aac", "wav":
		default:
			return fmt.Errorf("selection.format_preference: unsupported format %q", format)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
