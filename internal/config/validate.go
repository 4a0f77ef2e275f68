package config

import (
	"fmt"
	"strings"

	"github.com/akhildatla/reshape/pkg/render"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q (want debug, info, warn or error)", c.LogLevel)
	}

	for name, path := range c.Tables {
		if path == "" {
			return fmt.Errorf("tables.%s: path is empty", name)
		}
	}
	return nil
}
