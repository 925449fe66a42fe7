package config

import "fmt"

// Validate checks the sections every command relies on.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q: use auto, text, markdown or json", c.OutputFormat)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: use text or json", c.LogFormat)
	}
	return nil
}
