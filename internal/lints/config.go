package lints

import (
	"beamlint/internal/diag"
)

// Config controls which diagnostics are produced.
type Config struct {
	// DisableExperimental turns off passes still under validation.
	DisableExperimental bool
	// Disabled holds canonical short codes to drop from the final list.
	Disabled map[string]bool
	// AdHoc passes run after the standard set, in registration order.
	AdHoc []AdHocPass
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{Disabled: make(map[string]bool)}
}

// Disable drops a code from the produced diagnostics.
func (c *Config) Disable(code diag.Code) *Config {
	c.Disabled[code.AsCode()] = true
	return c
}

// IsDisabled reports whether the code was disabled.
func (c *Config) IsDisabled(code diag.Code) bool {
	return c.Disabled[code.AsCode()]
}
