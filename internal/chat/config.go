package chat

import "time"

const (
	DefaultMaxTurns        = 10
	DefaultMaxPromptLength = 200
	DefaultPanelSize       = 3
	DefaultTimeout         = 30 * time.Second
)

// Config holds per-session limits.
type Config struct {
	MaxTurns        int           `mapstructure:"max-turns"`
	MaxPromptLength int           `mapstructure:"max-prompt-length"`
	PanelSize       int           `mapstructure:"panel-size"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// WithDefaults returns a copy of c where unset values are replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.MaxPromptLength <= 0 {
		c.MaxPromptLength = DefaultMaxPromptLength
	}
	if c.PanelSize <= 0 {
		c.PanelSize = DefaultPanelSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
