package csrf

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options holds the CSRF token lifecycle configuration.
type Options struct {
	// Lifetime is how long an issued token stays valid.
	Lifetime time.Duration `json:"lifetime" mapstructure:"lifetime"`

	// SweepInterval is how often the memory store evicts expired tokens.
	SweepInterval time.Duration `json:"sweep-interval" mapstructure:"sweep-interval"`
}

// NewOptions creates Options with sensible defaults.
func NewOptions() *Options {
	return &Options{
		Lifetime:      time.Hour,
		SweepInterval: 10 * time.Minute,
	}
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Lifetime <= 0 {
		return fmt.Errorf("csrf lifetime must be positive, got %v", o.Lifetime)
	}
	if o.SweepInterval <= 0 {
		return fmt.Errorf("csrf sweep interval must be positive, got %v", o.SweepInterval)
	}
	return nil
}

// Complete fills in defaults for unset fields.
func (o *Options) Complete() error {
	if o.Lifetime == 0 {
		o.Lifetime = time.Hour
	}
	if o.SweepInterval == 0 {
		o.SweepInterval = 10 * time.Minute
	}
	return nil
}

// AddFlags adds CSRF flags to the given FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.Lifetime, "csrf.lifetime", o.Lifetime,
		"Validity window of an issued CSRF token.")
	fs.DurationVar(&o.SweepInterval, "csrf.sweep-interval", o.SweepInterval,
		"How often the in-memory CSRF store evicts expired tokens.")
}
