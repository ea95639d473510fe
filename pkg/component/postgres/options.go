package postgres

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// redactedPassword is the placeholder used when serializing passwords.
const redactedPassword = "[REDACTED]"

// Options defines configuration options for PostgreSQL.
type Options struct {
	Host                  string        `json:"host" mapstructure:"host"`
	Port                  int           `json:"port" mapstructure:"port"`
	Username              string        `json:"username" mapstructure:"username"`
	Password              string        `json:"-" mapstructure:"password"` // Excluded from JSON serialization
	Database              string        `json:"database" mapstructure:"database"`
	SSLMode               string        `json:"ssl-mode" mapstructure:"ssl-mode"`
	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	LogLevel              int           `json:"log-level" mapstructure:"log-level"`
}

// String returns a string representation with password redacted.
func (o *Options) String() string {
	password := redactedPassword
	if o.Password == "" {
		password = ""
	}
	return fmt.Sprintf("PostgreSQL{host=%s, port=%d, user=%s, password=%s, database=%s, sslmode=%s}",
		o.Host, o.Port, o.Username, password, o.Database, o.SSLMode)
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Host:                  "127.0.0.1",
		Port:                  5432,
		Username:              "postgres",
		Database:              "recordguard",
		SSLMode:               "disable",
		MaxIdleConnections:    20,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 3600 * time.Second,
		LogLevel:              1, // Silent
	}
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	if o.Host == "" {
		return fmt.Errorf("postgres host cannot be empty")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("postgres port must be between 1 and 65535, got %d", o.Port)
	}
	if o.Username == "" {
		return fmt.Errorf("postgres username cannot be empty")
	}
	if o.Database == "" {
		return fmt.Errorf("postgres database cannot be empty")
	}
	switch o.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("postgres ssl-mode must be one of disable|require|verify-ca|verify-full, got %q", o.SSLMode)
	}
	return nil
}

// Complete fills in any fields not set that are required to have valid data.
func (o *Options) Complete() error {
	if o.SSLMode == "" {
		o.SSLMode = "disable"
	}
	return nil
}

// AddFlags adds flags for PostgreSQL options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Host, "postgres.host", o.Host, "PostgreSQL server host.")
	fs.IntVar(&o.Port, "postgres.port", o.Port, "PostgreSQL server port.")
	fs.StringVar(&o.Username, "postgres.username", o.Username, "PostgreSQL username.")
	fs.StringVar(&o.Password, "postgres.password", o.Password, "PostgreSQL password.")
	fs.StringVar(&o.Database, "postgres.database", o.Database, "PostgreSQL database name.")
	fs.StringVar(&o.SSLMode, "postgres.ssl-mode", o.SSLMode, "PostgreSQL SSL mode.")
	fs.IntVar(&o.MaxIdleConnections, "postgres.max-idle-connections", o.MaxIdleConnections, "Maximum idle connections in the pool.")
	fs.IntVar(&o.MaxOpenConnections, "postgres.max-open-connections", o.MaxOpenConnections, "Maximum open connections to the database.")
	fs.DurationVar(&o.MaxConnectionLifeTime, "postgres.max-connection-life-time", o.MaxConnectionLifeTime, "Maximum amount of time a connection may be reused.")
	fs.IntVar(&o.LogLevel, "postgres.log-level", o.LogLevel, "GORM log level (1 silent, 2 error, 3 warn, 4 info).")
}
