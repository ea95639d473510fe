package recordguard

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/recordguard/internal/recordguard/biz"
	"github.com/kart-io/recordguard/pkg/component/mysql"
	"github.com/kart-io/recordguard/pkg/component/postgres"
	logopts "github.com/kart-io/recordguard/pkg/options/logger"
	redisopts "github.com/kart-io/recordguard/pkg/options/redis"
	httpopts "github.com/kart-io/recordguard/pkg/options/server/http"
	"github.com/kart-io/recordguard/pkg/security/csrf"
	"github.com/kart-io/recordguard/pkg/security/session"
)

// Token store backends.
const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// Database drivers.
const (
	DBDriverMySQL    = "mysql"
	DBDriverPostgres = "postgres"
)

// Options aggregates all configuration for the record access service.
type Options struct {
	Log      *logopts.Options   `json:"log" mapstructure:"log"`
	HTTP     *httpopts.Options  `json:"http" mapstructure:"http"`
	MySQL    *mysql.Options     `json:"mysql" mapstructure:"mysql"`
	Postgres *postgres.Options  `json:"postgres" mapstructure:"postgres"`
	Redis    *redisopts.Options `json:"redis" mapstructure:"redis"`
	Session  *session.Options   `json:"session" mapstructure:"session"`
	CSRF     *csrf.Options      `json:"csrf" mapstructure:"csrf"`

	// DBDriver selects the relational backend (mysql|postgres).
	DBDriver string `json:"db-driver" mapstructure:"db-driver"`

	// TokenStore selects the backend for CSRF tokens and session
	// revocation: "memory" for single-instance, "redis" for shared.
	TokenStore string `json:"token-store" mapstructure:"token-store"`

	// RateLimitHour and RateLimitDay cap record generation per staff
	// member in the trailing hour and day windows.
	RateLimitHour int64 `json:"ratelimit-hour" mapstructure:"ratelimit-hour"`
	RateLimitDay  int64 `json:"ratelimit-day" mapstructure:"ratelimit-day"`
}

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		Log:           logopts.NewOptions(),
		HTTP:          httpopts.NewOptions(),
		MySQL:         mysql.NewOptions(),
		Postgres:      postgres.NewOptions(),
		Redis:         redisopts.NewOptions(),
		Session:       session.NewOptions(),
		CSRF:          csrf.NewOptions(),
		DBDriver:      DBDriverMySQL,
		TokenStore:    TokenStoreMemory,
		RateLimitHour: biz.DefaultHourLimit,
		RateLimitDay:  biz.DefaultDayLimit,
	}
}

// AddFlags adds all option flags to the given FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.HTTP.AddFlags(fs)
	o.MySQL.AddFlags(fs)
	o.Postgres.AddFlags(fs)
	o.Redis.AddFlags(fs)
	o.Session.AddFlags(fs)
	o.CSRF.AddFlags(fs)

	fs.StringVar(&o.DBDriver, "db-driver", o.DBDriver,
		"Relational database driver (mysql|postgres).")
	fs.StringVar(&o.TokenStore, "token-store", o.TokenStore,
		"Backend for CSRF tokens and session revocation (memory|redis).")
	fs.Int64Var(&o.RateLimitHour, "ratelimit.hour", o.RateLimitHour,
		"Maximum record generations per staff member in the trailing hour.")
	fs.Int64Var(&o.RateLimitDay, "ratelimit.day", o.RateLimitDay,
		"Maximum record generations per staff member in the trailing day.")
}

// Complete completes all options with defaults.
func (o *Options) Complete() error {
	if o.DBDriver == "" {
		o.DBDriver = DBDriverMySQL
	}
	if o.TokenStore == "" {
		o.TokenStore = TokenStoreMemory
	}
	for _, c := range []interface{ Complete() error }{o.Log, o.HTTP, o.MySQL, o.Postgres, o.Redis, o.Session, o.CSRF} {
		if err := c.Complete(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates all options.
func (o *Options) Validate() error {
	if o.DBDriver != DBDriverMySQL && o.DBDriver != DBDriverPostgres {
		return fmt.Errorf("db-driver must be one of mysql|postgres, got %q", o.DBDriver)
	}
	if o.TokenStore != TokenStoreMemory && o.TokenStore != TokenStoreRedis {
		return fmt.Errorf("token-store must be one of memory|redis, got %q", o.TokenStore)
	}
	if o.RateLimitHour <= 0 {
		return fmt.Errorf("ratelimit.hour must be positive, got %d", o.RateLimitHour)
	}
	if o.RateLimitDay <= 0 {
		return fmt.Errorf("ratelimit.day must be positive, got %d", o.RateLimitDay)
	}
	for _, v := range []interface{ Validate() error }{o.Log, o.HTTP, o.Session, o.CSRF} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	switch o.DBDriver {
	case DBDriverMySQL:
		if err := o.MySQL.Validate(); err != nil {
			return err
		}
	case DBDriverPostgres:
		if err := o.Postgres.Validate(); err != nil {
			return err
		}
	}
	if o.TokenStore == TokenStoreRedis {
		if err := o.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}
