// Package ormbridge mirrors declared gorm models into equivalent mirror
// model declarations, both as live descriptors and as generated source,
// and lazily opens the configured database connections behind them.
package ormbridge

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ormbridge/ormbridge/logger"
	"github.com/ormbridge/ormbridge/mirror"
)

// DatabaseConfig declares one named database connection.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// PoolConfig overrides pool sizing for one connection alias. Zero values
// keep the driver defaults.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Config configures a Bridge.
type Config struct {
	// IncludeModels and ExcludeModels hold "pkg.Model" glob patterns.
	// A nil include list admits every model, an empty one admits none.
	// Exclusion wins over inclusion.
	IncludeModels []string
	ExcludeModels []string

	// KindOverrides rewrites introspected field kinds before dispatch,
	// keyed by "pkg.Model.field".
	KindOverrides map[string]string

	// DriverMap maps additional driver names onto known backends,
	// merged over the built-in mapping.
	DriverMap map[string]string

	Databases     map[string]DatabaseConfig
	PoolOverrides map[string]PoolConfig

	// Namespace is the target app namespace of generated models.
	Namespace string

	Namer  mirror.Namer
	Logger logger.Interface
}

type backend int

const (
	backendPostgres backend = iota + 1
	backendSQLite
)

var defaultDriverMap = map[string]string{
	"postgres": "postgres",
	"pgx":      "postgres",
	"sqlite":   "sqlite",
	"sqlite3":  "sqlite",
}

// connSpec is a validated connection declaration.
type connSpec struct {
	alias   string
	backend backend
	dsn     string
	pool    PoolConfig
}

// connSpecs resolves every configured database to a known backend. An
// unknown driver fails here, before any connection is attempted.
func (c *Config) connSpecs() ([]connSpec, error) {
	drivers := map[string]string{}
	for k, v := range defaultDriverMap {
		drivers[k] = v
	}
	for k, v := range c.DriverMap {
		drivers[strings.ToLower(k)] = strings.ToLower(v)
	}

	var specs []connSpec
	for alias, db := range c.Databases {
		name, ok := drivers[strings.ToLower(db.Driver)]
		if !ok {
			return nil, fmt.Errorf("%w: driver %q for database %q", ErrUnsupportedBackend, db.Driver, alias)
		}

		spec := connSpec{alias: alias, dsn: db.DSN, pool: c.PoolOverrides[alias]}
		switch name {
		case "postgres":
			spec.backend = backendPostgres
		case "sqlite":
			spec.backend = backendSQLite
		default:
			return nil, fmt.Errorf("%w: backend %q for database %q", ErrUnsupportedBackend, name, alias)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ShouldInclude applies the include and exclude patterns to a model label.
func (c *Config) ShouldInclude(label string) bool {
	for _, pattern := range c.ExcludeModels {
		if ok, _ := path.Match(pattern, label); ok {
			return false
		}
	}

	if c.IncludeModels == nil {
		return true
	}
	for _, pattern := range c.IncludeModels {
		if ok, _ := path.Match(pattern, label); ok {
			return true
		}
	}
	return false
}

func (c *Config) namespace() string {
	if c.Namespace == "" {
		return "ormbridge"
	}
	return c.Namespace
}

func (c *Config) namer() mirror.Namer {
	if c.Namer == nil {
		return mirror.NamingStrategy{}
	}
	return c.Namer
}

func (c *Config) logger() logger.Interface {
	if c.Logger == nil {
		return logger.Default
	}
	return c.Logger
}

// LoadEnvConfig builds a Config from ORMBRIDGE_* environment variables,
// loading the given dotenv files first. Missing files are not an error;
// the environment may already be populated.
func LoadEnvConfig(files ...string) (*Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading env file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Namespace: os.Getenv("ORMBRIDGE_NAMESPACE"),
		Databases: map[string]DatabaseConfig{},
	}

	if driver := os.Getenv("ORMBRIDGE_DB_DRIVER"); driver != "" {
		cfg.Databases["default"] = DatabaseConfig{
			Driver: driver,
			DSN:    os.Getenv("ORMBRIDGE_DB_DSN"),
		}
	}

	if include := os.Getenv("ORMBRIDGE_INCLUDE"); include != "" {
		cfg.IncludeModels = splitList(include)
	}
	if exclude := os.Getenv("ORMBRIDGE_EXCLUDE"); exclude != "" {
		cfg.ExcludeModels = splitList(exclude)
	}

	if level := os.Getenv("ORMBRIDGE_LOG_LEVEL"); level != "" {
		cfg.Logger = logger.Default.LogMode(logger.ParseLevel(level))
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
