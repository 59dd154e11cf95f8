package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jordanlanch/leaddesk/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Client holds the database handle shared by the stores
type Client struct {
	DB      *sql.DB
	Driver  *entsql.Driver
	dialect string
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpenConns    int           // Maximum number of open connections
	MaxIdleConns    int           // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum amount of time a connection may be reused
	ConnMaxIdleTime time.Duration // Maximum amount of time a connection may be idle
}

// SSLConfig holds SSL/TLS configuration for PostgreSQL connections
type SSLConfig struct {
	Mode         string // disable, require, verify-ca, verify-full
	CertPath     string
	KeyPath      string
	RootCertPath string
}

// DefaultPoolConfig returns sensible defaults for connection pooling
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// SQLitePoolConfig serializes access to a SQLite file. SQLite allows one
// writer at a time and transactions must not interleave on the same file.
func SQLitePoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 0,
		ConnMaxIdleTime: 0,
	}
}

// DialectFor maps a database/sql driver name onto the ent dialect
func DialectFor(driverName string) (string, error) {
	switch driverName {
	case "postgres":
		return dialect.Postgres, nil
	case "sqlite3":
		return dialect.SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driverName)
	}
}

// BuildConnectionString builds a PostgreSQL connection string with SSL parameters
func BuildConnectionString(baseURL string, sslCfg *SSLConfig) (string, error) {
	if sslCfg == nil {
		return baseURL, nil
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	query := parsedURL.Query()

	// Explicit mode wins over any sslmode already in the URL
	if sslCfg.Mode != "" {
		query.Set("sslmode", sslCfg.Mode)
	}
	if sslCfg.CertPath != "" {
		query.Set("sslcert", sslCfg.CertPath)
	}
	if sslCfg.KeyPath != "" {
		query.Set("sslkey", sslCfg.KeyPath)
	}
	if sslCfg.RootCertPath != "" {
		query.Set("sslrootcert", sslCfg.RootCertPath)
	}

	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

// NewClient opens a database with the pool defaults for its driver
func NewClient(driverName, databaseURL string) (*Client, error) {
	pool := DefaultPoolConfig()
	if d, _ := DialectFor(driverName); d == dialect.SQLite {
		pool = SQLitePoolConfig()
	}
	return NewClientWithPoolAndSSL(driverName, databaseURL, pool, nil)
}

// OpenFromConfig connects with the pool settings of the configured driver and,
// for PostgreSQL, the configured SSL files.
func OpenFromConfig(cfg *config.Config) (*Client, error) {
	if !cfg.IsPostgres() {
		return NewClient(cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	return NewClientWithPoolAndSSL(cfg.DatabaseDriver, cfg.DatabaseURL, DefaultPoolConfig(), SSLConfigFrom(cfg))
}

// SSLConfigFrom returns the SSL settings of cfg, or nil when the driver has none
func SSLConfigFrom(cfg *config.Config) *SSLConfig {
	if !cfg.IsPostgres() {
		return nil
	}
	return &SSLConfig{
		Mode:         cfg.DBSSLMode,
		CertPath:     cfg.DBSSLCertPath,
		KeyPath:      cfg.DBSSLKeyPath,
		RootCertPath: cfg.DBSSLRootCertPath,
	}
}

// NewClientWithPoolAndSSL opens a database with custom pool and SSL configuration.
// SSL settings only apply to PostgreSQL.
func NewClientWithPoolAndSSL(driverName, databaseURL string, poolCfg PoolConfig, sslCfg *SSLConfig) (*Client, error) {
	dialectName, err := DialectFor(driverName)
	if err != nil {
		return nil, err
	}

	connStr := databaseURL
	if dialectName == dialect.Postgres {
		connStr, err = BuildConnectionString(databaseURL, sslCfg)
		if err != nil {
			return nil, fmt.Errorf("failed building connection string: %w", err)
		}

		if sslCfg != nil && sslCfg.Mode != "" && sslCfg.Mode != "disable" {
			log.Printf("🔒 Database SSL enabled (mode: %s)", sslCfg.Mode)
		}
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", driverName, err)
	}

	db.SetMaxOpenConns(poolCfg.MaxOpenConns)
	db.SetMaxIdleConns(poolCfg.MaxIdleConns)
	db.SetConnMaxLifetime(poolCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(poolCfg.ConnMaxIdleTime)

	log.Printf("✅ Database connection pool configured (driver: %s, max_open: %d, max_idle: %d)",
		driverName, poolCfg.MaxOpenConns, poolCfg.MaxIdleConns)

	return &Client{
		DB:      db,
		Driver:  entsql.OpenDB(dialectName, db),
		dialect: dialectName,
	}, nil
}

// Dialect returns the ent dialect name of the connection
func (c *Client) Dialect() string {
	return c.dialect
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping checks if the database is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
