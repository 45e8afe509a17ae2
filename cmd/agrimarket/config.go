package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/aydjer/agrimarket/internal/logger"
)

const (
	defaultListenAddr  = "localhost:8000"
	defaultLogLevel    = logger.LevelInfo
	defaultEnvironment = logger.EnvProduction
	defaultAppOrigin   = "http://localhost:8000"
	defaultSMTPPort    = 587
)

type Config struct {
	// Address on which the agrimarket service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secrets signing access and refresh tokens. Must differ from each
	// other so one token kind can not be replayed as the other.
	AccessSecret  string
	RefreshSecret string

	// Origin used when building links in outgoing emails
	AppOrigin string

	// SMTP delivery. When Host is empty outgoing email is written to the
	// log instead, which is the development setup.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Set the Secure flag on auth cookies
	CookieSecure bool

	Environment string
	LogLevel    string
}

func NewConfig() *Config {
	return &Config{
		ListenAddr:  defaultListenAddr,
		AppOrigin:   defaultAppOrigin,
		SMTPPort:    defaultSMTPPort,
		Environment: defaultEnvironment,
		LogLevel:    defaultLogLevel,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if parsed, err := strconv.Atoi(value); err == nil {
				*o = parsed
			}
		}
	}
	setBool := func(o *bool) func(value string) {
		return func(value string) {
			if parsed, err := strconv.ParseBool(value); err == nil {
				*o = parsed
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":        setString(&c.ListenAddr),
		"DATABASE_URI":       setString(&c.DatabaseDSN),
		"JWT_SECRET":         setString(&c.AccessSecret),
		"JWT_REFRESH_SECRET": setString(&c.RefreshSecret),
		"APP_ORIGIN":         setString(&c.AppOrigin),
		"SMTP_HOST":          setString(&c.SMTPHost),
		"SMTP_PORT":          setInt(&c.SMTPPort),
		"SMTP_USERNAME":      setString(&c.SMTPUsername),
		"SMTP_PASSWORD":      setString(&c.SMTPPassword),
		"EMAIL_FROM":         setString(&c.EmailFrom),
		"COOKIE_SECURE":      setBool(&c.CookieSecure),
		"ENVIRONMENT":        setString(&c.Environment),
		"LOG_LEVEL":          setString(&c.LogLevel),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("agrimarket", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.AccessSecret, "jwt-secret", c.AccessSecret, "Secret signing access tokens")
	fs.StringVar(&c.RefreshSecret, "jwt-refresh-secret", c.RefreshSecret, "Secret signing refresh tokens")
	fs.StringVar(&c.AppOrigin, "app-origin", c.AppOrigin, "Origin used in email links")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database connection string is required")
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("both jwt secrets are required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("jwt secrets must differ")
	}
	return nil
}
