package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	simplybookCompany       string
	simplybookApiKey        string
	simplybookAdminLogin    string
	simplybookAdminPassword string

	location                 *time.Location
	staticWebClientDir       string
	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		// the SimplyBook credentials are validated per auth flow, not at
		// startup: the public pages and the calendar must still serve when
		// only one (or neither) credential set is configured
		simplybookCompany: func() string {
			company := os.Getenv("SIMPLYBOOK_COMPANY")
			if company == "" {
				slog.Warn("SIMPLYBOOK_COMPANY is not set")
			}
			slog.Debug("env", "SIMPLYBOOK_COMPANY", company)
			return company
		}(),
		simplybookApiKey: func() string {
			apiKey := os.Getenv("SIMPLYBOOK_API_KEY")
			if apiKey == "" {
				slog.Warn("SIMPLYBOOK_API_KEY is not set")
			} else if len(apiKey) < 3 {
				slog.Debug("env", "SIMPLYBOOK_API_KEY", "...")
			} else {
				slog.Debug("env", "SIMPLYBOOK_API_KEY", apiKey[0:3]+"...")
			}
			return apiKey
		}(),
		simplybookAdminLogin: func() string {
			login := os.Getenv("SIMPLYBOOK_ADMIN_LOGIN")
			if login == "" {
				slog.Warn("SIMPLYBOOK_ADMIN_LOGIN is not set")
			}
			slog.Debug("env", "SIMPLYBOOK_ADMIN_LOGIN", login)
			return login
		}(),
		simplybookAdminPassword: func() string {
			password := os.Getenv("SIMPLYBOOK_ADMIN_PASSWORD")
			if password == "" {
				slog.Warn("SIMPLYBOOK_ADMIN_PASSWORD is not set")
			}
			return password
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Error("STATIC_WEB_CLIENT_DIR is not set")
				os.Exit(1)
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "error", err)
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "1m"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get SIMPLYBOOK_COMPANY env
func (c *Config) GetSimplybookCompany() string {
	return c.simplybookCompany
}

// Get SIMPLYBOOK_API_KEY env
func (c *Config) GetSimplybookApiKey() string {
	return c.simplybookApiKey
}

// Get SIMPLYBOOK_ADMIN_LOGIN env
func (c *Config) GetSimplybookAdminLogin() string {
	return c.simplybookAdminLogin
}

// Get SIMPLYBOOK_ADMIN_PASSWORD env
func (c *Config) GetSimplybookAdminPassword() string {
	return c.simplybookAdminPassword
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get STATIC_WEB_CLIENT_DIR env
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get METRIC_COLLECTION_INTERVAL env, default to 1m
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
