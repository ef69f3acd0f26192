package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Port         int
		CORSOrigin   string
		CookieSecure bool
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
	}
	Backup struct {
		Path string
		// Cron expression for the automatic database backup. Empty disables it.
		Schedule string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
}

// Load reads configuration from environment variables and an optional config file.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("HOMEHAVEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.corsorigin", "http://localhost:5173")
	v.SetDefault("server.cookiesecure", false)
	v.SetDefault("database.path", "data/homehaven.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("backup.path", "data/backups")
	v.SetDefault("backup.schedule", "0 4 * * *")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "listing-images")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("auth.jwtsecret (HOMEHAVEN_AUTH_JWTSECRET) is required")
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
