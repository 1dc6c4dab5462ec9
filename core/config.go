package core

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		Debug           bool
		TestMode        bool
		RollbarToken    string
		DefaultPageSize int

		API struct {
			BaseURL   string
			Timeout   time.Duration
			UserAgent string
		}

		Session struct {
			Path string
		}

		Export struct {
			Dir string
		}
	}
)

// NewConfig loads the configuration from defaults, an optional dormadmin.yaml,
// config/.env.<env> and the environment (in increasing priority).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "DormAdmin")
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("defaultPageSize", 10)
	conf.SetDefault("api.baseURL", "http://localhost:5000")
	conf.SetDefault("api.timeout", 30*time.Second)
	conf.SetDefault("api.userAgent", "dormadmin")
	conf.SetDefault("session.path", filepath.Join(configDir(), "session.json"))
	conf.SetDefault("export.dir", ".")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	conf.SetConfigName("dormadmin")
	conf.SetConfigType("yaml")
	conf.AddConfigPath(configDir())
	conf.AddConfigPath(".")
	if err := conf.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("config.ReadInConfig: %v", err)
		}
	}

	c := &Config{
		AppName:         conf.GetString("appName"),
		Env:             env,
		Build:           conf.GetString("build"),
		Debug:           conf.GetBool("debug"),
		TestMode:        conf.GetBool("testMode"),
		RollbarToken:    conf.GetString("rollbarToken"),
		DefaultPageSize: conf.GetInt("defaultPageSize"),
	}
	c.API.BaseURL = strings.TrimSuffix(conf.GetString("api.baseURL"), "/")
	c.API.Timeout = conf.GetDuration("api.timeout")
	c.API.UserAgent = conf.GetString("api.userAgent")
	c.Session.Path = conf.GetString("session.path")
	c.Export.Dir = conf.GetString("export.dir")
	return c
}

// Validate checks the values the console cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.baseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.Wrap(err, "parsing api.baseURL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("api.baseURL: unsupported scheme %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 10
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "dormadmin")
}
