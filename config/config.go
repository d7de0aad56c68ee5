// Package config loads the application configuration from a YAML file, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AUTOGROUPCHAT"

// Read loads path, or config/config.yaml when path is empty. Every key can be overridden by
// an AUTOGROUPCHAT_ variable, e.g. AUTOGROUPCHAT_GROUPME_TOKEN.
func Read(path string) (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("unable to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("gateway", GatewayGroupMe)
	v.SetDefault("timezone", "")
	v.SetDefault("schedule", "0 0 9 * * *")

	v.SetDefault("google.service_account_file", "service_account.json")
	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.token_file", "token.json")
	v.SetDefault("google.scopes", []string{"https://www.googleapis.com/auth/spreadsheets.readonly"})

	v.SetDefault("groupme.token", "")
	v.SetDefault("groupme.base_url", "https://api.groupme.com/v3")
	v.SetDefault("groupme.self_name", "AutoGroupMe")
	v.SetDefault("groupme.requests_per_second", 2.0)
	v.SetDefault("groupme.poll_timeout", 2*time.Minute)
	v.SetDefault("groupme.retry.attempts", 5)
	v.SetDefault("groupme.retry.initial_delay", 500*time.Millisecond)
	v.SetDefault("groupme.retry.max_delay", 30*time.Second)
}

// Validate reports the first problem that would make a run fail halfway.
func (c Config) Validate() error {
	switch c.Gateway {
	case GatewayGroupMe:
		if c.GroupMe.Token == "" {
			return errors.New("groupme.token is required by the groupme gateway")
		}
	case GatewayDryRun:
	default:
		return fmt.Errorf("unknown gateway %q, expected %q or %q", c.Gateway, GatewayGroupMe, GatewayDryRun)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for i, s := range c.Sheets {
		if s.SpreadsheetID == "" && s.File == "" {
			return fmt.Errorf("sheets[%d] (%s): spreadsheet_id or file is required", i, s.Name)
		}
	}
	return nil
}

// Location is the time zone used to decide which day it is. It defaults to the host's.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// UsesGoogle reports whether any sheet is read through the Sheets API.
func (c Config) UsesGoogle() bool {
	for _, s := range c.Sheets {
		if s.File == "" {
			return true
		}
	}
	return false
}

// DisplayName names the sheet in logs.
func (s Sheet) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.File != "":
		return s.File
	default:
		return s.SpreadsheetID
	}
}
