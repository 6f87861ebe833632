package server

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store drivers
const (
	MemoryDriver = "memory"
	SQLiteDriver = "sqlite"
)

// CSRFSetting is config struct for csrf protection of form posts
//
// Protection is enabled when AuthKey is set
type CSRFSetting struct {
	AuthKey string `yaml:"auth_key" mapstructure:"auth_key"`
	Secure  bool   `yaml:"secure" mapstructure:"secure"`
}

// SessionSetting is config struct for the cookie session remembering
// derived instance ids
//
// Random keys are generated on start when AuthKey is empty, which
// forgets every session on restart
type SessionSetting struct {
	Name       string `yaml:"name" mapstructure:"name"`
	AuthKey    string `yaml:"auth_key" mapstructure:"auth_key"`
	EncryptKey string `yaml:"encrypt_key" mapstructure:"encrypt_key"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
}

// StoreSetting is config struct for the settings store
type StoreSetting struct {
	Driver    string `yaml:"driver" mapstructure:"driver"`
	DSN       string `yaml:"dsn" mapstructure:"dsn"`
	Table     string `yaml:"table" mapstructure:"table"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

// ChartSetting is config struct for rendered charts
type ChartSetting struct {
	Width  string `yaml:"width" mapstructure:"width"`
	Height string `yaml:"height" mapstructure:"height"`
}

// LogSetting is config struct for logging
type LogSetting struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Settings is the configuration settings for the app
type Settings struct {
	Address string `yaml:"address" mapstructure:"address"`
	Prod    bool   `yaml:"prod" mapstructure:"prod"`

	Log     LogSetting     `yaml:"log" mapstructure:"log"`
	CSRF    CSRFSetting    `yaml:"csrf" mapstructure:"csrf"`
	Session SessionSetting `yaml:"session" mapstructure:"session"`
	Store   StoreSetting   `yaml:"store" mapstructure:"store"`
	Chart   ChartSetting   `yaml:"chart" mapstructure:"chart"`
}

// SetDefaults registers the default value of every setting on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("address", ":8080")
	v.SetDefault("prod", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("csrf.auth_key", "")
	v.SetDefault("csrf.secure", true)
	v.SetDefault("session.name", "chartbuilder")
	v.SetDefault("session.auth_key", "")
	v.SetDefault("session.encrypt_key", "")
	v.SetDefault("session.max_age", 86400*30)
	v.SetDefault("store.driver", MemoryDriver)
	v.SetDefault("store.dsn", "chartbuilder.db")
	v.SetDefault("store.table", "")
	v.SetDefault("store.namespace", "")
	v.SetDefault("chart.width", "")
	v.SetDefault("chart.height", "")
}

// LoadSettings decodes the settings held by v
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings

	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.WithStack(err)
	}

	switch s.Store.Driver {
	case MemoryDriver, SQLiteDriver:
	default:
		return Settings{}, errors.Errorf("server: unknown store driver %q", s.Store.Driver)
	}

	return s, nil
}
