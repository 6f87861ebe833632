package server

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const testSettings = `
address: ":9090"
log:
  level: debug
store:
  driver: sqlite
  dsn: /tmp/charts.db
session:
  name: charts
`

func TestLoadSettingsUnitTest(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	SetDefaults(v)

	if err := v.ReadConfig(strings.NewReader(testSettings)); err != nil {
		t.Fatalf("err: %s\n", err.Error())
	}

	s, err := LoadSettings(v)

	if err != nil {
		t.Fatalf("err: %s\n", err.Error())
	}

	if s.Address != ":9090" {
		t.Errorf("should have address from config; got %s\n", s.Address)
	}
	if s.Log.Level != "debug" || s.Log.Format != "text" {
		t.Errorf("should merge log settings with defaults; got %+v\n", s.Log)
	}
	if s.Store.Driver != SQLiteDriver || s.Store.DSN != "/tmp/charts.db" {
		t.Errorf("should have sqlite store; got %+v\n", s.Store)
	}
	if s.Session.Name != "charts" || s.Session.MaxAge != 86400*30 {
		t.Errorf("should have session settings; got %+v\n", s.Session)
	}
	if !s.CSRF.Secure {
		t.Errorf("should default to secure csrf cookie\n")
	}
}

func TestLoadSettingsUnknownDriverUnitTest(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("store.driver", "redis")

	if _, err := LoadSettings(v); err == nil {
		t.Errorf("should have error for unknown driver\n")
	}
}
