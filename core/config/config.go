package config

import (
	"fmt"
	"reflect"
	"strings"

	"georecon/core/database"
	"georecon/core/ingest"
	"georecon/core/logger"
	"georecon/core/reconcile"
	"georecon/core/server"
	"georecon/core/snapshot"
	"georecon/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the gazetteer feed database.
	Database database.Config `mapstructure:"database"`
	// Ingest holds configuration for reading the feed.
	Ingest ingest.Config `mapstructure:"ingest"`
	// Snapshot holds configuration for index persistence.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
	// Recon holds configuration for reconciliation and its result cache.
	Recon reconcile.Config `mapstructure:"recon"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadRules reads a reconciliation rules file on top of the built-in rules.
// An empty path returns the built-in rules.
func LoadRules(path string) (*reconcile.Rules, error) {
	cfg, err := LoadRulesConfig(path)
	if err != nil {
		return nil, err
	}
	rules, err := reconcile.NewRules(*cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// LoadRulesConfig reads the raw rules configuration. Keys missing from the file
// keep their built-in values.
func LoadRulesConfig(path string) (*reconcile.RulesConfig, error) {
	defaults := reconcile.DefaultRulesConfig()
	if path == "" {
		return &defaults, nil
	}

	v := viper.New()
	setDefaults(v, defaults)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var cfg reconcile.RulesConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return &cfg, nil
}

// setDefaults registers every field of a populated struct as a viper default.
func setDefaults(v *viper.Viper, iface any) {
	val := reflect.ValueOf(iface)
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			v.SetDefault(tag, val.Field(i).Interface())
		}
	}
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
