package config

import (
	"github.com/rpattn/contactsvc/internal/db"
	"github.com/spf13/viper"
)

// Config carries everything the service needs at startup.
type Config struct {
	ListenAddr string
	// MappingConfigPath points at the header-mapping rule file. The file is
	// read once at startup; a missing or malformed file prevents start.
	MappingConfigPath string
	DB                db.Config
}

// Load reads config.yaml from configPath with environment overrides
// (APP_SERVER_ADDR, APP_DATABASE_HOST, ...). A missing file is not an
// error: defaults plus environment are enough to run.
func Load(configPath string) (Config, error) {
	cfg := Config{
		ListenAddr:        ":8080",
		MappingConfigPath: "mapping.config.json",
		DB:                db.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")

	v.BindEnv("server.addr")
	v.BindEnv("mapping.config_path")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("mapping.config_path") {
		cfg.MappingConfigPath = v.GetString("mapping.config_path")
	}
	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}
