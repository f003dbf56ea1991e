package configs

import "fmt"

// PostgresConfig holds connection settings for the primary relational store.
type PostgresConfig struct {
	Host               string             `mapstructure:"host" validate:"required"`
	Port               int                `mapstructure:"port" validate:"required"`
	DbName             string             `mapstructure:"db_name" validate:"required"`
	Auth               PostgresAuthConfig `mapstructure:"auth" validate:"required"`
	MaxOpenConnection  int                `mapstructure:"max_open_connection"`
	MaxIdealConnection int                `mapstructure:"max_ideal_connection"`
	SslMode            string             `mapstructure:"ssl_mode"`
}

type PostgresAuthConfig struct {
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// DSN renders the postgres connection string consumed by the gorm driver.
func (pc PostgresConfig) DSN() string {
	sslMode := pc.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		pc.Host, pc.Auth.User, pc.Auth.Password, pc.DbName, pc.Port, sslMode)
}

// MigrateURL renders the connection URL consumed by golang-migrate.
func (pc PostgresConfig) MigrateURL() string {
	sslMode := pc.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Auth.User, pc.Auth.Password, pc.Host, pc.Port, pc.DbName, sslMode)
}

// RedisConfig holds connection settings for redis (locks, presence, query cache).
type RedisConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

func (rc RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", rc.Host, rc.Port)
}

// CloudonixConfig holds settings for the Cloudonix platform HTTP API.
type CloudonixConfig struct {
	BaseUrl string `mapstructure:"base_url" validate:"required"`
	ApiKey  string `mapstructure:"api_key" validate:"required"`
	Domain  string `mapstructure:"domain" validate:"required"`
}
