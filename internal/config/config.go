package config

import (
	"fmt"
	"os"
)

type Config struct {
	Host string
	Port string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTLSec   int

	ElasticAddr     string
	ElasticUsername string
	ElasticPassword string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	}
	return def
}

func require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s is not set in the environment", key)
	}
	return v, nil
}

// Load reads configuration from the environment. DATABASE_URL, HOST and
// PORT have no defaults; startup aborts when any of them is missing.
func Load() (*Config, error) {
	dbURL, err := require("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	host, err := require("HOST")
	if err != nil {
		return nil, err
	}
	port, err := require("PORT")
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:        host,
		Port:        port,
		DatabaseURL: dbURL,

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvi("REDIS_DB", 0),
		CacheTTLSec:   getenvi("CACHE_TTL_SECONDS", 300),

		ElasticAddr:     getenv("ELASTICSEARCH_ADDR", "http://localhost:9200"),
		ElasticUsername: getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticPassword: getenv("ELASTICSEARCH_PASSWORD", ""),
	}, nil
}

// Addr is the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
