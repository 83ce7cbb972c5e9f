package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "meetmatch")
	t.Setenv("DB_NAME", "meetmatch")
	t.Setenv("JWT_SECRET", validSecret)
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.GetAddr())
	require.Equal(t, []string{"*"}, cfg.CORS.Origins)
	require.Equal(t, 20, cfg.Match.DefaultLimit)
	require.Equal(t, 100, cfg.Match.MaxLimit)
	require.Equal(t, 60*time.Second, cfg.Websocket.PongWait)
	require.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, "host=localhost port=5432 user=meetmatch password= dbname=meetmatch sslmode=disable", cfg.Database.GetDSN())
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("WS_PONG_WAIT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	require.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, 30*time.Second, cfg.Websocket.PongWait)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Store:    StoreConfig{Driver: StoreDriverPostgres},
			Database: DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			JWT:      JWTConfig{Secret: validSecret},
			Match:    MatchConfig{DefaultLimit: 20, MaxLimit: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: "at least 32"},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: "JWT secret is required"},
		{name: "missing db host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "database host"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: "unknown store driver"},
		{name: "mongo needs uri", mutate: func(c *Config) { c.Store.Driver = StoreDriverMongo; c.Mongo.Database = "x" }, wantErr: "mongo uri"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "redis without channel", mutate: func(c *Config) { c.Redis.Enabled = true }, wantErr: "redis channel"},
		{name: "default above max", mutate: func(c *Config) { c.Match.DefaultLimit = 200 }, wantErr: "exceeds max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
