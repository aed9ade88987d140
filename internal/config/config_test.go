package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	setSecrets(t)

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", c.App.Env)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, 5*time.Minute, c.Cache.PermissionsTTL)
	require.Equal(t, 15*time.Minute, c.JWT.AccessTTL)
	require.Equal(t, 168*time.Hour, c.JWT.RefreshTTL)
	require.Equal(t, time.Hour, c.Auth.Reset.TTL)
	require.Equal(t, "User", c.Auth.DefaultRole)
	require.Equal(t, "refreshToken", c.Auth.RefreshCookie.Name)
	require.Equal(t, "/api/auth/refresh", c.Auth.RefreshCookie.Path)
	require.Equal(t, "Strict", c.Auth.RefreshCookie.SameSite)
	require.False(t, c.Auth.RefreshCookie.Secure)
	require.Equal(t, "argon2id", c.Security.PasswordHasher)
	require.Equal(t, 12, c.Security.BcryptCost)
	require.Equal(t, 8, c.Security.PasswordPolicy.MinLength)
	require.Equal(t, RateWindow{Limit: 10, Window: time.Minute}, c.Rate.Login)
	require.Equal(t, RateWindow{Limit: 5, Window: 10 * time.Minute}, c.Rate.Forgot)
	require.Equal(t, "log", c.SMTP.Driver)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	setSecrets(t)
	p := writeYAML(t, `
app:
  env: staging
server:
  addr: ":9000"
  cors_allowed_origins: ["http://localhost:5173"]
cache:
  kind: redis
  redis:
    addr: "localhost:6379"
  permissions_ttl: 90s
jwt:
  access_ttl: 5m
rate:
  enabled: true
  login:
    limit: 3
`)
	t.Setenv("SERVER_ADDR", ":9100")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "staging", c.App.Env)
	require.Equal(t, ":9100", c.Server.Addr)
	require.Equal(t, []string{"http://localhost:5173"}, c.Server.CORSAllowedOrigins)
	require.Equal(t, "redis", c.Cache.Kind)
	require.Equal(t, 90*time.Second, c.Cache.PermissionsTTL)
	require.Equal(t, 5*time.Minute, c.JWT.AccessTTL)
	require.Equal(t, RateWindow{Limit: 3, Window: time.Minute}, c.Rate.Login)
}

func TestProdForcesSecureCookie(t *testing.T) {
	setSecrets(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SMTP_DRIVER", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	c, err := Load("")
	require.NoError(t, err)
	require.True(t, c.IsProd())
	require.True(t, c.Auth.RefreshCookie.Secure)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secrets", map[string]string{"JWT_ACCESS_SECRET": "", "JWT_REFRESH_SECRET": ""}, "are required"},
		{"same secrets", map[string]string{"JWT_REFRESH_SECRET": "access-secret"}, "must differ"},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}, "storage.dsn"},
		{"unknown cache", map[string]string{"CACHE_KIND": "memcached"}, "cache.kind"},
		{"redis without addr", map[string]string{"CACHE_KIND": "redis"}, "cache.redis.addr"},
		{"unknown hasher", map[string]string{"SECURITY_PASSWORD_HASHER": "md5"}, "password_hasher"},
		{"log mailer in prod", map[string]string{"APP_ENV": "prod"}, "not allowed in prod"},
		{"bad env", map[string]string{"APP_ENV": "qa"}, "app.env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setSecrets(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	setSecrets(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
