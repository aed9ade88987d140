package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML).
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		IdleTimeout        time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int32         `yaml:"max_conns"`
			MinConns        int32         `yaml:"min_conns"`
			ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		PermissionsTTL time.Duration `yaml:"permissions_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Issuer        string        `yaml:"issuer"`
		AccessSecret  string        `yaml:"access_secret"`
		RefreshSecret string        `yaml:"refresh_secret"`
		AccessTTL     time.Duration `yaml:"access_ttl"`
		RefreshTTL    time.Duration `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		DefaultRole string `yaml:"default_role"`
		Reset       struct {
			TTL time.Duration `yaml:"ttl"`
			URL string        `yaml:"url"` // link del frontend; el token va en ?token=
		} `yaml:"reset"`
		RefreshCookie struct {
			Name     string `yaml:"name"`
			Path     string `yaml:"path"`
			Domain   string `yaml:"domain"`
			SameSite string `yaml:"samesite"`
			Secure   bool   `yaml:"secure"`
		} `yaml:"refresh_cookie"`
	} `yaml:"auth"`

	Security struct {
		PasswordHasher string `yaml:"password_hasher"` // argon2id | bcrypt
		BcryptCost     int    `yaml:"bcrypt_cost"`
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
	} `yaml:"security"`

	Rate struct {
		Enabled bool       `yaml:"enabled"`
		Global  RateWindow `yaml:"global"`
		Login   RateWindow `yaml:"login"`
		Forgot  RateWindow `yaml:"forgot"`
	} `yaml:"rate"`

	SMTP struct {
		Driver             string `yaml:"driver"` // smtp | log
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	Flags struct {
		Migrate bool `yaml:"migrate"` // migrar al arrancar serve
	} `yaml:"flags"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"seed"`
}

// RateWindow es un límite de requests por ventana.
type RateWindow struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

func (w *RateWindow) withDefaults(limit int, window time.Duration) {
	if w.Limit == 0 {
		w.Limit = limit
	}
	if w.Window == 0 {
		w.Window = window
	}
}

// IsProd indica app.env=prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

// Load lee el YAML (path vacío = solo defaults y env), aplica defaults,
// overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Overrides por env antes de defaults: un env vacío no pisa nada
	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "admin-dashboard"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	// server
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	// storage y cache
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "admin-dashboard:"
	}
	if c.Cache.PermissionsTTL == 0 {
		c.Cache.PermissionsTTL = 5 * time.Minute
	}

	// jwt
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "admin-dashboard"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 7 * 24 * time.Hour
	}

	// auth
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "User"
	}
	if c.Auth.Reset.TTL == 0 {
		c.Auth.Reset.TTL = time.Hour
	}
	if c.Auth.Reset.URL == "" {
		c.Auth.Reset.URL = "http://localhost:5173/reset-password"
	}
	if c.Auth.RefreshCookie.Name == "" {
		c.Auth.RefreshCookie.Name = "refreshToken"
	}
	if c.Auth.RefreshCookie.Path == "" {
		c.Auth.RefreshCookie.Path = "/api/auth/refresh"
	}
	if c.Auth.RefreshCookie.SameSite == "" {
		c.Auth.RefreshCookie.SameSite = "Strict"
	}
	if c.IsProd() {
		c.Auth.RefreshCookie.Secure = true
	}

	// security
	if c.Security.PasswordHasher == "" {
		c.Security.PasswordHasher = "argon2id"
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 12
	}
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 8
		c.Security.PasswordPolicy.RequireUpper = true
		c.Security.PasswordPolicy.RequireLower = true
		c.Security.PasswordPolicy.RequireDigit = true
	}

	// rate
	c.Rate.Global.withDefaults(100, time.Minute)
	c.Rate.Login.withDefaults(10, time.Minute)
	c.Rate.Forgot.withDefaults(5, 10*time.Minute)

	// smtp
	if c.SMTP.Driver == "" {
		c.SMTP.Driver = "log"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	} else if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = int32(v)
	}
	if v, ok := getEnvDur("POSTGRES_CONN_MAX_LIFETIME"); ok {
		c.Storage.Postgres.ConnMaxLifetime = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvDur("CACHE_PERMISSIONS_TTL"); ok {
		c.Cache.PermissionsTTL = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_SECRET"); ok {
		c.JWT.AccessSecret = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_SECRET"); ok {
		c.JWT.RefreshSecret = v
	}
	if v, ok := getEnvDur("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvDur("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}

	// AUTH
	if v, ok := getEnvStr("AUTH_DEFAULT_ROLE"); ok {
		c.Auth.DefaultRole = v
	}
	if v, ok := getEnvDur("AUTH_RESET_TTL"); ok {
		c.Auth.Reset.TTL = v
	}
	if v, ok := getEnvStr("AUTH_RESET_URL"); ok {
		c.Auth.Reset.URL = v
	}
	if v, ok := getEnvStr("AUTH_REFRESH_COOKIE_DOMAIN"); ok {
		c.Auth.RefreshCookie.Domain = v
	}
	if v, ok := getEnvStr("AUTH_REFRESH_COOKIE_SAMESITE"); ok {
		c.Auth.RefreshCookie.SameSite = v
	}
	if v, ok := getEnvBool("AUTH_REFRESH_COOKIE_SECURE"); ok {
		c.Auth.RefreshCookie.Secure = v
	}

	// SECURITY
	if v, ok := getEnvStr("SECURITY_PASSWORD_HASHER"); ok {
		c.Security.PasswordHasher = strings.ToLower(v)
	}
	if v, ok := getEnvInt("SECURITY_BCRYPT_COST"); ok {
		c.Security.BcryptCost = v
	}
	if v, ok := getEnvInt("SECURITY_PASSWORD_POLICY_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_GLOBAL_LIMIT"); ok {
		c.Rate.Global.Limit = v
	}
	if v, ok := getEnvDur("RATE_GLOBAL_WINDOW"); ok {
		c.Rate.Global.Window = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvDur("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvInt("RATE_FORGOT_LIMIT"); ok {
		c.Rate.Forgot.Limit = v
	}
	if v, ok := getEnvDur("RATE_FORGOT_WINDOW"); ok {
		c.Rate.Forgot.Window = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_DRIVER"); ok {
		c.SMTP.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(v) // auto|starttls|ssl|none
	}
	if v, ok := getEnvBool("SMTP_INSECURE_SKIP_VERIFY"); ok {
		c.SMTP.InsecureSkipVerify = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	if v, ok := getEnvStr("METRICS_PATH"); ok {
		c.Metrics.Path = v
	}

	// FLAGS
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}

	// SEED
	if v, ok := getEnvStr("SEED_ADMIN_EMAIL"); ok {
		c.Seed.AdminEmail = v
	}
	if v, ok := getEnvStr("SEED_ADMIN_PASSWORD"); ok {
		c.Seed.AdminPassword = v
	}
}

// Validate junta todos los problemas de configuración en un solo error.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) { problems = append(problems, fmt.Errorf(format, args...)) }

	switch c.App.Env {
	case "dev", "staging", "prod":
	default:
		add("app.env must be dev, staging or prod (got %q)", c.App.Env)
	}

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			add("storage.dsn is required for the postgres driver")
		}
	default:
		add("storage.driver must be memory or postgres (got %q)", c.Storage.Driver)
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			add("cache.redis.addr is required for the redis cache")
		}
	default:
		add("cache.kind must be memory or redis (got %q)", c.Cache.Kind)
	}
	if c.Cache.PermissionsTTL < 0 {
		add("cache.permissions_ttl must be positive")
	}

	if strings.TrimSpace(c.JWT.AccessSecret) == "" || strings.TrimSpace(c.JWT.RefreshSecret) == "" {
		add("jwt.access_secret and jwt.refresh_secret are required")
	} else if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		add("jwt.access_secret and jwt.refresh_secret must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		add("jwt ttls must be positive")
	}
	if c.Auth.Reset.TTL <= 0 {
		add("auth.reset.ttl must be positive")
	}

	switch c.Security.PasswordHasher {
	case "argon2id", "bcrypt":
	default:
		add("security.password_hasher must be argon2id or bcrypt (got %q)", c.Security.PasswordHasher)
	}

	if c.Rate.Enabled {
		for _, w := range []struct {
			name string
			RateWindow
		}{{"global", c.Rate.Global}, {"login", c.Rate.Login}, {"forgot", c.Rate.Forgot}} {
			if w.Limit <= 0 || w.Window <= 0 {
				add("rate.%s needs a positive limit and window", w.name)
			}
		}
	}

	switch c.SMTP.Driver {
	case "log":
		if c.IsProd() {
			add("smtp.driver=log is not allowed in prod")
		}
	case "smtp":
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			add("smtp.host and smtp.from are required for the smtp driver")
		}
	default:
		add("smtp.driver must be smtp or log (got %q)", c.SMTP.Driver)
	}

	return errors.Join(problems...)
}
