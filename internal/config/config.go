package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	State    StateConfig    `mapstructure:"state"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	WA       WAConfig       `mapstructure:"wa"`
	Invite   InviteConfig   `mapstructure:"invite"`
	Checkin  CheckinConfig  `mapstructure:"checkin"`
	Event    EventConfig    `mapstructure:"event"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host                    string        `mapstructure:"host"`
	Port                    int           `mapstructure:"port"`
	Mode                    string        `mapstructure:"mode"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // "sqlite" | "postgres" | "mysql"
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	BackfillTokens  bool          `mapstructure:"backfill_tokens"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type StateConfig struct {
	Backend    string        `mapstructure:"backend"` // "redis" | "memory"
	CounterTTL time.Duration `mapstructure:"counter_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

type JWTConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
}

type AdminConfig struct {
	PIN        string        `mapstructure:"pin"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// WAConfig points at the external WhatsApp sending gateway.
type WAConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	User    string        `mapstructure:"user"`
	Pass    string        `mapstructure:"pass"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type InviteConfig struct {
	// BaseURL overrides the request origin when building invitation links.
	BaseURL string `mapstructure:"base_url"`
}

type CheckinConfig struct {
	HadirOnly bool `mapstructure:"hadir_only"`
}

// EventConfig is the descriptive metadata of the single event.
type EventConfig struct {
	Nama       string `mapstructure:"nama" json:"nama"`
	Organisasi string `mapstructure:"organisasi" json:"organisasi"`
	Tanggal    string `mapstructure:"tanggal" json:"tanggal"`
	Waktu      string `mapstructure:"waktu" json:"waktu"`
	Lokasi     string `mapstructure:"lokasi" json:"lokasi"`
	Dresscode  string `mapstructure:"dresscode" json:"dresscode"`
	Contact    string `mapstructure:"contact" json:"contact"`
	WAIntro    string `mapstructure:"wa_intro" json:"wa_intro"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// legacyEnv maps config keys to the flat variable names used by earlier deployments.
var legacyEnv = map[string][]string{
	"database.dsn":     {"TURSO_URL"},
	"event.nama":       {"NEXT_PUBLIC_EVENT_NAMA"},
	"event.organisasi": {"NEXT_PUBLIC_EVENT_ORGANISASI"},
	"event.tanggal":    {"NEXT_PUBLIC_EVENT_TANGGAL"},
	"event.waktu":      {"NEXT_PUBLIC_EVENT_WAKTU"},
	"event.lokasi":     {"NEXT_PUBLIC_EVENT_LOKASI"},
	"event.dresscode":  {"NEXT_PUBLIC_EVENT_DRESSCODE"},
	"event.contact":    {"NEXT_PUBLIC_EVENT_CONTACT"},
	"event.wa_intro":   {"NEXT_PUBLIC_EVENT_WA_INTRO"},
	"admin.pin":        {"NEXT_PUBLIC_ADMIN_PIN"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.graceful_shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "local.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.backfill_tokens", true)
	v.SetDefault("database.redis.host", "127.0.0.1")
	v.SetDefault("database.redis.port", 6379)
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.redis.pool_size", 10)

	v.SetDefault("state.backend", "memory")
	v.SetDefault("state.counter_ttl", 5*time.Second)
	v.SetDefault("state.key_prefix", "")

	v.SetDefault("jwt.signing_key", "ganti-dengan-kunci-rahasia")
	v.SetDefault("jwt.issuer", "rsvphub")

	v.SetDefault("admin.pin", "12345678")
	v.SetDefault("admin.session_ttl", 12*time.Hour)

	v.SetDefault("wa.api_url", "")
	v.SetDefault("wa.user", "")
	v.SetDefault("wa.pass", "")
	v.SetDefault("wa.timeout", 20*time.Second)

	v.SetDefault("invite.base_url", "")
	v.SetDefault("checkin.hadir_only", false)

	v.SetDefault("event.nama", "Ceremonial, Talkshow & Buka Bersama")
	v.SetDefault("event.organisasi", "BASNOM HIPMI OTOMOTIF JAWA BARAT")
	v.SetDefault("event.tanggal", "7 Maret 2026")
	v.SetDefault("event.waktu", "14.00 WIB - Selesai")
	v.SetDefault("event.lokasi", "Thee Matic Mall Majalaya")
	v.SetDefault("event.dresscode", "Hitam Gold")
	v.SetDefault("event.contact", "Kabid Digital & Marketplace BPD HIPMI OTOMOTIF JAWA BARAT")
	v.SetDefault("event.wa_intro", "Hana — Asisten Virtual BPD HIPMI OTOMOTIF JAWA BARAT")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Admin-PIN"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 12*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads an optional YAML file, overlays environment variables, and returns Config.
// A missing file is not an error; every key has a default.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Environment variable override: WA_API_URL -> wa.api_url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		canonical := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, canonical}, names...)...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
