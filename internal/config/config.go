package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Timezone             string                     `toml:"timezone"`
	Server               ServerConfig               `toml:"server"`
	Database             DatabaseConfig             `toml:"database"`
	Logs                 LogsConfig                 `toml:"logs"`
	Metrics              MetricsConfig              `toml:"metrics"`
	AffectingIndex       AffectingIndexConfig       `toml:"affecting_index"`
	ReservationUnitCache ReservationUnitCacheConfig `toml:"reservation_unit_cache"`
	FirstReservableTime  FirstReservableTimeConfig  `toml:"first_reservable_time"`
	AccessCodeService    ClientConfig               `toml:"access_code_service"`
	EventService         ClientConfig               `toml:"event_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AffectingIndexConfig настройки кэша affecting time spans
type AffectingIndexConfig struct {
	MaxAgeSeconds    int  `toml:"max_age_seconds"`
	RefreshOnStartup bool `toml:"refresh_on_startup"`
	RefreshTimeout   int  `toml:"refresh_timeout"`
}

func (a AffectingIndexConfig) MaxAge() time.Duration {
	return time.Duration(a.MaxAgeSeconds) * time.Second
}

// ReservationUnitCacheConfig настройки LRU кэша единиц бронирования
type ReservationUnitCacheConfig struct {
	Size       int `toml:"size"`
	TTLSeconds int `toml:"ttl_seconds"`
}

func (r ReservationUnitCacheConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// FirstReservableTimeConfig настройки поиска первого свободного времени
type FirstReservableTimeConfig struct {
	// Глубина поиска для единиц без максимального срока бронирования
	SearchHorizonDays int `toml:"search_horizon_days"`
}

func (f FirstReservableTimeConfig) SearchHorizon() time.Duration {
	return time.Duration(f.SearchHorizonDays) * 24 * time.Hour
}

// ClientConfig настройки HTTP клиента внешнего сервиса
// Пустой URL отключает интеграцию
type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

func (c ClientConfig) Enabled() bool {
	return c.URL != ""
}

func (c ClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из строки (используется в тестах и CLI)
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Timezone: "Europe/Helsinki",
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "varaamo",
			DBName:          "varaamo",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "varaamo-core",
		},
		AffectingIndex: AffectingIndexConfig{
			MaxAgeSeconds:    300,
			RefreshOnStartup: true,
			RefreshTimeout:   60,
		},
		ReservationUnitCache: ReservationUnitCacheConfig{
			Size:       512,
			TTLSeconds: 60,
		},
		FirstReservableTime: FirstReservableTimeConfig{
			SearchHorizonDays: 365,
		},
		AccessCodeService: ClientConfig{Timeout: 5},
		EventService:      ClientConfig{Timeout: 5},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.AffectingIndex.MaxAgeSeconds <= 0 {
		return fmt.Errorf("%w: affecting_index.max_age_seconds must be positive", ErrInvalidConfig)
	}
	if c.ReservationUnitCache.Size <= 0 {
		return fmt.Errorf("%w: reservation_unit_cache.size must be positive", ErrInvalidConfig)
	}
	if c.FirstReservableTime.SearchHorizonDays <= 0 {
		return fmt.Errorf("%w: first_reservable_time.search_horizon_days must be positive", ErrInvalidConfig)
	}
	return nil
}

// Location возвращает часовой пояс, в котором интерпретируются даты и время суток
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
