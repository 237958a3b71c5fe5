package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config structure to hold server, redis, and feature configurations
type Config struct {
	Redis struct {
		Enabled   bool   `mapstructure:"enabled"`
		Host      string `mapstructure:"host"`
		Port      string `mapstructure:"port"`
		Password  string `mapstructure:"password"`
		DB        int    `mapstructure:"db"`
		KeyPrefix string `mapstructure:"key_prefix"`
		HashKeys  bool   `mapstructure:"hash_keys"`
		Timeout   int    `mapstructure:"timeout"`
	} `mapstructure:"redis"`
	Server struct {
		Host    string `mapstructure:"host"`
		Port    string `mapstructure:"port"`
		Mode    string `mapstructure:"mode"`
		Timeout struct {
			Read       int `mapstructure:"read"`
			Write      int `mapstructure:"write"`
			Idle       int `mapstructure:"idle"`
			ReadHeader int `mapstructure:"read_header"`
		} `mapstructure:"timeout"`
		TLS struct {
			Enabled  bool   `mapstructure:"enabled"`
			CertFile string `mapstructure:"cert_file"`
			KeyFile  string `mapstructure:"key_file"`
		} `mapstructure:"tls"`
	} `mapstructure:"server"`
	Preferences struct {
		DefaultTheme string        `mapstructure:"default_theme"`
		LoadTimeout  time.Duration `mapstructure:"load_timeout"`
		SaveTimeout  time.Duration `mapstructure:"save_timeout"`
	} `mapstructure:"preferences"`
	OTP struct {
		StaticCode      string        `mapstructure:"static_code"`
		Cooldown        int           `mapstructure:"cooldown"`
		TickInterval    time.Duration `mapstructure:"tick_interval"`
		SessionTTL      time.Duration `mapstructure:"session_ttl"`
		CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	} `mapstructure:"otp"`
	Driver struct {
		RequestDelay time.Duration `mapstructure:"request_delay"`
	} `mapstructure:"driver"`
	Broker struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"broker"`
	RateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "cab:prefs")
	v.SetDefault("redis.timeout", 5)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.timeout.read", 5)
	v.SetDefault("server.timeout.write", 10)
	v.SetDefault("server.timeout.idle", 120)
	v.SetDefault("server.timeout.read_header", 2)
	v.SetDefault("preferences.default_theme", "light")
	v.SetDefault("preferences.load_timeout", "2s")
	v.SetDefault("preferences.save_timeout", "2s")
	v.SetDefault("otp.static_code", "1234")
	v.SetDefault("otp.cooldown", 30)
	v.SetDefault("otp.tick_interval", "1s")
	v.SetDefault("otp.session_ttl", "10m")
	v.SetDefault("otp.cleanup_interval", "1m")
	v.SetDefault("driver.request_delay", "5s")
	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.host", "localhost")
	v.SetDefault("broker.port", 5672)
	v.SetDefault("broker.user", "guest")
	v.SetDefault("broker.password", "guest")
	v.SetDefault("broker.exchange", "driver_topic")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
}

// LoadConfig reads config.yaml from the given directories (and ".") and
// overlays environment variables. A missing file leaves the defaults in place.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	// Bind environment variables to specific keys in the config
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.key_prefix", "REDIS_KEY_PREFIX")
	v.BindEnv("redis.hash_keys", "REDIS_HASH_KEYS")
	v.BindEnv("redis.timeout", "REDIS_TIMEOUT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.timeout.read", "SERVER_TIMEOUT_READ")
	v.BindEnv("server.timeout.write", "SERVER_TIMEOUT_WRITE")
	v.BindEnv("server.timeout.idle", "SERVER_TIMEOUT_IDLE")
	v.BindEnv("server.timeout.read_header", "SERVER_TIMEOUT_READ_HEADER")
	v.BindEnv("server.tls.enabled", "TLS_ENABLED")
	v.BindEnv("server.tls.cert_file", "TLS_CERT_FILE")
	v.BindEnv("server.tls.key_file", "TLS_KEY_FILE")
	v.BindEnv("preferences.default_theme", "DEFAULT_THEME")
	v.BindEnv("preferences.load_timeout", "PREFERENCES_LOAD_TIMEOUT")
	v.BindEnv("preferences.save_timeout", "PREFERENCES_SAVE_TIMEOUT")
	v.BindEnv("otp.static_code", "OTP_STATIC_CODE")
	v.BindEnv("otp.cooldown", "OTP_COOLDOWN")
	v.BindEnv("otp.tick_interval", "OTP_TICK_INTERVAL")
	v.BindEnv("otp.session_ttl", "OTP_SESSION_TTL")
	v.BindEnv("otp.cleanup_interval", "OTP_CLEANUP_INTERVAL")
	v.BindEnv("driver.request_delay", "DRIVER_REQUEST_DELAY")
	v.BindEnv("broker.enabled", "BROKER_ENABLED")
	v.BindEnv("broker.host", "BROKER_HOST")
	v.BindEnv("broker.port", "BROKER_PORT")
	v.BindEnv("broker.user", "BROKER_USER")
	v.BindEnv("broker.password", "BROKER_PASSWORD")
	v.BindEnv("broker.exchange", "BROKER_EXCHANGE")
	v.BindEnv("rate_limit.requests_per_second", "RATE_LIMIT_RPS")
	v.BindEnv("rate_limit.burst", "RATE_LIMIT_BURST")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// SetupLogger configures the logger based on server mode
func SetupLogger(mode string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if mode != "release" {
		logger.SetLevel(logrus.TraceLevel)
	}

	return logger
}
