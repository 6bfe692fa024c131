package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — конечная структура конфигурации приложения
type Config struct {
	Server struct {
		Address    string `mapstructure:"address"`     // 0.0.0.0
		HTTPPort   string `mapstructure:"http_port"`   // 8080
		CORSOrigin string `mapstructure:"cors_origin"` // origin фронтенда, * по умолчанию
	} `mapstructure:"server"`

	Auth struct {
		// Секрет для подписи токенов. Выделенный, не производный
		// от других credentials; обязателен
		Secret     string        `mapstructure:"secret"`
		SessionTTL time.Duration `mapstructure:"session_ttl"` // 24h
	} `mapstructure:"auth"`

	Database struct {
		Path string `mapstructure:"path"` // путь к sqlite файлу
	} `mapstructure:"database"`

	Logging struct {
		Level  string `mapstructure:"level"`  // debug|info|warn|error
		Format string `mapstructure:"format"` // text|json
	} `mapstructure:"logs"`

	RateLimit struct {
		// Лимит на login/register с одного IP
		AuthRequests int           `mapstructure:"auth_requests"`
		AuthWindow   time.Duration `mapstructure:"auth_window"`
	} `mapstructure:"rate_limit"`

	Client struct {
		ServerURL string `mapstructure:"server_url"` // адрес CMS API для cmsctl
		DBPath    string `mapstructure:"db_path"`    // локальное хранилище сессии
	} `mapstructure:"client"`
}

// Load читает конфиг из env/файла с дефолтами
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Дефолты (минимальный рабочий набор)
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", "8080")
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)

	v.SetDefault("database.path", "cms.db")

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")

	v.SetDefault("rate_limit.auth_requests", 10)
	v.SetDefault("rate_limit.auth_window", time.Minute)

	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.db_path", defaultClientDBPath())

	// Источник файла
	if cfgFile := os.Getenv("CMS_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cms")
	}

	// Чтение файла опционально: env и дефолтов достаточно
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	return &cfg, nil
}

// ValidateServer проверяет поля, обязательные для серверного процесса.
// Клиенту (cmsctl) секрет подписи не нужен, поэтому проверка отделена
// от Load.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret must be set (CMS_AUTH_SECRET)")
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	return nil
}

func defaultClientDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cmsctl.db"
	}
	return home + "/.cmsctl.db"
}
