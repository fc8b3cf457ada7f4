// Package config предоставляет структуры и функцию для парсинга
// и загрузки конфига сервиса.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path"`
	RabbitMQConnection      string `yaml:"rabbitmq_connection"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayPal                  `yaml:"paypal"`
	SMTP                    `yaml:"smtp"`
	Trial                   `yaml:"trial"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP   string        `yaml:"addresshttp"`
	TimeoutHTTP   time.Duration `yaml:"timeouthttp"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	PublicBaseURL string        `yaml:"public_base_url" env-default:"http://localhost:8080"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// PayPal структура для настройки клиента платёжного провайдера.
type PayPal struct {
	ClientID       string        `yaml:"client_id"`
	Secret         string        `yaml:"secret"`
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SMTP структура для настройки почтового транспорта воркера уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// Trial структура с политикой пробного периода.
type Trial struct {
	TrialDays int `yaml:"trial_days" env-default:"14"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH.
// Завершает процесс, если конфиг недоступен или некорректен.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.Trial.TrialDays < 0 {
		log.Fatalf("trial_days must be non-negative, got %d", cfg.Trial.TrialDays)
	}
	return &cfg
}
