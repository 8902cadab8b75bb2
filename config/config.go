package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Paystack PaystackConfig `yaml:"paystack"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
	Contact  ContactConfig  `yaml:"contact"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address            string `yaml:"address"`
	SwaggerDir         string `yaml:"swagger_dir"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int    `yaml:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type PaystackConfig struct {
	SecretKey   string `yaml:"secret_key"`
	BaseURL     string `yaml:"base_url"`
	CallbackURL string `yaml:"callback_url"`
	Currency    string `yaml:"currency"`
}

type CaptchaConfig struct {
	Secret    string `yaml:"secret"`
	VerifyURL string `yaml:"verify_url"`
}

type ContactConfig struct {
	FormID   string `yaml:"form_id"`
	Endpoint string `yaml:"endpoint"`
}

type BookingConfig struct {
	MinLeadDays          int `yaml:"min_lead_days"`
	MaxHorizonMonths     int `yaml:"max_horizon_months"`
	ChildDiscountPercent int `yaml:"child_discount_percent"`
	PackagesCacheTTL     int `yaml:"packages_cache_ttl_seconds"`
	SubmitLockSeconds    int `yaml:"submit_lock_seconds"`
	PendingTTLMinutes    int `yaml:"pending_ttl_minutes"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// Secrets never live in the YAML file in deployments; the environment wins
// whenever a value is set.
func (c *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("PAYSTACK_SECRET_KEY"); v != "" {
		c.Paystack.SecretKey = v
	}
	if v := os.Getenv("RECAPTCHA_SECRET"); v != "" {
		c.Captcha.Secret = v
	}
	if v := os.Getenv("FORMSPREE_FORM_ID"); v != "" {
		c.Contact.FormID = v
	}
}
