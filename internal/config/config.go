package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	Env          string
	DBDSN        string
	MediaDir     string
	MediaBaseURL string
	TemplatesDir string
	LogFile      string

	JWTSecret string
	JWTTTL    time.Duration

	ShippingFee float64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr       string
	RedisPassword   string
	ProductCacheTTL time.Duration

	OTelEndpoint string
	SentryDSN    string
}

// Production reports whether internal error details must be hidden from clients.
func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DSN", "campgo.db") // sqlite file in project root
	v.SetDefault("MEDIA_DIR", "./web/media")
	v.SetDefault("MEDIA_BASE_URL", "/media")
	v.SetDefault("TEMPLATES_DIR", "./web/templates")
	v.SetDefault("LOG_FILE", "./campgo.log")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("SHIPPING_FEE", 10)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "CampGo <no-reply@campgo.local>")
	v.SetDefault("KAFKA_TOPIC", "order_events")
	v.SetDefault("PRODUCT_CACHE_TTL", "5m")
}

// Load reads configuration from the environment.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return Config{
		Port:            v.GetString("PORT"),
		Env:             v.GetString("APP_ENV"),
		DBDSN:           v.GetString("DB_DSN"),
		MediaDir:        v.GetString("MEDIA_DIR"),
		MediaBaseURL:    strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
		TemplatesDir:    v.GetString("TEMPLATES_DIR"),
		LogFile:         v.GetString("LOG_FILE"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		ShippingFee:     v.GetFloat64("SHIPPING_FEE"),
		SMTPHost:        v.GetString("SMTP_HOST"),
		SMTPPort:        v.GetInt("SMTP_PORT"),
		SMTPUser:        v.GetString("SMTP_USER"),
		SMTPPass:        v.GetString("SMTP_PASS"),
		SMTPFrom:        v.GetString("SMTP_FROM"),
		KafkaBrokers:    brokers,
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		ProductCacheTTL: v.GetDuration("PRODUCT_CACHE_TTL"),
		OTelEndpoint:    v.GetString("OTEL_ENDPOINT"),
		SentryDSN:       v.GetString("SENTRY_DSN"),
	}
}
