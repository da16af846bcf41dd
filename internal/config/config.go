package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string   `yaml:"listen-addr"` // Address the HTTP server binds to.
	StaticDir  string   `yaml:"static-dir"`  // Directory holding the built SPA.
	UploadDir  string   `yaml:"upload-dir"`  // Root directory for uploaded media.
	Origins    []string `yaml:"origins"`     // Allowed CORS origins.
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"` // HMAC signing secret, required.
	Expiry time.Duration `yaml:"expiry"` // Token validity window.
}

// RecaptchaConfig holds bot-mitigation settings.
type RecaptchaConfig struct {
	Secret    string  `yaml:"secret"`    // reCAPTCHA server-side secret.
	Threshold float64 `yaml:"threshold"` // Minimum acceptable score.
}

// SMTPConfig holds outbound email settings for the contact form.
type SMTPConfig struct {
	Host      string `yaml:"host"`      // SMTP server hostname.
	Port      int    `yaml:"port"`      // SMTP server port.
	Sender    string `yaml:"sender"`    // Authenticated sender address.
	Password  string `yaml:"password"`  // Sender password or app password.
	Recipient string `yaml:"recipient"` // Address contact submissions are relayed to.
}

// Config is the full application configuration.
type Config struct {
	Server      ServerConfig    `yaml:"server"`
	DatabaseDSN string          `yaml:"database-dsn"`
	JWT         JWTConfig       `yaml:"jwt"`
	Recaptcha   RecaptchaConfig `yaml:"recaptcha"`
	SMTP        SMTPConfig      `yaml:"smtp"`
	LogFile     string          `yaml:"log-file"`
}

// defaults returns the baseline configuration before file and env overrides.
func defaults() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":5000",
			StaticDir:  "frontend/dist",
			UploadDir:  "uploads",
			Origins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		DatabaseDSN: "data/app.db",
		JWT: JWTConfig{
			Expiry: 24 * time.Hour,
		},
		Recaptcha: RecaptchaConfig{
			Threshold: 0.5,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. Environment variables win over file values.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		switch {
		case errRead == nil:
			if errDecode := yaml.Unmarshal(data, &cfg); errDecode != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, errDecode)
			}
		case !os.IsNotExist(errRead):
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, fmt.Errorf("config: jwt secret is required (set JWT_SECRET)")
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = 24 * time.Hour
	}

	return cfg, nil
}

// applyEnv overrides configuration values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.ListenAddr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Server.UploadDir = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.Origins = splitList(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		if d, errParse := time.ParseDuration(v); errParse == nil && d > 0 {
			cfg.JWT.Expiry = d
		}
	}
	if v := os.Getenv("RECAPTCHA_SECRET_KEY"); v != "" {
		cfg.Recaptcha.Secret = v
	}
	if v := os.Getenv("RECAPTCHA_THRESHOLD"); v != "" {
		if f, errParse := strconv.ParseFloat(v, 64); errParse == nil {
			cfg.Recaptcha.Threshold = f
		}
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, errParse := strconv.Atoi(v); errParse == nil {
			cfg.SMTP.Port = p
		}
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.SMTP.Recipient = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
