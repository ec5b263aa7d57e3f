package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Env     string `yaml:"env"`
		BaseURL string `yaml:"base_url"` // публичный адрес API, попадает в ссылки в письмах
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret          string `yaml:"secret"`
		AccessTTLMin    int    `yaml:"access_ttl_min"`    // срок жизни access token, минуты
		RefreshTTLDays  int    `yaml:"refresh_ttl_days"`  // срок жизни refresh token, дни
		RotateOnRefresh bool   `yaml:"rotate_on_refresh"` // одноразовые refresh токены
	} `yaml:"jwt"`

	Auth struct {
		MaxFailedLogins int `yaml:"max_failed_logins"` // порог блокировки
		LockoutMinutes  int `yaml:"lockout_minutes"`   // длительность блокировки
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"` // чат операторов, куда падают уведомления о заявках
	} `yaml:"telegram"`

	QPay struct {
		MerchantCode string `yaml:"merchant_code"`
		CallbackKey  string `yaml:"callback_key"` // общий секрет для HMAC подписи callback
		InvoiceTTL   int    `yaml:"invoice_ttl"`  // часы до истечения неоплаченного счета
	} `yaml:"qpay"`

	Storage struct {
		Type      string `yaml:"type"`      // local, cloudflare_r2
		BasePath  string `yaml:"base_path"` // для local
		BaseURL   string `yaml:"base_url"`  // публичный префикс URL
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // максимальный размер файла, байты
		AllowedTypes []string `yaml:"allowed_types"` // разрешенные MIME типы
	} `yaml:"upload"`

	Admin struct {
		Email    string `yaml:"email"`    // первый админ, создается при старте
		Password string `yaml:"password"` // если пусто - сидирование пропускается
	} `yaml:"admin"`

	Features struct {
		TwoFactor bool `yaml:"two_factor"` // зарезервировано, 2FA пока не включаем
		AgentMode bool `yaml:"agent_mode"` // роль agent видит заявки
	} `yaml:"features"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию: если задан DATABASE_URL - из переменных
// окружения (тесты/docker), иначе из yaml-файла по CONFIG_PATH.
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Режим переменных окружения
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.BaseURL = os.Getenv("APP_BASE_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.QPay.MerchantCode = os.Getenv("QPAY_MERCHANT_CODE")
	cfg.QPay.CallbackKey = os.Getenv("QPAY_CALLBACK_KEY")
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.Admin.Email = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("FIRST_ADMIN_PASSWORD")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.JWT.AccessTTLMin == 0 {
		cfg.JWT.AccessTTLMin = 15
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 30
	}
	if cfg.Auth.MaxFailedLogins == 0 {
		cfg.Auth.MaxFailedLogins = 5
	}
	if cfg.Auth.LockoutMinutes == 0 {
		cfg.Auth.LockoutMinutes = 15
	}
	if cfg.QPay.InvoiceTTL == 0 {
		cfg.QPay.InvoiceTTL = 72
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/webp", "application/pdf",
		}
	}
}

// GetConfig возвращает конфигурацию, загружая ее при первом обращении
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
