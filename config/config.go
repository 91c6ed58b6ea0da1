package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppPort string
	GinMode string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBPath     string
	DBLogMode  bool

	RedisAddr string
	RedisPass string
	RedisDB   int

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	UploadDir string

	CookieSecure bool
	UserCookie   string
	ClubCookie   string
	SessionHours int
	BcryptCost   int

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"app_port":         "3000",
	"gin_mode":         "release",
	"db_driver":        "postgres",
	"db_host":          "localhost",
	"db_user":          "postgres",
	"db_password":      "",
	"db_name":          "clubhub",
	"db_port":          "5432",
	"db_sslmode":       "disable",
	"db_path":          "data/clubhub.db",
	"db_log_mode":      false,
	"redis_addr":       "",
	"redis_pass":       "",
	"redis_db":         0,
	"sendgrid_api_key": "",
	"mail_from":        "noreply@clubhub.local",
	"mail_from_name":   "clubhub",
	"upload_dir":       "uploads",
	"cookie_secure":    false,
	"user_cookie":      "USER_SESSION",
	"club_cookie":      "CLUB_SESSION",
	"session_hours":    24,
	"bcrypt_cost":      10,
	"log_level":        "info",
	"log_format":       "json",
}

// LoadEnv reads .env (outside production), then config.yaml from the working
// directory if present. Environment variables win over both.
func LoadEnv() (*Env, error) {
	return Load("")
}

// Load is LoadEnv with an explicit config file path.
func Load(configFile string) (*Env, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("no config file found, using environment")
	}

	env := &Env{
		AppPort:        v.GetString("app_port"),
		GinMode:        v.GetString("gin_mode"),
		DBDriver:       v.GetString("db_driver"),
		DBHost:         v.GetString("db_host"),
		DBUser:         v.GetString("db_user"),
		DBPassword:     v.GetString("db_password"),
		DBName:         v.GetString("db_name"),
		DBPort:         v.GetString("db_port"),
		DBSSLMode:      v.GetString("db_sslmode"),
		DBPath:         v.GetString("db_path"),
		DBLogMode:      v.GetBool("db_log_mode"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPass:      v.GetString("redis_pass"),
		RedisDB:        v.GetInt("redis_db"),
		SendGridAPIKey: v.GetString("sendgrid_api_key"),
		MailFrom:       v.GetString("mail_from"),
		MailFromName:   v.GetString("mail_from_name"),
		UploadDir:      v.GetString("upload_dir"),
		CookieSecure:   v.GetBool("cookie_secure"),
		UserCookie:     v.GetString("user_cookie"),
		ClubCookie:     v.GetString("club_cookie"),
		SessionHours:   v.GetInt("session_hours"),
		BcryptCost:     v.GetInt("bcrypt_cost"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func (e *Env) validate() error {
	switch e.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported db_driver %q", e.DBDriver)
	}
	if e.SessionHours <= 0 {
		return fmt.Errorf("config: session_hours must be positive, got %d", e.SessionHours)
	}
	if e.UserCookie == e.ClubCookie {
		return fmt.Errorf("config: user_cookie and club_cookie must differ")
	}
	return nil
}
