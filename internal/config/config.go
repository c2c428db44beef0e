// internal/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	// 生徒のタイムゾーンが未設定・不正なときに使うIANAタイムゾーン名
	DefaultTimezone string `mapstructure:"default_timezone"`
	// ストリーク計算で遡る日数の上限
	StreakLookbackDays int `mapstructure:"streak_lookback_days"`
	// 課題プラン生成で許可する最大日数（開始日〜終了日）
	PlanMaxDays int `mapstructure:"plan_max_days"`
}

type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	ExpiryMinutes int    `mapstructure:"expiry_minutes"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数でも上書きできるようにする (例: APP_DATABASE_URL)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.enabled", "TELEGRAM_ENABLED")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.App.DefaultTimezone == "" {
		log.Printf("Default timezone not set, using default '%s'", DefaultTimezone)
		Cfg.App.DefaultTimezone = DefaultTimezone
	}
	if Cfg.App.StreakLookbackDays <= 0 {
		Cfg.App.StreakLookbackDays = DefaultStreakLookbackDays
	}
	if Cfg.App.PlanMaxDays <= 0 {
		Cfg.App.PlanMaxDays = DefaultPlanMaxDays
	}
	if Cfg.JWT.ExpiryMinutes <= 0 {
		Cfg.JWT.ExpiryMinutes = DefaultJWTExpiryMinutes
	}
	if Cfg.JWT.SecretKey == "" {
		// 本番では必ず環境変数で設定すること
		log.Println("Warning: JWT secret key is not set in config.")
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Default Timezone: %s", Cfg.App.DefaultTimezone)
	log.Printf("Streak Lookback Days: %d", Cfg.App.StreakLookbackDays)
	log.Printf("Telegram Notifications Enabled: %t", Cfg.Telegram.Enabled)

	return nil
}
