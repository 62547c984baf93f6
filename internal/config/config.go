// internal/config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
	URL    string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Name         string `mapstructure:"name"`
	WordListPath string `mapstructure:"word_list_path"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// PollyConfig は AWS Polly 用の設定です (SES メーラーと同じ認証方式の切り替え)
type PollyConfig struct {
	Region          string `mapstructure:"region"`
	VoiceID         string `mapstructure:"voice_id"`
	Engine          string `mapstructure:"engine"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type HTTPTTSConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type TTSConfig struct {
	Provider string        `mapstructure:"provider"` // "polly", "http", "log"
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
	HTTP     HTTPTTSConfig `mapstructure:"http"`
	Polly    PollyConfig   `mapstructure:"polly"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	TTS      TTSConfig      `mapstructure:"tts"`
}

var Cfg Config

func LoadConfig(path string) error {
	// .env があれば先に環境変数へ流し込む (無くても問題ない)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL -> database.url
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// 未設定なら認証は有効
	if !v.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		cfg.Auth.Enabled = DefaultAuthEnabled
	}

	ApplyDefaults(&cfg)
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Database Driver: %s", Cfg.Database.Driver)
	log.Printf("Word List: %s", Cfg.App.WordListPath)
	log.Printf("TTS Provider: %s", Cfg.TTS.Provider)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}

// ApplyDefaults は未設定の項目にデフォルト値を入れます
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		log.Printf("Server port not set, using default '%s'", DefaultServerPort)
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
		if cfg.Database.Driver == "sqlite" {
			cfg.Database.URL = DefaultSQLiteURL
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.App.Name == "" {
		cfg.App.Name = AppName
	}
	if cfg.App.WordListPath == "" {
		cfg.App.WordListPath = DefaultWordListPath
	}
	if cfg.JWT.SecretKey == "" {
		log.Println("Warning: JWT secret key is not set, using an insecure development key.")
		cfg.JWT.SecretKey = DefaultJWTSecret
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.TTS.Provider == "" {
		cfg.TTS.Provider = DefaultTTSProvider
	}
	if cfg.TTS.Language == "" {
		cfg.TTS.Language = DefaultTTSLanguage
	}
	if cfg.TTS.Timeout <= 0 {
		cfg.TTS.Timeout = DefaultTTSTimeout
	}
	if cfg.TTS.HTTP.BaseURL == "" {
		cfg.TTS.HTTP.BaseURL = DefaultTTSHTTPBaseURL
	}
	if cfg.TTS.Polly.VoiceID == "" {
		cfg.TTS.Polly.VoiceID = DefaultPollyVoiceID
	}
	if cfg.TTS.Polly.Engine == "" {
		cfg.TTS.Polly.Engine = DefaultPollyEngine
	}
}
