// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "SpellingBee"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultDatabaseDriver = "postgres"
	DefaultSQLiteURL      = "file:spellbee.db?_foreign_keys=on"
	DefaultWordListPath   = "spelling_words.csv"
	DefaultAuthEnabled    = true
	DefaultJWTSecret      = "dev-secret-change-me"
	DefaultAccessTokenTTL = 24 * time.Hour
)

// 音声合成
const (
	DefaultTTSProvider    = "http"
	DefaultTTSLanguage    = "en"
	DefaultTTSTimeout     = 10 * time.Second
	DefaultTTSHTTPBaseURL = "https://translate.google.com/translate_tts"
	DefaultPollyVoiceID   = "Joanna"
	DefaultPollyEngine    = "standard"
)
