//go:generate mockery --name Synthesizer --output ./mocks --outpkg mocks --case=underscore
package speech

import (
	"context"
	"fmt"
	"log/slog"

	"spellbee/internal/config"
	"spellbee/internal/middleware"
	"spellbee/internal/model"
)

// Audio は合成した音声データ
type Audio struct {
	Data        []byte
	ContentType string
}

// Synthesizer は単語を読み上げ音声に変換します。
// 失敗はすべて model.ErrSynthesisFailed でラップして返す
type Synthesizer interface {
	Synthesize(ctx context.Context, word string) (*Audio, error)
}

// --- LogSynthesizer ---
// 音声を返さずログだけ出す (開発用)
type LogSynthesizer struct{}

func (s *LogSynthesizer) Synthesize(ctx context.Context, word string) (*Audio, error) {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Synthesizing speech (LogSynthesizer) ---", "length", len(word))
	return &Audio{Data: []byte{}, ContentType: "audio/mpeg"}, nil
}

func synthesisError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, model.ErrSynthesisFailed, err)
}

// --- New ファクトリ関数 ---
func New(cfg *config.Config) Synthesizer {
	logger := slog.Default()
	switch cfg.TTS.Provider {
	case "polly":
		logger.Info("Initializing Polly synthesizer...")
		return NewPollySynthesizer(cfg)
	case "http":
		logger.Info("Initializing HTTP synthesizer...", "base_url", cfg.TTS.HTTP.BaseURL)
		return NewHTTPSynthesizer(cfg.TTS, nil)
	case "log":
		logger.Info("Initializing Log synthesizer...")
		return &LogSynthesizer{}
	default:
		logger.Warn("Unknown tts provider, defaulting to LogSynthesizer", "provider", cfg.TTS.Provider)
		return &LogSynthesizer{}
	}
}
