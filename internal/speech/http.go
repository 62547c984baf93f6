package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"spellbee/internal/config"
	"spellbee/internal/middleware"
)

// 1回の音声として受け付ける上限
const maxAudioBytes = 5 << 20

var errAudioTooLarge = fmt.Errorf("audio exceeds %d bytes", maxAudioBytes)

// HTTPSynthesizer は translate_tts 形式のエンドポイントから MP3 を取得します
type HTTPSynthesizer struct {
	client   *http.Client
	baseURL  string
	language string
}

// NewHTTPSynthesizer は client が nil なら tts.timeout 付きのクライアントを作ります
func NewHTTPSynthesizer(cfg config.TTSConfig, client *http.Client) *HTTPSynthesizer {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTTSTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	baseURL := cfg.HTTP.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultTTSHTTPBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = config.DefaultTTSLanguage
	}
	return &HTTPSynthesizer{client: client, baseURL: baseURL, language: language}
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, word string) (*Audio, error) {
	logger := middleware.GetLogger(ctx)

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, synthesisError("HTTPSynthesizer.Synthesize", err)
	}
	q := u.Query()
	q.Set("ie", "UTF-8")
	q.Set("q", word)
	q.Set("tl", s.language)
	q.Set("client", "tw-ob")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, synthesisError("HTTPSynthesizer.Synthesize", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("TTS request failed", "error", err)
		return nil, synthesisError("HTTPSynthesizer.Synthesize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("TTS endpoint returned non-OK status", "status", resp.StatusCode)
		return nil, synthesisError("HTTPSynthesizer.Synthesize", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, synthesisError("HTTPSynthesizer.Synthesize", err)
	}
	if len(data) > maxAudioBytes {
		logger.Warn("TTS audio too large", "limit", maxAudioBytes)
		return nil, synthesisError("HTTPSynthesizer.Synthesize", errAudioTooLarge)
	}
	if len(data) == 0 {
		return nil, synthesisError("HTTPSynthesizer.Synthesize", fmt.Errorf("empty audio"))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	logger.Debug("TTS audio fetched", "bytes", len(data), "duration", time.Since(start))
	return &Audio{Data: data, ContentType: contentType}, nil
}
