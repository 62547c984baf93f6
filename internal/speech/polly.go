package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"spellbee/internal/config"
	"spellbee/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// PollyAPI は PollySynthesizer が使う Polly クライアントのメソッド
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollySynthesizer は AWS Polly で MP3 を生成する実装です
type PollySynthesizer struct {
	client PollyAPI
	cfg    *config.PollyConfig
}

// NewPollySynthesizer は設定に応じて認証方法を切り替えて Polly クライアントを生成します
func NewPollySynthesizer(cfg *config.Config) *PollySynthesizer {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error

	awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.TTS.Polly.Region))

	switch cfg.TTS.Polly.AuthType {
	case "static_credentials":
		slog.Info("Configuring Polly with static credentials.")
		if cfg.TTS.Polly.AccessKeyID == "" || cfg.TTS.Polly.SecretAccessKey == "" {
			slog.Error("Polly auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			panic("missing static credentials for Polly")
		}
		creds := credentials.NewStaticCredentialsProvider(
			cfg.TTS.Polly.AccessKeyID,
			cfg.TTS.Polly.SecretAccessKey,
			"",
		)
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))

	case "iam_role":
		slog.Info("Configuring Polly with IAM Role credentials.")

	default:
		slog.Warn("Unknown Polly auth_type specified, defaulting to IAM Role.", "type", cfg.TTS.Polly.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsCfgOpts...)
	if err != nil {
		slog.Error("Failed to load AWS config for Polly", "error", err)
		panic(err)
	}

	return NewPollySynthesizerWithClient(polly.NewFromConfig(awsCfg), &cfg.TTS.Polly)
}

func NewPollySynthesizerWithClient(client PollyAPI, cfg *config.PollyConfig) *PollySynthesizer {
	return &PollySynthesizer{client: client, cfg: cfg}
}

func (s *PollySynthesizer) Synthesize(ctx context.Context, word string) (*Audio, error) {
	logger := middleware.GetLogger(ctx)

	voice := s.cfg.VoiceID
	if voice == "" {
		voice = config.DefaultPollyVoiceID
	}
	engine := s.cfg.Engine
	if engine == "" {
		engine = config.DefaultPollyEngine
	}

	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(word),
		OutputFormat: types.OutputFormatMp3,
		VoiceId:      types.VoiceId(voice),
		Engine:       types.Engine(engine),
		TextType:     types.TextTypeText,
	}

	out, err := s.client.SynthesizeSpeech(ctx, input)
	if err != nil {
		logger.Warn("Failed to synthesize speech via Polly", "error", err, "voice", voice)
		return nil, synthesisError("PollySynthesizer.Synthesize", err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(io.LimitReader(out.AudioStream, maxAudioBytes+1))
	if err != nil {
		return nil, synthesisError("PollySynthesizer.Synthesize", err)
	}
	if len(data) > maxAudioBytes {
		logger.Warn("Polly audio too large", "limit", maxAudioBytes, "voice", voice)
		return nil, synthesisError("PollySynthesizer.Synthesize", errAudioTooLarge)
	}
	if len(data) == 0 {
		return nil, synthesisError("PollySynthesizer.Synthesize", fmt.Errorf("empty audio"))
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	logger.Debug("Polly audio synthesized", "bytes", len(data), "voice", voice)
	return &Audio{Data: data, ContentType: contentType}, nil
}
