package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrUnavailable is returned when no API key is configured
var ErrUnavailable = errors.New("language model is not configured")

// Completion is the text answer of one prompt
type Completion struct {
	Text       string
	TokensUsed int
	Model      string
}

// Options tunes a single completion; zero values keep the client defaults
type Options struct {
	MaxTokens   int32
	Temperature float32
	JSON        bool
}

type Completer interface {
	Complete(ctx context.Context, system, prompt string, opts Options) (*Completion, error)
	Close() error
}

type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
	Timeout     time.Duration
}

type geminiClient struct {
	client *genai.Client
	cfg    Config
	log    *zap.Logger
}

// New returns a Gemini-backed completer, or one that always fails with
// ErrUnavailable when no API key is set.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Completer, error) {
	log = log.With(zap.String("component", "llm"))
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, AI features will use fallbacks")
		return unavailable{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiClient{client: client, cfg: cfg, log: log}, nil
}

func (g *geminiClient) Complete(ctx context.Context, system, prompt string, opts Options) (*Completion, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	// settings live on the model, so each call gets its own
	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetMaxOutputTokens(pick(opts.MaxTokens, g.cfg.MaxTokens))
	model.SetTemperature(pick(opts.Temperature, g.cfg.Temperature))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Error("Gemini request failed", zap.Error(err), zap.String("model", g.cfg.Model))
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini generate: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := &Completion{Text: sb.String(), Model: g.cfg.Model}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

func (g *geminiClient) Close() error {
	return g.client.Close()
}

func pick[T int32 | float32](v, fallback T) T {
	if v != 0 {
		return v
	}
	return fallback
}

type unavailable struct{}

func (unavailable) Complete(context.Context, string, string, Options) (*Completion, error) {
	return nil, ErrUnavailable
}

func (unavailable) Close() error { return nil }

// StripCodeFence removes a surrounding ``` or ```json fence some models wrap JSON in
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
