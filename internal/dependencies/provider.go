package dependencies

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"bridgeai/config"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrMissingCredential = errors.New("OpenAI API key is not configured")
	ErrNoImageGenerated  = errors.New("No image was generated")
)

// ImageProvider turns a composed prompt into a URL of a generated image.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderError carries the provider's own message so it can be relayed as-is.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }
func (e *ProviderError) Unwrap() error { return e.Err }

type OpenAI struct {
	apiKey     func() string
	baseUrl    string
	httpClient *http.Client

	model   string
	size    string
	quality string
	style   string
}

func NewOpenAI(cfg config.GenerateConfig) *OpenAI {
	env := cfg.ApiKeyEnv
	return &OpenAI{
		apiKey:     func() string { return os.Getenv(env) },
		baseUrl:    strings.TrimSpace(cfg.BaseUrl),
		httpClient: &http.Client{},
		model:      cfg.Model,
		size:       cfg.Size,
		quality:    cfg.Quality,
		style:      cfg.Style,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	// read per call so a rotated or late-provisioned key is picked up
	key := strings.TrimSpace(o.apiKey())
	if key == "" {
		return "", ErrMissingCredential
	}

	clientCfg := openai.DefaultConfig(key)
	if o.baseUrl != "" {
		clientCfg.BaseURL = o.baseUrl
	}
	clientCfg.HTTPClient = o.httpClient
	client := openai.NewClientWithConfig(clientCfg)

	logger := log.With("component", "provider", "model", o.model)
	logger.Debug("requesting image", "size", o.size, "quality", o.quality, "style", o.style)

	resp, err := client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		N:              1,
		Size:           o.size,
		Quality:        o.quality,
		Style:          o.style,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", asProviderError(err)
	}

	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return "", ErrNoImageGenerated
	}

	if revised := resp.Data[0].RevisedPrompt; revised != "" {
		logger.Debug("provider revised prompt", "revised", revised)
	}
	return resp.Data[0].URL, nil
}

func asProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &ProviderError{Message: apiErr.Message, Err: err}
	}
	msg := err.Error()
	if msg == "" {
		msg = "Failed to generate image"
	}
	return &ProviderError{Message: msg, Err: err}
}
