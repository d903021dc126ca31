package services

import (
	"bridgeai/config"
	"bridgeai/internal/clients/transport"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrInvalidImageURL   = errors.New("invalid image url")
	ErrHostNotAllowed    = errors.New("host not allowed")
	ErrPayloadTooLarge   = errors.New("image exceeds size limit")
	ErrEmptyImagePayload = errors.New("empty image payload")
)

// ImageFetcher pulls remote images on behalf of the download endpoint.
type ImageFetcher struct {
	client       *http.Client
	allowedHosts []string
	maxBytes     int64
}

func NewImageFetcher(cfg config.DownloadConfig) *ImageFetcher {
	f := &ImageFetcher{
		allowedHosts: cfg.AllowedHosts,
		maxBytes:     cfg.MaxBytes,
	}
	f.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			// redirects must stay inside the allow-list too
			return f.Check(req.URL.String())
		},
	}
	return f
}

func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.Check(rawURL); err != nil {
		return nil, err
	}

	resp, err := transport.Download(f.client, ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyImagePayload
	}
	return data, nil
}

// Check validates scheme and host against the allow-list.
func (f *ImageFetcher) Check(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidImageURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidImageURL)
	}
	if len(f.allowedHosts) == 0 {
		return nil
	}

	ok := lo.ContainsBy(f.allowedHosts, func(allowed string) bool {
		return host == allowed || strings.HasSuffix(host, "."+allowed)
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}
	return nil
}
