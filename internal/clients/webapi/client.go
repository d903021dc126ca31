package webapi

import (
	"bridgeai/internal/clients/transport"
	"bridgeai/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrNoImageURL = errors.New("response carried no image url")

// RemoteError is a failure reported by the bridgeai server itself.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the bridgeai HTTP api.
type Client struct {
	baseURL  string
	http     *http.Client
	clientID string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
}

// WithClientID sets the id sent as X-Client-Id so the server can push
// websocket events to the matching subscriber.
func (c *Client) WithClientID(id string) *Client {
	c.clientID = id
	return c
}

func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) headers() map[string]string {
	if c.clientID == "" {
		return nil
	}
	return map[string]string{"X-Client-Id": c.clientID}
}

// Generate sends the raw prompt text; the server composes the final prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := transport.Post[types.GenerateImageRequest, types.GenerateImageResponse](
		c.http, ctx, c.baseURL+"/api/generate", types.GenerateImageRequest{Prompt: prompt}, c.headers())
	if err != nil {
		return "", remoteError(err)
	}
	if !resp.Success {
		return "", &RemoteError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	if resp.ImageURL == "" {
		return "", ErrNoImageURL
	}
	return resp.ImageURL, nil
}

func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	resp, err := transport.PostDownload(c.http, ctx, c.baseURL+"/api/download", types.DownloadImageRequest{ImageURL: imageURL}, c.headers())
	if err != nil {
		return nil, remoteError(err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *Client) Health(ctx context.Context) (types.HealthResponse, error) {
	return transport.Get[types.HealthResponse](c.http, ctx, c.baseURL+"/health", nil)
}

// remoteError lifts the server's JSON error envelope out of a StatusError.
func remoteError(err error) error {
	var se *transport.StatusError
	if !errors.As(err, &se) {
		return err
	}
	var body types.ErrorResponse
	if json.Unmarshal([]byte(se.Body), &body) != nil || body.Error == "" {
		return err
	}
	return &RemoteError{StatusCode: se.StatusCode, Message: body.Error}
}
