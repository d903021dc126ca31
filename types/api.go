package types

import (
	"fmt"
	"time"
)

// GenerateImageRequest carries the free-text modification description.
type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImageResponse is returned for both outcomes; Success agrees with
// which of ImageURL or Error is set.
type GenerateImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type DownloadImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    int   `json:"status"`
	TimeStamp int64 `json:"timestamp"`
}

// DownloadFilename builds "<prefix>-<epoch-ms>.png".
func DownloadFilename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%d.png", prefix, t.UnixMilli())
}
