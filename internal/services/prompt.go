package services

import (
	"fmt"
	"strings"
)

// ComposePrompt wraps a modification description in the fixed scene template.
// The server is the only layer that composes; clients send the raw text.
func ComposePrompt(landmark, description string) string {
	return fmt.Sprintf(
		"Create a photorealistic image of the %s with the following modifications: %s. "+
			"The image should be highly detailed and maintain architectural accuracy while incorporating the requested modifications.",
		landmark, strings.TrimSpace(description),
	)
}
