package ui

import (
	"strings"

	"github.com/samber/lo"
)

// User-facing messages. Underlying errors are only logged.
const (
	GenerateErrorMessage = "Failed to generate image. Please try again."
	DownloadErrorMessage = "Failed to download image. Please try again."
)

// State is everything the front-end renders.
type State struct {
	Prompt         string `json:"prompt"`
	IsGenerating   bool   `json:"isGenerating"`
	GeneratedImage string `json:"generatedImage"`
	Error          string `json:"error"`
	IsDownloading  bool   `json:"isDownloading"`
}

// CanGenerate reports whether the generate control is enabled.
func (s State) CanGenerate() bool {
	return !s.IsGenerating && strings.TrimSpace(s.Prompt) != ""
}

// CanDownload reports whether the download control is enabled.
func (s State) CanDownload() bool {
	return !s.IsDownloading && s.GeneratedImage != ""
}

type Event interface{ event() }

type (
	PromptChanged       struct{ Text string }
	GenerateRequested   struct{}
	QuickPromptSelected struct{ Text string }
	GenerateSucceeded   struct{ ImageURL string }
	GenerateFailed      struct{ Err error }
	GenerateFinished    struct{}
	DownloadRequested   struct{}
	DownloadSucceeded   struct {
		Data     []byte
		Filename string
	}
	DownloadFailed   struct{ Err error }
	SaveFailed       struct{ Err error }
	DownloadFinished struct{}
)

func (PromptChanged) event()       {}
func (GenerateRequested) event()   {}
func (QuickPromptSelected) event() {}
func (GenerateSucceeded) event()   {}
func (GenerateFailed) event()      {}
func (GenerateFinished) event()    {}
func (DownloadRequested) event()   {}
func (DownloadSucceeded) event()   {}
func (DownloadFailed) event()      {}
func (SaveFailed) event()          {}
func (DownloadFinished) event()    {}

// Effect is work the caller must perform after a transition. Nil means none.
type Effect interface{ effect() }

type (
	CallGenerate struct{ Prompt string }
	CallDownload struct{ ImageURL string }
	SaveFile     struct {
		Name string
		Data []byte
	}
)

func (CallGenerate) effect() {}
func (CallDownload) effect() {}
func (SaveFile) effect()     {}

// Reduce is the whole controller state machine. It never performs I/O.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case PromptChanged:
		s.Prompt = ev.Text
		return s, nil

	case GenerateRequested:
		return requestGenerate(s, s.Prompt)

	case QuickPromptSelected:
		s.Prompt = ev.Text
		return requestGenerate(s, ev.Text)

	case GenerateSucceeded:
		if ev.ImageURL == "" {
			s.Error = GenerateErrorMessage
			return s, nil
		}
		s.GeneratedImage = ev.ImageURL
		return s, nil

	case GenerateFailed:
		s.Error = GenerateErrorMessage
		return s, nil

	case GenerateFinished:
		s.IsGenerating = false
		return s, nil

	case DownloadRequested:
		if !s.CanDownload() {
			return s, nil
		}
		s.IsDownloading = true
		return s, CallDownload{ImageURL: s.GeneratedImage}

	case DownloadSucceeded:
		return s, SaveFile{Name: ev.Filename, Data: ev.Data}

	case DownloadFailed, SaveFailed:
		s.Error = DownloadErrorMessage
		return s, nil

	case DownloadFinished:
		s.IsDownloading = false
		return s, nil
	}
	return s, nil
}

func requestGenerate(s State, text string) (State, Effect) {
	if s.IsGenerating || strings.TrimSpace(text) == "" {
		return s, nil
	}
	s.IsGenerating = true
	s.Error = ""
	return s, CallGenerate{Prompt: text}
}

type QuickPrompt struct {
	Key   string
	Label string
	Text  string
}

var QuickPrompts = []QuickPrompt{
	{Key: "sunset", Label: "Sunset View", Text: "at sunset with pink clouds"},
	{Key: "night", Label: "Night Scene", Text: "at night with city lights"},
	{Key: "foggy", Label: "Foggy Morning", Text: "on a foggy morning"},
	{Key: "historic", Label: "Historic Style", Text: "in Victorian era style"},
}

func FindQuickPrompt(key string) (QuickPrompt, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	return lo.Find(QuickPrompts, func(q QuickPrompt) bool {
		return q.Key == key
	})
}
