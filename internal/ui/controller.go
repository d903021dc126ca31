package ui

import (
	"bridgeai/types"
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Backend is the pair of server endpoints the controller talks to.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Download(ctx context.Context, imageURL string) ([]byte, error)
}

// Saver persists a downloaded image under the given file name.
type Saver interface {
	Save(name string, data []byte) error
}

// Controller applies Reduce to a shared State and runs the effects it emits.
// Generate and Download may be driven from different goroutines.
type Controller struct {
	mu    sync.Mutex
	state State

	backend  Backend
	saver    Saver
	prefix   string
	onChange func(State)

	logger *log.Logger
	now    func() time.Time
}

func NewController(backend Backend, saver Saver, filenamePrefix string) *Controller {
	return &Controller{
		backend: backend,
		saver:   saver,
		prefix:  filenamePrefix,
		logger:  log.With("component", "ui"),
		now:     time.Now,
	}
}

// OnChange registers fn to be called with every new state.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) dispatch(ev Event) Effect {
	c.mu.Lock()
	next, eff := Reduce(c.state, ev)
	c.state = next
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	return eff
}

func (c *Controller) SetPrompt(text string) {
	c.dispatch(PromptChanged{Text: text})
}

// Generate submits the current prompt. It reports whether a call was issued.
func (c *Controller) Generate(ctx context.Context) bool {
	return c.runGenerate(ctx, c.dispatch(GenerateRequested{}))
}

// QuickPrompt replaces the prompt with text and submits it.
func (c *Controller) QuickPrompt(ctx context.Context, text string) bool {
	return c.runGenerate(ctx, c.dispatch(QuickPromptSelected{Text: text}))
}

// Download fetches the current image and hands it to the Saver.
func (c *Controller) Download(ctx context.Context) bool {
	eff, ok := c.dispatch(DownloadRequested{}).(CallDownload)
	if !ok {
		return false
	}
	defer c.dispatch(DownloadFinished{})

	data, err := c.backend.Download(ctx, eff.ImageURL)
	if err != nil {
		c.logger.Error("error downloading image", "url", eff.ImageURL, "err", err)
		c.dispatch(DownloadFailed{Err: err})
		return true
	}

	filename := types.DownloadFilename(c.prefix, c.now())
	save, ok := c.dispatch(DownloadSucceeded{Data: data, Filename: filename}).(SaveFile)
	if !ok {
		return true
	}
	if err := c.saver.Save(save.Name, save.Data); err != nil {
		c.logger.Error("error saving image", "file", save.Name, "err", err)
		c.dispatch(SaveFailed{Err: err})
		return true
	}
	c.logger.Debug("image saved", "file", save.Name, "bytes", len(save.Data))
	return true
}

func (c *Controller) runGenerate(ctx context.Context, eff Effect) bool {
	call, ok := eff.(CallGenerate)
	if !ok {
		return false
	}
	defer c.dispatch(GenerateFinished{})

	imageURL, err := c.backend.Generate(ctx, call.Prompt)
	if err != nil {
		c.logger.Error("error generating image", "err", err)
		c.dispatch(GenerateFailed{Err: err})
		return true
	}
	c.dispatch(GenerateSucceeded{ImageURL: imageURL})
	return true
}
