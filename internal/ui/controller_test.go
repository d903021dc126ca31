package ui

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu           sync.Mutex
	generate     func(string) (string, error)
	download     func(string) ([]byte, error)
	prompts      []string
	downloadURLs []string
	// state observed while the call was in flight
	during []State
	ctrl   *Controller
}

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.ctrl != nil {
		f.during = append(f.during, f.ctrl.State())
	}
	if f.generate != nil {
		return f.generate(prompt)
	}
	return "https://example.com/img.png", nil
}

func (f *fakeBackend) Download(_ context.Context, imageURL string) ([]byte, error) {
	f.mu.Lock()
	f.downloadURLs = append(f.downloadURLs, imageURL)
	f.mu.Unlock()
	if f.ctrl != nil {
		f.during = append(f.during, f.ctrl.State())
	}
	if f.download != nil {
		return f.download(imageURL)
	}
	return []byte("\x89PNG"), nil
}

type saveCall struct {
	name string
	data []byte
}

type fakeSaver struct {
	err   error
	saves []saveCall
}

func (f *fakeSaver) Save(name string, data []byte) error {
	f.saves = append(f.saves, saveCall{name: name, data: data})
	return f.err
}

func newTestController(b *fakeBackend, s *fakeSaver) *Controller {
	c := NewController(b, s, "london-bridge")
	b.ctrl = c
	return c
}

func TestController_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("one_call_per_prompt", func(t *testing.T) {
		b := &fakeBackend{}
		c := newTestController(b, &fakeSaver{})

		c.SetPrompt("with a rainbow")
		assert.True(t, c.Generate(ctx))

		assert.Equal(t, []string{"with a rainbow"}, b.prompts)
		st := c.State()
		assert.Equal(t, "https://example.com/img.png", st.GeneratedImage)
		assert.False(t, st.IsGenerating)
		assert.Empty(t, st.Error)

		require.Len(t, b.during, 1)
		assert.True(t, b.during[0].IsGenerating)
	})

	t.Run("blank_prompt_makes_no_call", func(t *testing.T) {
		b := &fakeBackend{}
		c := newTestController(b, &fakeSaver{})

		c.SetPrompt("   ")
		before := c.State()
		assert.False(t, c.Generate(ctx))
		assert.Empty(t, b.prompts)
		assert.Equal(t, before, c.State())
	})

	t.Run("quick_prompt", func(t *testing.T) {
		b := &fakeBackend{}
		c := newTestController(b, &fakeSaver{})
		q, ok := FindQuickPrompt("sunset")
		require.True(t, ok)

		assert.True(t, c.QuickPrompt(ctx, q.Text))

		require.Len(t, b.prompts, 1)
		assert.Contains(t, b.prompts[0], "at sunset with pink clouds")
		st := c.State()
		assert.Equal(t, "at sunset with pink clouds", st.Prompt)
		assert.Equal(t, "https://example.com/img.png", st.GeneratedImage)
	})

	t.Run("server_error_is_not_shown", func(t *testing.T) {
		b := &fakeBackend{generate: func(string) (string, error) {
			return "", errors.New("quota exceeded")
		}}
		c := newTestController(b, &fakeSaver{})
		c.state.GeneratedImage = "https://example.com/old.png"

		c.SetPrompt("at night")
		c.Generate(ctx)

		st := c.State()
		assert.Equal(t, GenerateErrorMessage, st.Error)
		assert.NotContains(t, st.Error, "quota exceeded")
		assert.Equal(t, "https://example.com/old.png", st.GeneratedImage)
		assert.False(t, st.IsGenerating)
	})

	t.Run("missing_url", func(t *testing.T) {
		b := &fakeBackend{generate: func(string) (string, error) { return "", nil }}
		c := newTestController(b, &fakeSaver{})

		c.SetPrompt("at night")
		c.Generate(ctx)

		st := c.State()
		assert.Equal(t, GenerateErrorMessage, st.Error)
		assert.Empty(t, st.GeneratedImage)
		assert.False(t, st.IsGenerating)
	})

	t.Run("flag_released_on_panic", func(t *testing.T) {
		b := &fakeBackend{generate: func(string) (string, error) { panic("transport exploded") }}
		c := newTestController(b, &fakeSaver{})

		c.SetPrompt("at night")
		assert.Panics(t, func() { c.Generate(ctx) })
		assert.False(t, c.State().IsGenerating)
	})

	t.Run("error_cleared_on_next_attempt", func(t *testing.T) {
		fail := true
		b := &fakeBackend{generate: func(string) (string, error) {
			if fail {
				return "", errors.New("boom")
			}
			return "https://example.com/img.png", nil
		}}
		c := newTestController(b, &fakeSaver{})

		c.SetPrompt("at night")
		c.Generate(ctx)
		require.Equal(t, GenerateErrorMessage, c.State().Error)

		fail = false
		c.Generate(ctx)
		assert.Empty(t, c.State().Error)
		assert.Equal(t, "https://example.com/img.png", c.State().GeneratedImage)
	})
}

var savedName = regexp.MustCompile(`^london-bridge-\d+\.png$`)

func TestController_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("saves_payload", func(t *testing.T) {
		b := &fakeBackend{}
		s := &fakeSaver{}
		c := newTestController(b, s)
		c.state.GeneratedImage = "https://example.com/img.png"

		assert.True(t, c.Download(ctx))

		assert.Equal(t, []string{"https://example.com/img.png"}, b.downloadURLs)
		require.Len(t, s.saves, 1)
		assert.Regexp(t, savedName, s.saves[0].name)
		assert.Equal(t, []byte("\x89PNG"), s.saves[0].data)

		st := c.State()
		assert.False(t, st.IsDownloading)
		assert.Empty(t, st.Error)
		require.Len(t, b.during, 1)
		assert.True(t, b.during[0].IsDownloading)
	})

	t.Run("no_image_no_call", func(t *testing.T) {
		b := &fakeBackend{}
		c := newTestController(b, &fakeSaver{})
		assert.False(t, c.Download(ctx))
		assert.Empty(t, b.downloadURLs)
	})

	t.Run("endpoint_failure_skips_save", func(t *testing.T) {
		b := &fakeBackend{download: func(string) ([]byte, error) {
			return nil, errors.New("upstream 404")
		}}
		s := &fakeSaver{}
		c := newTestController(b, s)
		c.state.GeneratedImage = "https://example.com/img.png"

		c.Download(ctx)

		assert.Empty(t, s.saves)
		st := c.State()
		assert.Equal(t, DownloadErrorMessage, st.Error)
		assert.False(t, st.IsDownloading)
		assert.Equal(t, "https://example.com/img.png", st.GeneratedImage)
	})

	t.Run("save_failure", func(t *testing.T) {
		s := &fakeSaver{err: errors.New("disk full")}
		c := newTestController(&fakeBackend{}, s)
		c.state.GeneratedImage = "https://example.com/img.png"

		c.Download(ctx)

		assert.Len(t, s.saves, 1)
		assert.Equal(t, DownloadErrorMessage, c.State().Error)
		assert.False(t, c.State().IsDownloading)
	})
}

func TestController_OnChange(t *testing.T) {
	c := newTestController(&fakeBackend{}, &fakeSaver{})
	var seen []State
	c.OnChange(func(s State) { seen = append(seen, s) })

	c.SetPrompt("at night")
	c.Generate(context.Background())

	require.Len(t, seen, 4)
	assert.True(t, seen[1].IsGenerating)
	assert.Equal(t, "https://example.com/img.png", seen[2].GeneratedImage)
	assert.False(t, seen[3].IsGenerating)
}
