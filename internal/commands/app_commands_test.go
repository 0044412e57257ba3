package commands

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/core/workspace"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/modehandler"
)

type registry map[string]modehandler.CommandFunc

func (r registry) RegisterCommand(name string, fn modehandler.CommandFunc) error {
	if _, ok := r[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	r[name] = fn
	return nil
}

func (r registry) Commands() []string {
	var names []string
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fakeAPI runs functions on a real workspace, background ones included.
type fakeAPI struct {
	ws      *workspace.Workspace
	started []string
	message string
	theme   string
	quit    bool
}

func (f *fakeAPI) Execute(fn *history.Function) error {
	_, err := f.ws.History().Execute(fn)
	return err
}

func (f *fakeAPI) Start(fn *history.Function) error {
	f.started = append(f.started, fn.Name())
	return f.Execute(fn)
}

func (f *fakeAPI) steps(n int, step func() error) (int, error) {
	stack := f.ws.History()
	stack.BeginStepGroup()
	defer stack.EndStepGroup()
	done := 0
	for ; done < n; done++ {
		err := step()
		if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
			break
		}
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

func (f *fakeAPI) Undo(n int) (int, error) { return f.steps(n, f.ws.History().StepBackward) }
func (f *fakeAPI) Redo(n int) (int, error) { return f.steps(n, f.ws.History().StepForward) }

func (f *fakeAPI) ActiveLayer() (int, document.Properties, bool) {
	l := f.ws.ActiveLayer()
	if l == nil {
		return -1, document.Properties{}, false
	}
	return f.ws.ActiveLayerIndex(), l.SaveProperties(), true
}

func (f *fakeAPI) Quit() { f.quit = true }

func (f *fakeAPI) SetTheme(name string) error {
	if name != "Easel Light" {
		return errors.New("not found")
	}
	f.theme = name
	return nil
}

func (f *fakeAPI) CurrentTheme() string { return f.theme }
func (f *fakeAPI) ListThemes() []string { return []string{"Easel Dark", "Easel Light"} }
func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) {
	f.message = fmt.Sprintf(format, args...)
}

func setup(t *testing.T) (registry, *fakeAPI) {
	t.Helper()
	doc := document.NewWithBackground(8, 4)
	ws, err := workspace.Open(doc, event.NewManager(), workspace.Options{TempDir: t.TempDir(), SpillThreshold: -1})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ws.Close()) })

	reg := registry{}
	api := &fakeAPI{ws: ws, theme: "Easel Dark"}
	RegisterAppCommands(reg, api)
	return reg, api
}

func run(t *testing.T, reg registry, name string, args ...string) error {
	t.Helper()
	fn, ok := reg[name]
	require.Truef(t, ok, "command %q not registered", name)
	return fn(args)
}

func TestResizeAndRotate(t *testing.T) {
	reg, api := setup(t)

	require.NoError(t, run(t, reg, "resize", "16", "6", "nearest"))
	assert.Equal(t, image.Pt(16, 6), api.ws.Document().Size())

	require.NoError(t, run(t, reg, "rotate", "cw"))
	assert.Equal(t, image.Pt(6, 16), api.ws.Document().Size())
	assert.Len(t, api.started, 2)

	assert.Error(t, run(t, reg, "resize", "16"))
	assert.Error(t, run(t, reg, "resize", "0", "4"))
	assert.Error(t, run(t, reg, "resize", "4", "4", "lanczos"))
	assert.Error(t, run(t, reg, "rotate", "45"))
	assert.Equal(t, 2, api.ws.History().UndoCount())
}

func TestUndoRedoCounts(t *testing.T) {
	reg, api := setup(t)
	require.NoError(t, run(t, reg, "flip", "h"))
	require.NoError(t, run(t, reg, "flip", "v"))
	require.NoError(t, run(t, reg, "new", "3", "3"))
	assert.Equal(t, image.Pt(3, 3), api.ws.Document().Size())

	require.NoError(t, run(t, reg, "undo", "5"))
	assert.Equal(t, "Undid 3 step(s)", api.message)
	assert.Equal(t, image.Pt(8, 4), api.ws.Document().Size())

	assert.EqualError(t, run(t, reg, "undo"), "nothing to undo")
	require.NoError(t, run(t, reg, "redo", "2"))
	assert.Equal(t, "Redid 2 step(s)", api.message)
	assert.Equal(t, 1, api.ws.History().RedoCount())

	assert.Error(t, run(t, reg, "redo", "-1"))
}

func TestLayerPropertyCommands(t *testing.T) {
	reg, api := setup(t)
	layer := func() *document.Layer { return api.ws.ActiveLayer() }

	require.NoError(t, run(t, reg, "rename", "Paper", "Layer"))
	assert.Equal(t, "Paper Layer", layer().Name())

	require.NoError(t, run(t, reg, "opacity", "128"))
	assert.Equal(t, uint8(128), layer().Opacity())
	assert.Error(t, run(t, reg, "opacity", "300"))

	require.NoError(t, run(t, reg, "blend", "multiply"))
	assert.Equal(t, surface.BlendMultiply, layer().BlendMode())
	assert.Error(t, run(t, reg, "blend", "dodge"))

	require.NoError(t, run(t, reg, "hide"))
	assert.False(t, layer().Visible())
	require.NoError(t, run(t, reg, "show"))
	assert.True(t, layer().Visible())

	assert.Equal(t, 5, api.ws.History().UndoCount())
	require.NoError(t, run(t, reg, "undo", "5"))
	assert.Equal(t, "Background", layer().Name())
	assert.Equal(t, uint8(255), layer().Opacity())
}

func TestMetadataCommands(t *testing.T) {
	reg, api := setup(t)
	require.NoError(t, run(t, reg, "meta", "author", "A.", "Painter"))
	v, ok := api.ws.Document().Metadata().Get("author")
	require.True(t, ok)
	assert.Equal(t, "A. Painter", v)

	require.NoError(t, run(t, reg, "unmeta", "author"))
	_, ok = api.ws.Document().Metadata().Get("author")
	assert.False(t, ok)
	assert.Error(t, run(t, reg, "meta", "lonely"))
}

func TestSwapUsesDisplayNumbers(t *testing.T) {
	reg, api := setup(t)
	require.NoError(t, api.ws.Document().Layers().Add(document.NewLayer(8, 4, "Ink")))

	require.NoError(t, run(t, reg, "swap", "1", "2"))
	assert.Equal(t, "Ink", api.ws.Document().Layers().At(0).Name())
	assert.Error(t, run(t, reg, "swap", "one", "2"))
}

func TestThemeAndMiscCommands(t *testing.T) {
	reg, api := setup(t)

	require.NoError(t, run(t, reg, "theme"))
	assert.Equal(t, "Current theme: Easel Dark", api.message)
	require.NoError(t, run(t, reg, "theme", "Easel", "Light"))
	assert.Equal(t, "Theme set to: Easel Light", api.message)
	err := run(t, reg, "theme", "Neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available: Easel Dark, Easel Light")

	require.NoError(t, run(t, reg, "themes"))
	assert.Equal(t, "Available themes: Easel Dark, Easel Light", api.message)

	require.NoError(t, run(t, reg, "help"))
	assert.Contains(t, api.message, "resize")
	assert.Contains(t, api.message, "themes")

	require.NoError(t, run(t, reg, "q"))
	assert.True(t, api.quit)
}

func TestRegisterTwiceKeepsFirst(t *testing.T) {
	reg, api := setup(t)
	before := len(reg)
	RegisterAppCommands(reg, api)
	assert.Len(t, reg, before)
}
