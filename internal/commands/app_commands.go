package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/functions"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/modehandler"
)

// Registrar is where commands are registered, usually the mode handler.
type Registrar interface {
	RegisterCommand(name string, fn modehandler.CommandFunc) error
	Commands() []string
}

// API is what commands may do to the running application.
type API interface {
	ThemeAPI

	// Execute runs fn to completion. Start runs it in the background.
	Execute(fn *history.Function) error
	Start(fn *history.Function) error
	// Undo and Redo step up to n times as one group and return how many
	// steps were taken.
	Undo(n int) (int, error)
	Redo(n int) (int, error)
	// ActiveLayer returns the active index and its properties; ok is false
	// when the document has no layers.
	ActiveLayer() (index int, props document.Properties, ok bool)
	Quit()
}

// ErrNoLayer is returned by layer commands when nothing is active.
var ErrNoLayer = errors.New("no active layer")

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

// RegisterAppCommands registers the built-in commands.
func RegisterAppCommands(reg Registrar, api API) {
	cmds := map[string]modehandler.CommandFunc{
		"resize":  resizeCommand(api),
		"new":     newImageCommand(api),
		"rotate":  rotateCommand(api),
		"flip":    flipCommand(api),
		"meta":    metaCommand(api),
		"unmeta":  unmetaCommand(api),
		"rename":  renameCommand(api),
		"opacity": opacityCommand(api),
		"blend":   blendCommand(api),
		"show":    visibilityCommand(api, true),
		"hide":    visibilityCommand(api, false),
		"swap":    swapCommand(api),
		"undo":    stepCommand(api, api.Undo, "Undid", "nothing to undo"),
		"redo":    stepCommand(api, api.Redo, "Redid", "nothing to redo"),
		"help":    helpCommand(reg, api),
		"q":       quitCommand(api),
		"quit":    quitCommand(api),
	}
	for name, fn := range cmds {
		if err := reg.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
	RegisterThemeCommands(reg, api)
}

func parseSize(args []string, usage string) (int, int, error) {
	if len(args) < 2 {
		return 0, 0, usageError(usage)
	}
	w, err := strconv.Atoi(args[0])
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width %q", args[0])
	}
	h, err := strconv.Atoi(args[1])
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height %q", args[1])
	}
	return w, h, nil
}

func resizeCommand(api API) modehandler.CommandFunc {
	const usage = "resize WIDTH HEIGHT [nearest|bilinear|bicubic]"
	return func(args []string) error {
		w, h, err := parseSize(args, usage)
		if err != nil {
			return err
		}
		mode := surface.ResampleBilinear
		if len(args) > 2 {
			if mode, err = surface.ParseResampleMode(args[2]); err != nil {
				return err
			}
		}
		return api.Start(functions.ResizeDocument(w, h, mode))
	}
}

func newImageCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		w, h, err := parseSize(args, "new WIDTH HEIGHT")
		if err != nil {
			return err
		}
		return api.Execute(functions.NewImage(w, h))
	}
}

func rotateCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return usageError("rotate cw|ccw|180")
		}
		var r surface.Rotation
		switch strings.ToLower(args[0]) {
		case "cw", "90":
			r = surface.Rotate90CW
		case "ccw", "-90", "270":
			r = surface.Rotate90CCW
		case "180":
			r = surface.Rotate180
		default:
			return fmt.Errorf("unknown rotation %q", args[0])
		}
		return api.Start(functions.RotateDocument(r))
	}
}

func flipCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return usageError("flip h|v")
		}
		switch strings.ToLower(args[0]) {
		case "h", "horizontal":
			return api.Execute(functions.FlipDocument(surface.FlipHorizontal))
		case "v", "vertical":
			return api.Execute(functions.FlipDocument(surface.FlipVertical))
		}
		return fmt.Errorf("unknown axis %q", args[0])
	}
}

func metaCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) < 2 {
			return usageError("meta KEY VALUE")
		}
		return api.Execute(functions.SetMetadata(args[0], strings.Join(args[1:], " ")))
	}
}

func unmetaCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return usageError("unmeta KEY")
		}
		return api.Execute(functions.RemoveMetadata(args[0]))
	}
}

// editActiveLayer applies edit to a copy of the active layer's properties
// and records the change.
func editActiveLayer(api API, edit func(*document.Properties) error) error {
	index, props, ok := api.ActiveLayer()
	if !ok {
		return ErrNoLayer
	}
	if err := edit(&props); err != nil {
		return err
	}
	return api.Execute(functions.SetLayerProperties(index, props))
}

func renameCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) == 0 {
			return usageError("rename NAME")
		}
		return editActiveLayer(api, func(p *document.Properties) error {
			p.Name = strings.Join(args, " ")
			return nil
		})
	}
}

func opacityCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return usageError("opacity 0-255")
		}
		v, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid opacity %q", args[0])
		}
		return editActiveLayer(api, func(p *document.Properties) error {
			p.Opacity = uint8(v)
			return nil
		})
	}
}

func blendCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return usageError("blend normal|multiply|additive|screen")
		}
		mode, err := surface.ParseBlendMode(args[0])
		if err != nil {
			return err
		}
		return editActiveLayer(api, func(p *document.Properties) error {
			p.BlendMode = mode
			return nil
		})
	}
}

func visibilityCommand(api API, visible bool) modehandler.CommandFunc {
	return func([]string) error {
		return editActiveLayer(api, func(p *document.Properties) error {
			p.Visible = visible
			return nil
		})
	}
}

// swapCommand takes layer numbers as shown on the status bar, from 1.
func swapCommand(api API) modehandler.CommandFunc {
	return func(args []string) error {
		if len(args) != 2 {
			return usageError("swap LAYER LAYER")
		}
		i, err1 := strconv.Atoi(args[0])
		j, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid layer numbers %q %q", args[0], args[1])
		}
		return api.Execute(functions.SwapLayer(i-1, j-1))
	}
}

func stepCommand(api API, step func(int) (int, error), verb, none string) modehandler.CommandFunc {
	return func(args []string) error {
		n := 1
		if len(args) > 0 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil || n <= 0 {
				return fmt.Errorf("invalid count %q", args[0])
			}
		}
		done, err := step(n)
		if err != nil {
			return err
		}
		if done == 0 {
			return errors.New(none)
		}
		api.SetStatusMessage("%s %d step(s)", verb, done)
		return nil
	}
}

func helpCommand(reg Registrar, api API) modehandler.CommandFunc {
	return func([]string) error {
		api.SetStatusMessage("Commands: %s", strings.Join(reg.Commands(), " "))
		return nil
	}
}

func quitCommand(api API) modehandler.CommandFunc {
	return func([]string) error {
		api.Quit()
		return nil
	}
}
