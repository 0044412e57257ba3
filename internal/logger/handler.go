package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to drop records by tag, package or file.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{
		baseHandler: base,
		cfg:         cfg,
	}
}

// Enabled checks if the level is enabled by the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func foundInSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, found := set[key]
	return found
}

// allowed applies the disable-overrides-enable rule for one dimension.
// An empty key only passes when no enabled list is configured.
func allowed(enabled, disabled map[string]struct{}, key string) (bool, string) {
	if foundInSet(disabled, key) {
		return false, "disabled"
	}
	if enabled != nil && !foundInSet(enabled, key) {
		return false, "not in enabled list"
	}
	return true, ""
}

// recordSource resolves the package directory and file name of a record.
func recordSource(r slog.Record) (pkg, file string, ok bool) {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != slog.SourceKey {
			return true
		}
		if source, isSrc := a.Value.Any().(*slog.Source); isSrc && source != nil && source.File != "" {
			file = filepath.Base(source.File)
			pkg = filepath.Base(filepath.Dir(source.File))
			ok = true
		}
		return false
	})
	if ok || r.PC == 0 {
		return pkg, file, ok
	}

	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

func recordTag(r slog.Record) (string, bool) {
	var tag string
	var found bool
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			found = true
			return false
		}
		return true
	})
	return tag, found
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] Message: Level=%s, Msg=%s\n", r.Level, r.Message)
	}

	if pkg, file, ok := recordSource(r); ok {
		if pkg != "" {
			if pass, why := allowed(h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, strings.ToLower(pkg)); !pass {
				h.trace("package '%s' %s", pkg, why)
				return nil
			}
		}
		if file != "" {
			if pass, why := allowed(h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, strings.ToLower(file)); !pass {
				h.trace("file '%s' %s", file, why)
				return nil
			}
		}
	}

	tag, tagged := recordTag(r)
	switch {
	case tagged:
		if pass, why := allowed(h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, tag); !pass {
			h.trace("tag '%s' %s", tag, why)
			return nil
		}
	case h.cfg.enabledTagsSet != nil:
		// Untagged records are dropped while filtering for specific tags.
		h.trace("untagged message while tags are enabled")
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

func (h *filteringHandler) trace(format string, args ...interface{}) {
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] FILTERED OUT: "+format+"\n", args...)
	}
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
