// Package logging builds the slog loggers used by the commands.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatPretty  = "pretty"
)

// New returns a logger writing to w in the given format at or above level.
func New(w io.Writer, format string, level slog.Leveler) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case FormatConsole, "":
		return slog.New(NewHandler(w, false, opts)), nil
	case FormatPretty:
		return slog.New(NewHandler(w, true, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// Handler prints one record per write. In pretty mode that is an indented
// JSON object; otherwise it is a single console line of the form
// "15:04:05.000 INFO msg key=value ...".
type Handler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	pretty bool

	attrs  []boundAttr
	groups []string
}

// boundAttr remembers the groups that were open when With added it.
type boundAttr struct {
	groups []string
	attr   slog.Attr
}

func NewHandler(w io.Writer, pretty bool, opts *slog.HandlerOptions) *Handler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &Handler{w: w, mu: &sync.Mutex{}, level: level, pretty: pretty}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}

	fields := map[string]any{}
	for _, b := range h.attrs {
		addAttr(fields, b.groups, b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.groups, a)
		return true
	})

	var out []byte
	if h.pretty {
		fields["time"] = when.Format(time.RFC3339Nano)
		fields["level"] = r.Level.String()
		fields["msg"] = r.Message
		b, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			b = []byte(`{"msg":` + strconv.Quote(r.Message) + `}`)
		}
		out = append(b, '\n')
	} else {
		var sb strings.Builder
		sb.WriteString(when.Format("15:04:05.000"))
		sb.WriteByte(' ')
		sb.WriteString(r.Level.String())
		sb.WriteByte(' ')
		sb.WriteString(r.Message)
		writeFlat(&sb, "", fields)
		sb.WriteByte('\n')
		out = []byte(sb.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(out)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]boundAttr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, boundAttr{groups: h.groups, attr: a})
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// writeFlat renders nested groups as dotted keys in sorted order.
func writeFlat(sb *strings.Builder, prefix string, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if child, ok := fields[k].(map[string]any); ok {
			writeFlat(sb, prefix+k+".", child)
			continue
		}
		s := fmt.Sprint(fields[k])
		if strings.ContainsAny(s, " =\"") {
			s = strconv.Quote(s)
		}
		sb.WriteByte(' ')
		sb.WriteString(prefix + k)
		sb.WriteByte('=')
		sb.WriteString(s)
	}
}

func addAttr(root map[string]any, groups []string, a slog.Attr) {
	dst := root
	for _, g := range groups {
		m, ok := dst[g].(map[string]any)
		if !ok {
			m = map[string]any{}
			dst[g] = m
		}
		dst = m
	}
	setAttr(dst, a)
}

func setAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		child := map[string]any{}
		for _, ga := range v.Group() {
			setAttr(child, ga)
		}
		if a.Key == "" {
			for k, cv := range child {
				dst[k] = cv
			}
			return
		}
		dst[a.Key] = child
		return
	}
	if a.Key == "" {
		return
	}
	dst[a.Key] = plain(v)
}

func plain(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}
