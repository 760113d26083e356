package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// diagnostics appends one JSON line per rendered frame to a trace file, for
// debugging renders after the fact without a terminal recording.
type diagnostics struct {
	mu       sync.Mutex
	path     string
	raw      bool
	file     *os.File
	opened   bool
	disabled bool
}

type traceFrame struct {
	Rendered string      `json:"rendered"`
	Jobs     []*traceJob `json:"jobs"`
}

// traceJob mirrors the stable trace schema: message and progress are
// null when absent, progress is a [current, total] pair.
type traceJob struct {
	ID       uint64      `json:"id"`
	Status   string      `json:"status"`
	Message  *string     `json:"message"`
	Progress *[2]uint64  `json:"progress"`
	Children []*traceJob `json:"children,omitempty"`
}

func newDiagnostics(path string, raw bool) *diagnostics {
	return &diagnostics{path: path, raw: raw}
}

// emit writes the frame. The first failure to open or write the trace file
// logs a warning and disables the emitter; tracing problems must never take
// down rendering.
func (g *diagnostics) emit(snaps []*JobSnapshot, lines []frameLine) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disabled {
		return
	}
	if !g.opened {
		g.opened = true
		f, err := os.OpenFile(g.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			g.disabled = true
			slog.Warn("trace log disabled", "path", g.path, "error", err)
			return
		}
		g.file = f
	}
	if g.file == nil {
		g.disabled = true
		return
	}

	frame := traceFrame{Rendered: joinFrame(lines)}
	if !g.raw {
		frame.Rendered = ansi.Strip(frame.Rendered)
	}
	for _, s := range snaps {
		frame.Jobs = append(frame.Jobs, traceSnapshot(s))
	}
	line, err := json.Marshal(frame)
	if err == nil {
		line = append(line, '\n')
		_, err = g.file.Write(line)
	}
	if err != nil {
		g.disabled = true
		slog.Warn("trace log disabled", "path", g.path, "error", err)
	}
}

func traceSnapshot(s *JobSnapshot) *traceJob {
	j := &traceJob{
		ID:     s.ID,
		Status: s.Status.String(),
	}
	if v, ok := s.Props["message"]; ok {
		msg := fmt.Sprintf("%v", v)
		j.Message = &msg
	}
	if s.HasProgress {
		j.Progress = &[2]uint64{s.Cur, s.Total}
	}
	for _, c := range s.Children {
		j.Children = append(j.Children, traceSnapshot(c))
	}
	return j
}

func (g *diagnostics) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disabled = true
	if g.file != nil {
		g.file.Close()
		g.file = nil
	}
}
