package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Spinner provides a progress spinner for long operations. It only draws
// when its writer is a terminal.
type Spinner struct {
	message  string
	frames   []string
	interval time.Duration
	writer   io.Writer
	noColor  bool

	mu     sync.Mutex
	active bool
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSpinner creates a new progress spinner writing to w.
func NewSpinner(w io.Writer, message string, noColor bool) *Spinner {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	if noColor || !IsTerminal(w) {
		frames = []string{"|", "/", "-", "\\"}
	}

	return &Spinner{
		message:  message,
		frames:   frames,
		interval: 100 * time.Millisecond,
		writer:   w,
		noColor:  noColor,
	}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	if !IsTerminal(s.writer) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}

	s.active = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
}

// Stop stops the spinner and clears the line. It is safe to call Stop more
// than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}

	s.active = false
	close(s.stopCh)
	<-s.doneCh

	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	frameIndex := 0
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame := s.frames[frameIndex%len(s.frames)]
			frameIndex++

			if !s.noColor {
				frame = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(frame) // Blue
			}
			fmt.Fprintf(s.writer, "\r%s %s", frame, s.message)
		}
	}
}

// IsTerminal checks if v is a file attached to a terminal. It accepts
// readers as well as writers.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
