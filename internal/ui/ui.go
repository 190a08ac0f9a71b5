// Package ui holds the small capabilities the controller writes to:
// a one-line status area and a blocking prompt.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// Status is the one-line status area.
type Status interface {
	SetStatus(text string)
}

// Prompter shows a message the user has to acknowledge.
type Prompter interface {
	Prompt(message string)
}

// StatusLine keeps the current status text and, optionally, echoes every update to a writer.
type StatusLine struct {
	mu      sync.Mutex
	text    string
	history []string
	out     io.Writer
}

// NewStatusLine creates a status area. A nil writer keeps updates in memory only.
func NewStatusLine(out io.Writer) *StatusLine {
	return &StatusLine{out: out}
}

// SetStatus replaces the status text.
func (s *StatusLine) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.history = append(s.history, text)
	if s.out != nil {
		fmt.Fprintf(s.out, "» %s\n", text)
	}
}

// Text returns the current status text.
func (s *StatusLine) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.text
}

// History returns every status text set so far, oldest first.
func (s *StatusLine) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.history...)
}

// WriterPrompter prints prompts to a writer and returns without waiting for acknowledgement.
type WriterPrompter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterPrompter(out io.Writer) *WriterPrompter {
	return &WriterPrompter{out: out}
}

func (p *WriterPrompter) Prompt(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "! %s\n", message)
}

// SyncWriter serializes writes from concurrent producers sharing one writer.
type SyncWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSyncWriter(out io.Writer) *SyncWriter {
	return &SyncWriter{out: out}
}

func (w *SyncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.out.Write(p)
}
