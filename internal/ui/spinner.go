package ui

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner is a progress indicator on Err, so piped output stays clean.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner returns a stopped spinner labelled message. ASCII frames are
// used when unicode output is off.
func NewSpinner(message string) *Spinner {
	frames := spinner.CharSets[14]
	if !UseUnicode {
		frames = spinner.CharSets[9]
	}

	s := spinner.New(frames, 100*time.Millisecond, spinner.WithWriter(Err), spinner.WithSuffix(" "+message))
	if !color.NoColor {
		_ = s.Color("cyan") //nolint:errcheck
	}
	return &Spinner{s: s}
}

func (sp *Spinner) Start() { sp.s.Start() }
func (sp *Spinner) Stop()  { sp.s.Stop() }

// WithSpinner runs fn behind a spinner. Reporting the result is left to
// the caller.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	defer sp.Stop()
	return fn()
}
