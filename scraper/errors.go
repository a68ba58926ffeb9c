package scraper

import (
	"errors"
	"fmt"
)

// ErrNavigationTimeout indicates a wait-for or navigation call exceeded
// its bound.
type ErrNavigationTimeout struct {
	Err error
}

func (e ErrNavigationTimeout) Error() string {
	return fmt.Errorf("navigation timeout: %w", e.Err).Error()
}

func (e ErrNavigationTimeout) Unwrap() error {
	return e.Err
}

// ErrDesync indicates clicking "next" never moved the confirmed page
// number within the retry budget.
type ErrDesync struct {
	Confirmed int
	Target    int
}

func (e ErrDesync) Error() string {
	return fmt.Sprintf("desync: confirmed page %d never reached target %d", e.Confirmed, e.Target)
}

// ErrExtraction indicates a page's rows could not be read at all.
type ErrExtraction struct {
	Err error
}

func (e ErrExtraction) Error() string {
	return fmt.Errorf("extraction: %w", e.Err).Error()
}

func (e ErrExtraction) Unwrap() error {
	return e.Err
}

// ErrNoSession indicates a worker could not acquire a browser session.
type ErrNoSession struct {
	Err error
}

func (e ErrNoSession) Error() string {
	return fmt.Errorf("no session: %w", e.Err).Error()
}

func (e ErrNoSession) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrNavigationTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var desync ErrDesync
	if errors.As(err, &desync) {
		return "desync"
	}
	var extraction ErrExtraction
	if errors.As(err, &extraction) {
		return "extraction"
	}
	var noSession ErrNoSession
	if errors.As(err, &noSession) {
		return "no_session"
	}
	return "other"
}
