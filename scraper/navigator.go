package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/parser"
)

// NavOutcome is the terminal state of one navigation step.
type NavOutcome int

const (
	// NavConfirmed means the live session is verified to display the
	// target page.
	NavConfirmed NavOutcome = iota
	// NavExhausted means the "next" control is absent or disabled; no
	// more pages exist. A normal end condition, not an error.
	NavExhausted
	// NavDesynced means a click never moved the confirmed page number
	// within the poll budget.
	NavDesynced
)

func (o NavOutcome) String() string {
	switch o {
	case NavConfirmed:
		return "confirmed"
	case NavExhausted:
		return "exhausted"
	case NavDesynced:
		return "desynced"
	}
	return "unknown"
}

// PollPolicy bounds the confirm loop that runs after each click. Sleep
// is injectable so tests can use a zero-delay clock.
type PollPolicy struct {
	Attempts int
	Interval time.Duration
	Sleep    func(context.Context, time.Duration) error
}

func (p PollPolicy) sleep(ctx context.Context) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, p.Interval)
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Navigator advances one live session through the pagination. The site
// offers no addressable page URLs, so every move is a click on "next"
// followed by re-reading the rendered page indicator; a page counts as
// reached only once the indicator says so. The confirmed page number
// never goes backward.
type Navigator struct {
	session   driver.Session
	sel       Selectors
	poll      PollPolicy
	logger    *slog.Logger
	confirmed int
}

// NewNavigator wraps a session that is already on the listing's first
// page.
func NewNavigator(session driver.Session, sel Selectors, poll PollPolicy, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		session:   session,
		sel:       sel,
		poll:      poll,
		logger:    logger,
		confirmed: 1,
	}
}

// Confirmed returns the page the session is verified to display.
func (n *Navigator) Confirmed() int {
	return n.confirmed
}

// AdvanceTo clicks "next" until the confirmed page equals target.
func (n *Navigator) AdvanceTo(ctx context.Context, target int) (NavOutcome, error) {
	if target < n.confirmed {
		return NavDesynced, fmt.Errorf("target page %d is behind confirmed page %d", target, n.confirmed)
	}

	for n.confirmed < target {
		if err := ctx.Err(); err != nil {
			return NavDesynced, err
		}

		next, err := n.session.Query(n.sel.NextButton)
		if err != nil {
			return NavDesynced, fmt.Errorf("locate next control: %w", err)
		}
		if next == nil {
			return NavExhausted, nil
		}
		disabled, err := next.Attribute("disabled")
		if err != nil {
			return NavDesynced, fmt.Errorf("read next control state: %w", err)
		}
		if disabled != nil {
			return NavExhausted, nil
		}

		if err := next.Click(); err != nil {
			return NavDesynced, fmt.Errorf("click next control: %w", err)
		}

		advanced := false
		for attempt := 0; attempt < n.poll.Attempts; attempt++ {
			if err := n.poll.sleep(ctx); err != nil {
				return NavDesynced, err
			}
			current, ok := n.readIndicator()
			if ok && current > n.confirmed {
				n.confirmed = current
				advanced = true
				break
			}
		}
		if !advanced {
			n.logger.Debug("page indicator never advanced",
				slog.Int("confirmed", n.confirmed),
				slog.Int("target", target),
			)
			return NavDesynced, nil
		}
	}
	return NavConfirmed, nil
}

func (n *Navigator) readIndicator() (int, bool) {
	el, err := n.session.Query(n.sel.PageIndicator)
	if err != nil || el == nil {
		return 0, false
	}
	text, err := el.Text()
	if err != nil {
		return 0, false
	}
	return parser.ParsePageNumber(text)
}
