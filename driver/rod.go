package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Rod drives a shared headless Chromium; each OpenSession call creates
// an isolated stealth page on it.
type Rod struct {
	browser   *rod.Browser
	launch    *launcher.Launcher
	userAgent string
	headless  bool
}

// NewRod builds an unstarted rod driver.
func NewRod(userAgent string, headless bool) *Rod {
	return &Rod{
		userAgent: userAgent,
		headless:  headless,
	}
}

// Start launches the browser process and connects to it.
func (d *Rod) Start() error {
	l := launcher.New().
		Headless(d.headless).
		Set("user-agent", d.userAgent)

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	d.launch = l

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	d.browser = browser
	return nil
}

// Close shuts down the browser and its launcher resources.
func (d *Rod) Close() {
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.launch != nil {
		d.launch.Cleanup()
	}
}

// OpenSession opens a fresh stealth page bound to ctx.
func (d *Rod) OpenSession(ctx context.Context) (Session, error) {
	if d.browser == nil {
		return nil, fmt.Errorf("rod driver not started")
	}
	page, err := stealth.Page(d.browser)
	if err != nil {
		return nil, fmt.Errorf("open stealth page: %w", err)
	}
	return &rodSession{page: page.Context(ctx)}, nil
}

type rodSession struct {
	page *rod.Page
}

func (s *rodSession) Navigate(url string, timeout time.Duration) error {
	p := s.page.Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	// The listing keeps painting after the load event fires.
	if err := p.WaitStable(300 * time.Millisecond); err != nil {
		return fmt.Errorf("wait stable %s: %w", url, err)
	}
	return nil
}

func (s *rodSession) WaitFor(selector string, timeout time.Duration, state WaitState) error {
	switch state {
	case StateHidden:
		has, el, err := s.page.Has(selector)
		if err != nil {
			return fmt.Errorf("query %q: %w", selector, err)
		}
		if !has {
			return nil
		}
		if err := el.Timeout(timeout).WaitInvisible(); err != nil {
			return fmt.Errorf("wait hidden %q: %w", selector, err)
		}
		return nil
	case StateVisible:
		el, err := s.page.Timeout(timeout).Element(selector)
		if err != nil {
			return fmt.Errorf("wait for %q: %w", selector, err)
		}
		if err := el.WaitVisible(); err != nil {
			return fmt.Errorf("wait visible %q: %w", selector, err)
		}
		return nil
	default:
		if _, err := s.page.Timeout(timeout).Element(selector); err != nil {
			return fmt.Errorf("wait for %q: %w", selector, err)
		}
		return nil
	}
}

func (s *rodSession) Query(selector string) (Element, error) {
	has, el, err := s.page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &rodElement{el: el}, nil
}

func (s *rodSession) QueryAll(selector string) ([]Element, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query all %q: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (s *rodSession) Close() error {
	return s.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (*string, error) {
	return e.el.Attribute(name)
}

func (e *rodElement) Query(selector string) (Element, error) {
	has, el, err := e.el.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &rodElement{el: el}, nil
}

func (e *rodElement) Click() error {
	if err := e.el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
