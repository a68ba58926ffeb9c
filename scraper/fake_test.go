package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/skmarket/go-auction-history/driver"
)

// testSelectors keeps fake markup trivial: selectors are plain keys.
func testSelectors() Selectors {
	return Selectors{
		RowTable:      "table",
		Row:           "row",
		NameCell:      "name",
		PriceCell:     "price",
		DateCell:      "date",
		TimeCell:      "time",
		NextButton:    "next",
		PageIndicator: "page",
	}
}

// zeroPoll confirms instantly so tests never sleep.
func zeroPoll() PollPolicy {
	return PollPolicy{
		Attempts: 3,
		Interval: time.Millisecond,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
}

// fakeSite models one paginated listing shared by all sessions. Each
// session keeps its own current page, like separate browser tabs.
type fakeSite struct {
	totalPages   int
	stuck        bool // clicks never move the page indicator
	disabledFrom int  // page at which the next control renders disabled
	rows         func(page int) []driver.Element
}

type fakeDriver struct {
	site *fakeSite
	fail bool

	mu       sync.Mutex
	sessions []*fakeSession
}

func (d *fakeDriver) OpenSession(context.Context) (driver.Session, error) {
	if d.fail {
		return nil, errors.New("browser unavailable")
	}
	s := &fakeSession{site: d.site, current: 1}
	d.mu.Lock()
	d.sessions = append(d.sessions, s)
	d.mu.Unlock()
	return s, nil
}

type fakeSession struct {
	site    *fakeSite
	current int
	clicks  int
	closed  bool
}

func newFakeSession(site *fakeSite) *fakeSession {
	return &fakeSession{site: site, current: 1}
}

func (s *fakeSession) Navigate(string, time.Duration) error {
	s.current = 1
	return nil
}

func (s *fakeSession) WaitFor(string, time.Duration, driver.WaitState) error {
	return nil
}

func (s *fakeSession) Query(selector string) (driver.Element, error) {
	switch selector {
	case "next":
		if s.current >= s.site.totalPages {
			return nil, nil
		}
		el := &fakeElement{click: func() error {
			s.clicks++
			if !s.site.stuck {
				s.current++
			}
			return nil
		}}
		if s.site.disabledFrom > 0 && s.current >= s.site.disabledFrom {
			el.attrs = map[string]string{"disabled": ""}
		}
		return el, nil
	case "page":
		return &fakeElement{text: fmt.Sprintf("Page %d of %d", s.current, s.site.totalPages)}, nil
	}
	return nil, nil
}

func (s *fakeSession) QueryAll(selector string) ([]driver.Element, error) {
	if selector == "row" && s.site.rows != nil {
		return s.site.rows(s.current), nil
	}
	return nil, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeElement struct {
	text     string
	attrs    map[string]string
	children map[string]*fakeElement
	click    func() error
}

func (e *fakeElement) Text() (string, error) {
	return e.text, nil
}

func (e *fakeElement) Attribute(name string) (*string, error) {
	if value, ok := e.attrs[name]; ok {
		return &value, nil
	}
	return nil, nil
}

func (e *fakeElement) Query(selector string) (driver.Element, error) {
	if child, ok := e.children[selector]; ok {
		return child, nil
	}
	return nil, nil
}

func (e *fakeElement) Click() error {
	if e.click != nil {
		return e.click()
	}
	return nil
}

// saleRow builds one history table row for the test selectors.
func saleRow(name, price, date, clock string) driver.Element {
	return &fakeElement{children: map[string]*fakeElement{
		"name":  {text: name},
		"price": {text: price},
		"date":  {text: date},
		"time":  {text: clock},
	}}
}
