// Package driver abstracts the browser automation layer behind the
// small capability surface the crawl engine needs: open an isolated
// session, navigate, wait, query, read and click. The production
// implementation drives a headless Chromium through go-rod; tests supply
// scripted fakes.
package driver

import (
	"context"
	"time"
)

// WaitState selects what WaitFor waits for.
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateVisible  WaitState = "visible"
	StateHidden   WaitState = "hidden"
)

// Driver opens isolated browsing sessions. Sessions never share cookies,
// rendering state or navigation position with each other.
type Driver interface {
	OpenSession(ctx context.Context) (Session, error)
}

// Session is one isolated page context.
type Session interface {
	// Navigate loads url and waits for the document to settle.
	Navigate(url string, timeout time.Duration) error
	// WaitFor blocks until selector reaches the given state.
	WaitFor(selector string, timeout time.Duration, state WaitState) error
	// Query returns the first match, or (nil, nil) when absent.
	Query(selector string) (Element, error)
	// QueryAll returns every current match without waiting.
	QueryAll(selector string) ([]Element, error)
	Close() error
}

// Element is a handle to one rendered DOM element.
type Element interface {
	Text() (string, error)
	// Attribute returns nil when the attribute is not present.
	Attribute(name string) (*string, error)
	// Query returns the first descendant match, or (nil, nil) when absent.
	Query(selector string) (Element, error)
	Click() error
}
