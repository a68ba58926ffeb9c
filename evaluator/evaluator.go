package evaluator

import (
	"github.com/skmarket/go-auction-history/models"
)

// Action is the recommended move on one live listing.
type Action string

const (
	ActionBid       Action = "bid"
	ActionBuyout    Action = "buyout"
	ActionSkip      Action = "skip"
	ActionNoHistory Action = "no history"
)

// Listing is one live auction scraped from the listing table. A zero
// BuyoutPrice means the seller set none.
type Listing struct {
	Name        string
	Quantity    int
	BidPrice    int64
	BuyoutPrice int64
	TimeLeft    int // minutes, 0 when expired or imminent
	RawTimeLeft string
}

// BidPerUnit returns the current bid normalised to a single unit.
func (l Listing) BidPerUnit() float64 {
	if l.Quantity > 1 {
		return float64(l.BidPrice) / float64(l.Quantity)
	}
	return float64(l.BidPrice)
}

// BuyoutPerUnit returns the buyout price normalised to a single unit.
func (l Listing) BuyoutPerUnit() float64 {
	if l.Quantity > 1 {
		return float64(l.BuyoutPrice) / float64(l.Quantity)
	}
	return float64(l.BuyoutPrice)
}

// Recommendation is a scored listing. Margin is the median minus the
// acted-on per-unit price, so higher is better; it is zero for skips.
type Recommendation struct {
	Listing
	Action Action
	Median float64
	Margin float64
}

// Evaluator scores listings against historical medians.
type Evaluator struct {
	stats *StatsCache
}

// New builds an evaluator over a loaded item database.
func New(db models.ItemDatabase, cacheSize int) (*Evaluator, error) {
	stats, err := NewStatsCache(db, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Evaluator{stats: stats}, nil
}

// Evaluate scores one listing. A bid below the historical per-unit
// median wins over a cheap buyout; items without history are flagged
// rather than skipped so a human can judge them.
func (e *Evaluator) Evaluate(listing Listing) Recommendation {
	rec := Recommendation{Listing: listing, Action: ActionSkip}
	stats, ok := e.stats.Get(listing.Name)
	if !ok {
		rec.Action = ActionNoHistory
		return rec
	}
	rec.Median = stats.Median

	if listing.BidPrice > 0 && listing.BidPerUnit() < stats.Median {
		rec.Action = ActionBid
		rec.Margin = stats.Median - listing.BidPerUnit()
		return rec
	}
	if listing.BuyoutPrice > 0 && listing.BuyoutPerUnit() < stats.Median {
		rec.Action = ActionBuyout
		rec.Margin = stats.Median - listing.BuyoutPerUnit()
	}
	return rec
}

// EvaluateAll scores every listing in order.
func (e *Evaluator) EvaluateAll(listings []Listing) []Recommendation {
	recs := make([]Recommendation, 0, len(listings))
	for _, listing := range listings {
		recs = append(recs, e.Evaluate(listing))
	}
	return recs
}
