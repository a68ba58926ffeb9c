package scraper

// Selectors locates the moving parts of the history listing. They are
// plain data so a frontend layout change is a configuration edit, not a
// code change. Cell selectors are resolved relative to a row element.
type Selectors struct {
	ProgressBar   string
	RowTable      string
	Row           string
	NameCell      string
	PriceCell     string
	DateCell      string
	TimeCell      string
	StatusCell    string
	NextButton    string
	PageIndicator string
}

// DefaultSelectors matches the current sk-ah.com deployment.
func DefaultSelectors() Selectors {
	return Selectors{
		ProgressBar:   `div[role="progressbar"]`,
		RowTable:      `div[role="table"]`,
		Row:           `tr.border-b`,
		NameCell:      `td:nth-child(1) div.flex.flex-col > span`,
		PriceCell:     `td:nth-child(2) div.justify-end`,
		DateCell:      `td:nth-child(3) div.justify-end`,
		TimeCell:      `td:nth-child(3) small`,
		StatusCell:    "", // the current layout has no explicit status cell
		NextButton:    `a[aria-label="Next page"]`,
		PageIndicator: `nav[aria-label="pagination"] p`,
	}
}
