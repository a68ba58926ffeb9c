package scraper

// Strategy selects how the page range is divided among workers.
type Strategy string

const (
	// StrategyStriped assigns worker i the pages i, i+N, i+2N, …
	StrategyStriped Strategy = "striped"
	// StrategySequential assigns the whole range to worker 1 in order.
	StrategySequential Strategy = "sequential"
)

// Pages returns the target-page sequence for one worker. Worker IDs are
// 1-based; no two workers ever receive the same page, and the union over
// all workers is exactly [1, totalPages]. A worker whose starting index
// exceeds totalPages gets an empty sequence.
func Pages(strategy Strategy, workerID, totalWorkers, totalPages int) []int {
	if workerID < 1 || workerID > totalWorkers || totalPages < 1 {
		return nil
	}
	if strategy == StrategySequential {
		if workerID != 1 {
			return nil
		}
		pages := make([]int, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			pages = append(pages, p)
		}
		return pages
	}

	pages := make([]int, 0, totalPages/totalWorkers+1)
	for p := workerID; p <= totalPages; p += totalWorkers {
		pages = append(pages, p)
	}
	return pages
}
