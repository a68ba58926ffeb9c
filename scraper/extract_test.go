package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skmarket/go-auction-history/driver"
)

func TestExtractRecords(t *testing.T) {
	site := &fakeSite{
		totalPages: 1,
		rows: func(int) []driver.Element {
			return []driver.Element{
				saleRow("Iron Ingot x5", "2,500", "3/14/2025", "7:05:32 PM"),
				saleRow("Oak Log", "150", "3/14/2025", "7:06:01 PM"),
			}
		},
	}

	records, skipped, err := extractRecords(newFakeSession(site), testSelectors(), time.Second, discardLogger())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, "Iron Ingot", records[0].Name)
	assert.Equal(t, 5, records[0].Quantity)
	assert.Equal(t, int64(2500), records[0].Price)
	assert.Equal(t, "Sold", records[0].Status)
	assert.Equal(t, "2025-03-14T19:05:32", records[0].Timestamp)

	assert.Equal(t, "Oak Log", records[1].Name)
	assert.Equal(t, 1, records[1].Quantity)
}

func TestExtractRecordsSkipsMalformedRows(t *testing.T) {
	site := &fakeSite{
		totalPages: 1,
		rows: func(int) []driver.Element {
			return []driver.Element{
				saleRow("Iron Ingot", "500", "3/14/2025", "7:05:32 PM"),
				saleRow("Broken Row", "-", "3/14/2025", "7:06:01 PM"), // no digits in price
				saleRow("", "100", "3/14/2025", "7:07:00 PM"),         // no name
			}
		},
	}

	records, skipped, err := extractRecords(newFakeSession(site), testSelectors(), time.Second, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "Iron Ingot", records[0].Name)
}

func TestExtractRecordsKeepsRawTimestampWhenUnparsable(t *testing.T) {
	site := &fakeSite{
		totalPages: 1,
		rows: func(int) []driver.Element {
			return []driver.Element{
				saleRow("Iron Ingot", "500", "a moment", "ago"),
			}
		},
	}

	records, skipped, err := extractRecords(newFakeSession(site), testSelectors(), time.Second, discardLogger())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "a moment ago", records[0].Timestamp)
}
