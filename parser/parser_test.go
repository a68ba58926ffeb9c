package parser

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int64
		wantErr bool
	}{
		{name: "grouped price", text: "1,234 c", want: 1234},
		{name: "bare digits", text: "950", want: 950},
		{name: "surrounding markup text", text: "  12,500,000\n", want: 12500000},
		{name: "no digits", text: "-", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitNameQuantity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantQty  int
	}{
		{name: "stacked", text: "Iron Ingot x5", wantName: "Iron Ingot", wantQty: 5},
		{name: "single", text: "Iron Ingot", wantName: "Iron Ingot", wantQty: 1},
		{name: "large stack", text: "Arrow x1000", wantName: "Arrow", wantQty: 1000},
		{name: "x suffix without number", text: "Potion x", wantName: "Potion x", wantQty: 1},
		{name: "x inside the name", text: "Fox x3", wantName: "Fox", wantQty: 3},
		{name: "zero quantity ignored", text: "Gem x0", wantName: "Gem x0", wantQty: 1},
		{name: "padded", text: "  Oak Log x20  ", wantName: "Oak Log", wantQty: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotQty := SplitNameQuantity(tt.text)
			if gotName != tt.wantName || gotQty != tt.wantQty {
				t.Errorf("SplitNameQuantity(%q) = (%q, %d), want (%q, %d)",
					tt.text, gotName, gotQty, tt.wantName, tt.wantQty)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		dateText string
		timeText string
		want     string
	}{
		{name: "full timestamp", dateText: "3/14/2025", timeText: "7:05:32 PM", want: "2025-03-14T19:05:32"},
		{name: "morning", dateText: "12/1/2024", timeText: "9:00:01 AM", want: "2024-12-01T09:00:01"},
		{name: "date only", dateText: "3/14/2025", timeText: "", want: "2025-03-14T00:00:00"},
		{name: "unparsable kept verbatim", dateText: "yesterday", timeText: "late", want: "yesterday late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateTime(tt.dateText, tt.timeText)
			if got != tt.want {
				t.Errorf("ParseDateTime(%q, %q) = %q, want %q", tt.dateText, tt.timeText, got, tt.want)
			}
		})
	}
}

func TestParsePageNumber(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{name: "with total", text: "Page 12 of 5908", want: 12, wantOK: true},
		{name: "without total", text: "Page 7", want: 7, wantOK: true},
		{name: "no page", text: "loading", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePageNumber(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParsePageNumber(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseTotalPages(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{name: "indicator", text: "Page 1 of 5908", want: 5908, wantOK: true},
		{name: "mid crawl", text: "Page 120 of 300", want: 300, wantOK: true},
		{name: "no total", text: "Page 3", wantOK: false},
		{name: "garbage", text: "Pages: many", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTotalPages(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseTotalPages(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseTimeLeft(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "hours and minutes", text: "1h30m", want: 90},
		{name: "minutes only", text: "45m", want: 45},
		{name: "hours only", text: "2h", want: 120},
		{name: "spaced", text: "3 h 15 m", want: 195},
		{name: "dash is expired", text: "-", want: 0},
		{name: "very short", text: "Very Short", want: 0},
		{name: "bare minutes", text: "90", want: 90},
		{name: "unparsable", text: "soon-ish", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimeLeft(tt.text); got != tt.want {
				t.Errorf("ParseTimeLeft(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
