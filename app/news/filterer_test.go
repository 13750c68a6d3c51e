package news

import (
	"testing"
)

func TestFilterer_Keep_NoFilters(t *testing.T) {
	filterer := NewFilterer()

	items := []Item{
		{Title: "Test Item 1"},
		{Title: "Test Item 2"},
	}

	result := filterer.Keep(items, &Config{Name: "test"})

	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
}

func TestFilterer_Keep_CareerKeywords(t *testing.T) {
	filterer := NewFilterer()

	items := []Item{
		{Title: "How Frontend Developers Use Signals"},
		{Title: "Weekend recipes"},
		{Title: "DevOps hiring is back"},
		{Title: "Celebrity gossip roundup"},
	}

	result := filterer.Keep(items, &Config{Name: "test", Filters: DefaultFilters()})

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[0].Title != "How Frontend Developers Use Signals" {
		t.Errorf("Expected first career item to be kept first, got %q", result[0].Title)
	}
	if result[1].Title != "DevOps hiring is back" {
		t.Errorf("Expected second career item, got %q", result[1].Title)
	}
}

func TestFilterer_Reject_ExcludeWinsOverInclude(t *testing.T) {
	filterer := NewFilterer()

	filters := []ConfigFilter{
		{Field: "title", Includes: []string{"developer"}, Excludes: []string{"sponsored"}},
	}

	reason := filterer.Reject(Item{Title: "Sponsored: developer tools"}, filters)
	if reason == "" {
		t.Error("Expected item to be rejected by exclude rule")
	}

	reason = filterer.Reject(Item{Title: "Developer tools"}, filters)
	if reason != "" {
		t.Errorf("Expected item to pass, got reason %q", reason)
	}
}

func TestFilterer_Reject_Fields(t *testing.T) {
	filterer := NewFilterer()

	item := Item{
		Title:       "Weekly digest",
		Description: "Notes for backend engineers",
		Content:     "<p>Full content</p>",
		Link:        "https://example.com/careers/digest",
		Categories:  []string{"Careers", "Go"},
	}

	tests := []struct {
		field  string
		term   string
		reject bool
	}{
		{"description", "backend", false},
		{"content", "full content", false},
		{"link", "/careers/", false},
		{"categories", "go", false},
		{"title", "kubernetes", true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			reason := filterer.Reject(item, []ConfigFilter{{Field: tt.field, Includes: []string{tt.term}}})
			if (reason != "") != tt.reject {
				t.Errorf("Expected reject=%v for %s include %q, got reason %q", tt.reject, tt.field, tt.term, reason)
			}
		})
	}
}
