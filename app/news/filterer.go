package news

import (
	"fmt"
	"log/slog"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Keep returns the items that pass every filter of the source, in input order.
func (f *Filterer) Keep(items []Item, source *Config) []Item {
	if len(source.Filters) == 0 {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if reason := f.Reject(item, source.Filters); reason != "" {
			slog.Debug("Item filtered", "source", source.Name, "title", item.Title, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

// Reject returns a non-empty reason when the item fails a filter.
// Excludes win over includes; includes require at least one case-insensitive match.
func (f *Filterer) Reject(item Item, filters []ConfigFilter) string {
	for _, filter := range filters {
		value := strings.ToLower(fieldValue(item, filter.Field))

		if term, ok := firstMatch(value, filter.Excludes); ok {
			return fmt.Sprintf("%s contains excluded term '%s'", filter.Field, term)
		}

		if len(filter.Includes) == 0 {
			continue
		}
		if _, ok := firstMatch(value, filter.Includes); !ok {
			return fmt.Sprintf("%s matches none of %v", filter.Field, filter.Includes)
		}
	}

	return ""
}

func firstMatch(lowered string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}

func fieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "content":
		return item.Content
	case "link":
		return item.Link
	case "categories":
		return strings.Join(item.Categories, " ")
	}
	return ""
}
