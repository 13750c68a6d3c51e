package news

var categoryQueries = map[string]string{
	"frontend": "frontend developer",
	"backend":  "backend developer",
	"design":   "UI UX designer",
	"planning": "product manager planning",
	"devops":   "devops engineer",
}

const defaultQuery = "software developer career"

// SearchQuery maps a category to the keyword query sent to search APIs.
// Unknown and empty categories use the general career query.
func SearchQuery(category string) string {
	if q, ok := categoryQueries[category]; ok {
		return q
	}
	return defaultQuery
}
