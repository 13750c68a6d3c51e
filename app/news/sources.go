package news

// careerKeywords is the title allow-list applied to RSS items when a source
// declares no filters of its own.
var careerKeywords = []string{
	"developer", "engineer", "programming", "software", "frontend", "front-end",
	"backend", "back-end", "fullstack", "devops", "cloud", "kubernetes",
	"design", "ux", "product", "career", "hiring", "job", "interview", "tech",
}

func DefaultFilters() []ConfigFilter {
	includes := make([]string, len(careerKeywords))
	copy(includes, careerKeywords)

	return []ConfigFilter{{Field: "title", Includes: includes}}
}

// DefaultSources is the built-in RSS source set used when no source files are configured.
func DefaultSources() []*Config {
	sources := []struct{ name, title, url string }{
		{"dev-to", "DEV Community", "https://dev.to/feed"},
		{"smashing-magazine", "Smashing Magazine", "https://www.smashingmagazine.com/feed/"},
		{"css-tricks", "CSS-Tricks", "https://css-tricks.com/feed/"},
		{"infoq", "InfoQ", "https://feed.infoq.com/"},
		{"the-new-stack", "The New Stack", "https://thenewstack.io/feed/"},
		{"stack-overflow-blog", "Stack Overflow Blog", "https://stackoverflow.blog/feed/"},
	}

	configs := make([]*Config, 0, len(sources))
	for _, s := range sources {
		configs = append(configs, &Config{
			Name:  s.name,
			URL:   s.url,
			Title: s.title,
			Settings: ConfigSettings{
				Enabled:        true,
				MaxItems:       defaultMaxItems,
				Timeout:        defaultTimeout,
				ExtractContent: true,
			},
			Filters: DefaultFilters(),
		})
	}

	return configs
}
