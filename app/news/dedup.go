package news

// Dedupe keeps the first candidate for each source URL, preserving the order
// of first occurrence.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if _, ok := seen[c.SourceURL]; ok {
			continue
		}
		seen[c.SourceURL] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}
