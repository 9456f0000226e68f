package domain

// Interest is immutable reference data, many-to-many with users
type Interest struct {
	ID    int64
	Name  string
	Emoji string
}

// DisplayString returns the interest with its glyph
func (i Interest) DisplayString() string {
	if i.Emoji == "" {
		return i.Name
	}
	return i.Emoji + " " + i.Name
}

// CommonInterestIDs returns ids present in both sets
func CommonInterestIDs(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	var common []int64
	for _, id := range b {
		if _, ok := seen[id]; ok {
			common = append(common, id)
		}
	}
	return common
}
