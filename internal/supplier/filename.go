package supplier

import "strings"

// FromFilename resolves a supplier hint from a file name by matching known
// supplier name variants, case-insensitively and tolerant of apostrophes.
// Returns "" when the name carries no hint.
func FromFilename(name string) string {
	n := strings.ToLower(strings.ReplaceAll(name, "'", ""))
	switch {
	case strings.Contains(n, "united drug"), strings.Contains(n, "united_drug"):
		return UnitedDrug
	case strings.Contains(n, "genamed"), strings.Contains(n, "niam"):
		return Genamed
	case strings.Contains(n, "iskus"):
		return Iskus
	case strings.Contains(n, "feehily"), strings.Contains(n, "fehily"):
		return Feehily
	default:
		return ""
	}
}
