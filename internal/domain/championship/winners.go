package championship

import "strings"

// WinnerGrid maps race name to "Gender_Category" to the category winner's
// time display. It is sparse.
type WinnerGrid map[string]map[string]string

// GridKey builds the inner key for a gender and category.
func GridKey(gender, category string) string {
	return gender + "_" + category
}

// Lookup returns the recorded winner time. Blank and zero times count as
// missing.
func (g WinnerGrid) Lookup(race, gender, category string) (string, bool) {
	t := strings.TrimSpace(g[race][GridKey(gender, category)])
	if t == "" || t == "00:00:00" {
		return "", false
	}
	return t, true
}

// Set records a winner time, creating the race entry when needed. An empty
// time removes the key.
func (g WinnerGrid) Set(race, gender, category, display string) {
	if strings.TrimSpace(display) == "" {
		delete(g[race], GridKey(gender, category))
		return
	}
	if g[race] == nil {
		g[race] = map[string]string{}
	}
	g[race][GridKey(gender, category)] = display
}
