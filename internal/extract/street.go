package extract

import "regexp"

// streetPattern matches tokens ending in a Dutch address or area suffix with
// at least one leading character
var streetPattern = regexp.MustCompile(`^.+(?:straat|weg|laan|pad|plein|dijk|singel|gracht|baan|tunnel|hof|molen|plantsoen|kade|steeg|werf|brug|wal|markt|dreef|boulevard|buurt|wijk|park|viaduct)$`)

// IsStreetName reports whether a token looks like a street or area name
func IsStreetName(token string) bool {
	return !IsBlocked(token) && streetPattern.MatchString(token)
}

// StreetName returns the most frequent street-like token, or "" if there is
// none. On equal counts the token seen first wins.
func StreetName(tokens []string) string {
	counts := make(map[string]int)
	var order []string

	for _, token := range tokens {
		if !IsStreetName(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}

	return best
}
