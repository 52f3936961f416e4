package extract

import (
	"regexp"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

var numeric = regexp.MustCompile(`^\d+$`)

// stopwords are common Dutch words carrying no topical signal
var stopwords = toSet([]string{
	"", "de", "het", "een", "dit", "dat", "die", "deze", "dus", "er", "op", "in", "aan", "met", "van",
	"ter", "is", "tot", "om", "rond", "hen", "hun", "haar", "zijn", "mijn", "jullie", "ze", "we", "wij",
	"zij", "hij", "ik", "je", "jij", "u", "uw", "ons", "onze", "al", "veel", "moet", "moeten", "wordt",
	"worden", "werd", "werden", "door", "waar", "en", "bij", "of", "maar", "want", "als", "dan", "ook",
	"nog", "niet", "geen", "wel", "naar", "voor", "over", "uit", "onder", "tegen", "tussen", "na",
	"sinds", "zonder", "binnen", "buiten", "heeft", "hebben", "had", "hadden", "was", "waren", "ben",
	"bent", "kan", "kunnen", "kon", "konden", "zal", "zullen", "zou", "zouden", "wil", "willen", "mag",
	"mogen", "gaat", "gaan", "ging", "komt", "komen", "kwam", "zegt", "zeggen", "zei", "volgens", "meer",
	"minder", "alle", "alles", "iets", "niets", "iemand", "niemand", "wat", "wie", "welke", "hoe",
	"waarom", "wanneer", "toen", "nu", "hier", "daar", "ook", "zo", "zeer", "erg", "heel", "weer",
	"nieuwe", "nieuw", "jaar", "jaren", "dag", "dagen", "week", "weken", "vandaag", "gisteren", "morgen",
	"procent", "euro", "miljoen", "miljard", "twee", "drie", "vier", "vijf", "eerste", "tweede", "laatste",
	"andere", "ander", "eigen", "zelf", "even", "echter", "daarom", "omdat", "doordat", "terwijl", "zoals",
	"the", "and", "of", "to",
})

// blocklist holds words that end like a street or area but never refer to one
var blocklist = toSet([]string{
	"onderweg", "snelweg", "halverwege", "loopbaan", "arbeidsmarkt", "woningmarkt", "huizenmarkt",
	"gerechtshof", "hoofdweg", "tussenweg", "uitweg", "middenweg", "weekmarkt", "jaarmarkt",
	"speelpark", "pretpark", "vakantiepark", "bedrijfspark", "windpark", "zonnepark",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether the token is a common word
func IsStopword(token string) bool {
	_, ok := stopwords[strings.ToLower(token)]
	return ok
}

// IsBlocked reports whether the token is a known street-like near miss
func IsBlocked(token string) bool {
	_, ok := blocklist[token]
	return ok
}

// Filter removes stopwords, blocked words and pure numbers, keeping the
// relative order of the remaining tokens
func Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopword(token) || IsBlocked(token) || numeric.MatchString(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

// RemoveDoubles keeps the first occurrence of every keyword
func RemoveDoubles(keywords model.Keywords) model.Keywords {
	seen := make(map[string]bool, len(keywords))
	unique := make(model.Keywords, 0, len(keywords))

	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			unique = append(unique, kw)
		}
	}

	return unique
}
