package score

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

const (
	countCap  = 10 // occurrences beyond this add nothing
	lengthCap = 10 // extra characters beyond this add nothing
	minLength = 5  // only characters past this length earn a bonus
)

// Method turns text and its tokens into an ordered keyword list
type Method func(text string, tokens []string) model.Keywords

// Ranking is the transparent scoring breakdown of one matched word
type Ranking struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Score int    `json:"score"`
}

// Scorer ranks tokens that appear in a topical word list
type Scorer struct {
	words   map[string]struct{}
	dynamic []*regexp.Regexp
	max     int
}

// NewScorer creates a scorer over a static word list and a list of patterns
// for morphological variants. max bounds the number of keywords returned.
func NewScorer(words []string, dynamic []*regexp.Regexp, max int) *Scorer {
	if max <= 0 {
		max = 5
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return &Scorer{
		words:   set,
		dynamic: dynamic,
		max:     max,
	}
}

// Matches reports whether the token is a topical word
func (s *Scorer) Matches(token string) bool {
	if _, ok := s.words[token]; ok {
		return true
	}
	return matchesAny(token, s.dynamic)
}

// Rank tallies the matched tokens and orders them by score, then by word
// length (longest first). Words that tie on both keep first-seen order.
func (s *Scorer) Rank(tokens []string) []Ranking {
	counts := make(map[string]int)
	var order []string

	for _, token := range tokens {
		if token == "" || !s.Matches(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	rankings := make([]Ranking, len(order))
	for i, word := range order {
		rankings[i] = Ranking{
			Word:  word,
			Count: counts[word],
			Score: WordScore(word, counts[word]),
		}
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return utf8.RuneCountInString(a.Word) > utf8.RuneCountInString(b.Word)
	})

	return rankings
}

// Keywords returns the top ranked words. It satisfies Method.
func (s *Scorer) Keywords(_ string, tokens []string) model.Keywords {
	rankings := s.Rank(tokens)
	if len(rankings) > s.max {
		rankings = rankings[:s.max]
	}

	keywords := make(model.Keywords, len(rankings))
	for i, r := range rankings {
		keywords[i] = r.Word
	}
	return keywords
}

// WordScore rewards frequent and long words; each factor is capped
func WordScore(word string, count int) int {
	extraLength := max(utf8.RuneCountInString(word)-minLength, 0)
	return min(count, countCap)/countCap + min(extraLength, lengthCap)/lengthCap
}

// FirstN returns a method that keeps the first n tokens verbatim
func FirstN(n int) Method {
	return func(_ string, tokens []string) model.Keywords {
		if len(tokens) > n {
			tokens = tokens[:n]
		}
		keywords := make(model.Keywords, len(tokens))
		copy(keywords, tokens)
		return keywords
	}
}

// MatchesAny reports whether any token matches any of the patterns
func MatchesAny(tokens []string, patterns []*regexp.Regexp) bool {
	for _, token := range tokens {
		if matchesAny(token, patterns) {
			return true
		}
	}
	return false
}

func matchesAny(token string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(token) {
			return true
		}
	}
	return false
}
