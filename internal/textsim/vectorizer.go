package textsim

import "strings"

// Stemmer reduces a token to its index form. The second return reports
// whether the token should be kept at all.
type Stemmer interface {
	Stem(token string) (string, bool)
}

// TruncateStemmer is a cheap stemming heuristic: tokens of four or more
// characters are cut to their first six, shorter ones are dropped. It merges
// common inflections (plurals, -ing/-ed) without a linguistic stemmer, at the
// cost of occasional false merges.
type TruncateStemmer struct{}

func (TruncateStemmer) Stem(token string) (string, bool) {
	if len(token) <= 3 {
		return "", false
	}
	if len(token) > 6 {
		return token[:6], true
	}
	return token, true
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "with": {}, "by": {}, "about": {}, "as": {}, "of": {},
	"and": {}, "or": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "what": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "which": {}, "who": {}, "whom": {}, "this": {},
	"that": {}, "these": {}, "those": {},
}

const punctuation = `.,?!;:()[]{}"'`

// Vectorizer turns free text into term-frequency vectors.
type Vectorizer struct {
	stemmer Stemmer
}

// NewVectorizer builds a vectorizer with the given stemmer, defaulting to
// TruncateStemmer when nil.
func NewVectorizer(stemmer Stemmer) *Vectorizer {
	if stemmer == nil {
		stemmer = TruncateStemmer{}
	}
	return &Vectorizer{stemmer: stemmer}
}

// Vectorize lowercases, strips punctuation, drops stop words and tokens of
// length two or less, stems the rest, and returns raw term counts.
func (v *Vectorizer) Vectorize(text string) map[string]int {
	lower := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, lower)

	counts := make(map[string]int)
	for _, tok := range strings.Fields(mapped) {
		if _, stop := stopWords[tok]; stop || len(tok) <= 2 {
			continue
		}
		stemmed, ok := v.stemmer.Stem(tok)
		if !ok {
			continue
		}
		counts[stemmed]++
	}
	return counts
}
