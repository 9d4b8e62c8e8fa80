package textsim

import "testing"

func TestVectorizeNormalizes(t *testing.T) {
	v := NewVectorizer(nil)

	counts := v.Vectorize("What is the Capital, of FRANCE?")
	if len(counts) != 2 {
		t.Fatalf("expected 2 terms, got %v", counts)
	}
	if counts["capita"] != 1 {
		t.Fatalf("expected stemmed 'capital' once, got %v", counts)
	}
	if counts["france"] != 1 {
		t.Fatalf("expected 'france' once, got %v", counts)
	}
}

func TestVectorizeDropsStopWordsAndShortTokens(t *testing.T) {
	v := NewVectorizer(nil)

	counts := v.Vectorize("the a an is to it cat dog")
	// "cat" and "dog" survive the stop-word/length filter but are dropped by
	// the truncating stemmer (three characters or fewer).
	if len(counts) != 0 {
		t.Fatalf("expected empty vector, got %v", counts)
	}
}

func TestVectorizeCountsRepeats(t *testing.T) {
	v := NewVectorizer(nil)

	counts := v.Vectorize("equations and more equations")
	if counts["equati"] != 2 {
		t.Fatalf("expected 'equations' counted twice, got %v", counts)
	}
}

func TestTruncateStemmer(t *testing.T) {
	s := TruncateStemmer{}

	if _, ok := s.Stem("cat"); ok {
		t.Fatalf("expected short token dropped")
	}
	if stem, ok := s.Stem("city"); !ok || stem != "city" {
		t.Fatalf("expected 'city' kept whole, got %q ok=%v", stem, ok)
	}
	if stem, ok := s.Stem("capitals"); !ok || stem != "capita" {
		t.Fatalf("expected truncation to 6 chars, got %q ok=%v", stem, ok)
	}
}

type identityStemmer struct{}

func (identityStemmer) Stem(token string) (string, bool) { return token, true }

func TestVectorizerAcceptsCustomStemmer(t *testing.T) {
	v := NewVectorizer(identityStemmer{})

	counts := v.Vectorize("photosynthesis")
	if counts["photosynthesis"] != 1 {
		t.Fatalf("expected untruncated term with identity stemmer, got %v", counts)
	}
}
