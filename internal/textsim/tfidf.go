package textsim

import "math"

// Engine scores a query text against a corpus using TF-IDF weighted term
// vectors and cosine similarity. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	vectorizer *Vectorizer
}

// NewEngine builds an engine around the given vectorizer, defaulting to one
// with the truncating stemmer when nil.
func NewEngine(vectorizer *Vectorizer) *Engine {
	if vectorizer == nil {
		vectorizer = NewVectorizer(nil)
	}
	return &Engine{vectorizer: vectorizer}
}

// Similarity returns one cosine-similarity score per corpus text, aligned
// index-for-index with corpusTexts. The query itself counts as a document for
// the IDF statistics.
func (e *Engine) Similarity(query string, corpusTexts []string) []float64 {
	docs := make([]map[string]int, 0, len(corpusTexts)+1)
	for _, text := range corpusTexts {
		docs = append(docs, e.vectorizer.Vectorize(text))
	}
	docs = append(docs, e.vectorizer.Vectorize(query))

	numDocs := len(docs)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			docFreq[term]++
		}
	}

	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		// Smoothing the denominator avoids division by zero and dampens
		// ubiquitous terms.
		idf[term] = math.Log(float64(numDocs) / float64(1+df))
	}

	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		docLen := 0
		for _, count := range doc {
			docLen += count
		}
		if docLen == 0 {
			docLen = 1
		}
		vec := make(map[string]float64, len(doc))
		for term, count := range doc {
			vec[term] = float64(count) / float64(docLen) * idf[term]
		}
		vectors[i] = vec
	}

	queryVec := vectors[numDocs-1]
	queryNorm := norm(queryVec)

	scores := make([]float64, len(corpusTexts))
	for i, vec := range vectors[:numDocs-1] {
		docNorm := norm(vec)
		if queryNorm == 0 || docNorm == 0 {
			continue
		}
		scores[i] = dot(queryVec, vec) / (queryNorm * docNorm)
	}
	return scores
}

func dot(a, b map[string]float64) float64 {
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for term, weight := range a {
		sum += weight * b[term]
	}
	return sum
}

func norm(vec map[string]float64) float64 {
	sum := 0.0
	for _, weight := range vec {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}
