package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases text and returns word runs of two or more characters.
func Tokenize(text string) []string {
	runs := wordRun.FindAllString(strings.ToLower(text), -1)
	out := runs[:0]
	for _, r := range runs {
		if utf8.RuneCountInString(r) >= 2 {
			out = append(out, r)
		}
	}
	return out
}

// Vector is a sparse row keyed by feature index.
type Vector map[int]float64

// Vectorizer maps text to L2-normalized TF-IDF vectors.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// FitVectorizer learns the vocabulary (sorted) and smoothed IDF weights.
func FitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(d) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// NumFeatures is the vocabulary size.
func (v *Vectorizer) NumFeatures() int { return len(v.IDF) }

// Transform vectorizes one document. Unknown terms are dropped.
func (v *Vectorizer) Transform(doc string) Vector {
	vec := make(Vector)
	for _, tok := range Tokenize(doc) {
		if j, ok := v.Vocabulary[tok]; ok {
			vec[j]++
		}
	}
	var norm float64
	for j, tf := range vec {
		w := tf * v.IDF[j]
		vec[j] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for j := range vec {
		vec[j] /= norm
	}
	return vec
}
