// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"math"
	"sort"
	"strings"
)

// vocabulary is the frozen term set of one snapshot. Terms map to vector
// dimensions; it is never updated after fitTransform returns.
type vocabulary struct {
	index map[string]int
	terms []string
	idf   []float64
}

// Size returns the number of terms.
func (v *vocabulary) Size() int { return len(v.terms) }

// sparseVector is a movie's feature vector: parallel index/weight slices
// sorted by ascending term index, L2-normalized at build time.
type sparseVector struct {
	indices []int
	weights []float64
}

// isZero reports whether the vector has no non-zero weights.
func (s *sparseVector) isZero() bool { return len(s.indices) == 0 }

// dot computes the dot product of two sorted sparse vectors. For unit
// vectors this is the cosine similarity directly.
func (s *sparseVector) dot(o *sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(s.indices) && j < len(o.indices) {
		switch {
		case s.indices[i] < o.indices[j]:
			i++
		case s.indices[i] > o.indices[j]:
			j++
		default:
			sum += s.weights[i] * o.weights[j]
			i++
			j++
		}
	}
	return sum
}

// tokenize splits a soup into terms: runs of letters and digits at least
// minTokenLen characters long, stop words removed, then unigrams plus
// adjacent bigrams over the filtered sequence.
func tokenize(soup string, minTokenLen int) []string {
	if soup == "" {
		return nil
	}

	fields := strings.FieldsFunc(soup, func(r rune) bool {
		return !isWordRune(r)
	})

	unigrams := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen || isStopWord(f) {
			continue
		}
		unigrams = append(unigrams, f)
	}

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' ||
		r > 127 && (isLetterish(r))
}

// isLetterish keeps non-ASCII letters (accented names survive tokenizing).
func isLetterish(r rune) bool {
	return !strings.ContainsRune(" \t\n\r.,;:!?'\"()[]{}<>/\\|@#$%^&*-_+=~`", r)
}

// fitTransform learns the vocabulary from all soups and produces one sparse
// vector per soup, in input order. The pair is computed together exactly
// once per snapshot build; a frozen vocabulary is never re-fit while a
// similarity index built from it is live.
//
// Vocabulary selection keeps the cfg.MaxFeatures most frequent terms across
// the corpus, ties broken alphabetically. Term weight is raw term frequency
// scaled by smoothed inverse document frequency, then each vector is
// L2-normalized. Returns EmptyCorpus when no soup yields any term.
func fitTransform(soups []string, cfg VectorizerConfig) (*vocabulary, []sparseVector, error) {
	if len(soups) == 0 {
		return nil, nil, &Error{Kind: KindEmptyCorpus, Reason: "no documents to fit"}
	}

	docTerms := make([][]string, len(soups))
	corpusCount := make(map[string]int)
	docFreq := make(map[string]int)
	for i, soup := range soups {
		terms := tokenize(soup, cfg.MinTokenLength)
		docTerms[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			corpusCount[t]++
			seen[t] = struct{}{}
		}
		for t := range seen {
			docFreq[t]++
		}
	}

	if len(corpusCount) == 0 {
		return nil, nil, &Error{Kind: KindEmptyCorpus, Reason: "no terms survive tokenization"}
	}

	terms := make([]string, 0, len(corpusCount))
	for t := range corpusCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(a, b int) bool {
		if corpusCount[terms[a]] != corpusCount[terms[b]] {
			return corpusCount[terms[a]] > corpusCount[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > cfg.MaxFeatures {
		terms = terms[:cfg.MaxFeatures]
	}
	// Dimensions are assigned in alphabetical term order so vector layout
	// is independent of frequency ordering.
	sort.Strings(terms)

	vocab := &vocabulary{
		index: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(soups))
	for i, t := range terms {
		vocab.index[t] = i
		vocab.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	vectors := make([]sparseVector, len(soups))
	for i, terms := range docTerms {
		vectors[i] = vocab.transform(terms)
	}
	return vocab, vectors, nil
}

// transform maps a tokenized document onto the frozen vocabulary.
// Out-of-vocabulary terms are dropped silently.
func (v *vocabulary) transform(terms []string) sparseVector {
	counts := make(map[int]int)
	for _, t := range terms {
		if idx, ok := v.index[t]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return sparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	weights := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		w := float64(counts[idx]) * v.idf[idx]
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range weights {
		weights[i] /= norm
	}

	return sparseVector{indices: indices, weights: weights}
}
