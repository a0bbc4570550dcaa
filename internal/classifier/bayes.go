package classifier

import (
	"errors"
	"math"
	"sort"
)

// Alpha is the additive (Laplace) smoothing parameter.
const Alpha = 1.0

// Model is a multinomial Naive Bayes classifier over Vectorizer features.
type Model struct {
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// FitModel trains on rows X with labels y. Classes are sorted.
func FitModel(X []Vector, y []string, numFeatures int) (*Model, error) {
	if len(X) != len(y) {
		return nil, errors.New("samples and labels differ in length")
	}
	if len(X) == 0 {
		return nil, errors.New("no training samples")
	}

	classIdx := make(map[string]int)
	for _, label := range y {
		classIdx[label] = 0
	}
	classes := make([]string, 0, len(classIdx))
	for label := range classIdx {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIdx[c] = i
	}

	classCount := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, numFeatures)
	}
	for i, x := range X {
		c := classIdx[y[i]]
		classCount[c]++
		for j, w := range x {
			featureCount[c][j] += w
		}
	}

	m := &Model{
		Classes:        classes,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][]float64, len(classes)),
	}
	logTotal := math.Log(float64(len(X)))
	for c := range classes {
		m.ClassLogPrior[c] = math.Log(classCount[c]) - logTotal

		var smoothedTotal float64
		for _, fc := range featureCount[c] {
			smoothedTotal += fc + Alpha
		}
		logTotalC := math.Log(smoothedTotal)
		m.FeatureLogProb[c] = make([]float64, numFeatures)
		for j, fc := range featureCount[c] {
			m.FeatureLogProb[c][j] = math.Log(fc+Alpha) - logTotalC
		}
	}
	return m, nil
}

// Predict returns the class with the highest joint log likelihood; ties go
// to the earliest class.
func (m *Model) Predict(x Vector) string {
	best, bestScore := 0, math.Inf(-1)
	for c := range m.Classes {
		score := m.ClassLogPrior[c]
		for j, w := range x {
			if j < len(m.FeatureLogProb[c]) {
				score += w * m.FeatureLogProb[c][j]
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return m.Classes[best]
}
