// Package classifier predicts a service category for a free-text query with
// a TF-IDF vectorizer and a multinomial Naive Bayes model trained from the
// repair dataset. Trained artifacts are persisted and reused; training only
// happens when the store holds none.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/carcare/carcarebot/internal"
	"github.com/carcare/carcarebot/internal/dataset"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/metrics"
)

// DefaultLabel replaces empty service types in training data.
const DefaultLabel = "general_service"

// Name identifies the model in API responses.
const Name = "tfidf-multinomial-nb"

var ErrEmptyVocabulary = errors.New("empty vocabulary; dataset descriptions contain no words")

// TableSource supplies training data. *dataset.Loader implements it.
type TableSource interface {
	Load() (*dataset.Table, error)
}

type Classifier struct {
	store  ArtifactStore
	source TableSource
	logger logger.Logger

	mu         sync.Mutex
	vectorizer *Vectorizer
	model      *Model
}

func New(store ArtifactStore, source TableSource, log logger.Logger) *Classifier {
	return &Classifier{
		store:  store,
		source: source,
		logger: log.With(map[string]interface{}{"component": "classifier"}),
	}
}

// Ensure makes the artifacts available: loaded from the store when both
// exist, otherwise trained from the dataset and persisted.
func (c *Classifier) Ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureLocked(ctx)
}

func (c *Classifier) ensureLocked(ctx context.Context) error {
	if c.model != nil {
		return nil
	}

	vec, model, err := c.loadArtifacts()
	if err != nil {
		return apperrors.New(apperrors.KindClassifier, "classifier.load", err)
	}
	if vec != nil && model != nil {
		c.logger.Info("classifier artifacts loaded", map[string]interface{}{
			"classes":  len(model.Classes),
			"features": vec.NumFeatures(),
		})
		c.vectorizer, c.model = vec, model
		return nil
	}

	if err := ctx.Err(); err != nil {
		return apperrors.New(apperrors.KindClassifier, "classifier.train", err)
	}
	table, err := c.source.Load()
	if err != nil {
		return apperrors.New(apperrors.KindClassifier, "classifier.train", err)
	}
	vec, model, err = Train(table.Records())
	if err != nil {
		return apperrors.New(apperrors.KindClassifier, "classifier.train", err)
	}
	if err := c.saveArtifacts(vec, model); err != nil {
		return apperrors.New(apperrors.KindClassifier, "classifier.save", err)
	}
	metrics.ClassifierTrainings.Inc()
	c.logger.Info("classifier trained", map[string]interface{}{
		"samples":  table.Len(),
		"classes":  len(model.Classes),
		"features": vec.NumFeatures(),
	})

	c.vectorizer, c.model = vec, model
	return nil
}

// Predict returns the most probable service category for query.
func (c *Classifier) Predict(ctx context.Context, query string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLocked(ctx); err != nil {
		return "", err
	}
	return c.model.Predict(c.vectorizer.Transform(query)), nil
}

// Train fits a vectorizer and model on record descriptions and types.
func Train(records []internal.Record) (*Vectorizer, *Model, error) {
	docs := make([]string, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		docs[i] = r.ServiceDescription
		labels[i] = r.ServiceType
		if labels[i] == "" {
			labels[i] = DefaultLabel
		}
	}

	vec := FitVectorizer(docs)
	if vec.NumFeatures() == 0 {
		return nil, nil, ErrEmptyVocabulary
	}
	X := make([]Vector, len(docs))
	for i, d := range docs {
		X[i] = vec.Transform(d)
	}
	model, err := FitModel(X, labels, vec.NumFeatures())
	if err != nil {
		return nil, nil, err
	}
	return vec, model, nil
}

func (c *Classifier) loadArtifacts() (*Vectorizer, *Model, error) {
	modelBlob, err := c.store.Get(KeyModel)
	if err != nil {
		return nil, nil, err
	}
	vecBlob, err := c.store.Get(KeyVectorizer)
	if err != nil {
		return nil, nil, err
	}
	if modelBlob == nil || vecBlob == nil {
		return nil, nil, nil
	}

	var vec Vectorizer
	if err := json.Unmarshal(vecBlob, &vec); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", KeyVectorizer, err)
	}
	var model Model
	if err := json.Unmarshal(modelBlob, &model); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", KeyModel, err)
	}
	if err := checkShapes(&vec, &model); err != nil {
		return nil, nil, err
	}
	return &vec, &model, nil
}

func checkShapes(vec *Vectorizer, model *Model) error {
	if len(model.Classes) == 0 ||
		len(model.ClassLogPrior) != len(model.Classes) ||
		len(model.FeatureLogProb) != len(model.Classes) {
		return fmt.Errorf("%s: malformed class tables", KeyModel)
	}
	for _, row := range model.FeatureLogProb {
		if len(row) != vec.NumFeatures() {
			return fmt.Errorf("%s does not match %s feature count", KeyModel, KeyVectorizer)
		}
	}
	return nil
}

func (c *Classifier) saveArtifacts(vec *Vectorizer, model *Model) error {
	vecBlob, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyVectorizer, err)
	}
	modelBlob, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyModel, err)
	}
	return c.store.PutAll(map[string][]byte{
		KeyModel:      modelBlob,
		KeyVectorizer: vecBlob,
	})
}
