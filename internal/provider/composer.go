package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/carcare/carcarebot/internal"
	"github.com/carcare/carcarebot/internal/classifier"
	"github.com/carcare/carcarebot/internal/dataset"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/guide"
)

// TableLoader returns the current dataset. *dataset.Loader implements it.
type TableLoader interface {
	Load() (*dataset.Table, error)
}

// Predictor maps a query to a service category.
type Predictor interface {
	Predict(ctx context.Context, query string) (string, error)
}

// Composer answers a query from keyword search, the diagnostic classifier
// and the maintenance guide.
type Composer struct {
	loader      TableLoader
	predictor   Predictor
	searchLimit int
}

func NewComposer(loader TableLoader, predictor Predictor, searchLimit int) *Composer {
	return &Composer{loader: loader, predictor: predictor, searchLimit: searchLimit}
}

// Answer reloads the dataset and returns
//
//	<search results>
//
//	Predicted Diagnosis: <label>
//
//	Maintenance Guide:
//	<tip>
func (c *Composer) Answer(ctx context.Context, query string) (string, error) {
	table, err := c.loader.Load()
	if err != nil {
		return "", apperrors.New(apperrors.KindDataset, "compose", err)
	}
	results := dataset.Search(table, query, c.searchLimit)

	label, err := c.predictor.Predict(ctx, query)
	if err != nil {
		return "", apperrors.New(apperrors.KindClassifier, "compose", err)
	}

	var b strings.Builder
	b.WriteString(results)
	fmt.Fprintf(&b, "\n\nPredicted Diagnosis: %s", label)
	b.WriteString("\n\nMaintenance Guide:\n")
	b.WriteString(guide.For(label))
	return b.String(), nil
}

func (c *Composer) Model() string { return classifier.Name }

// Reply implements ChatProvider. Each query is answered on its own; the
// history is ignored.
func (c *Composer) Reply(ctx context.Context, _ []internal.Message, userInput string) (string, error) {
	return c.Answer(ctx, userInput)
}
