// Package generator turns free-text preferences into recipe drafts using a
// language model, with an optional photo lookup.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/metrics"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrMalformedOutput is returned when the model answer is not a usable recipe
var ErrMalformedOutput = errors.New("malformed model output")

// Completer sends a prompt to a language model and returns its raw JSON text
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ImageSearcher finds a photo for a search term. A nil URL with a nil error
// means nothing matched.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (*string, error)
}

// Generator builds recipe drafts. It keeps no state between calls.
type Generator struct {
	completer Completer
	images    ImageSearcher
	logger    *logrus.Logger
}

// New creates a Generator. images may be nil to skip enrichment.
func New(completer Completer, images ImageSearcher, logger *logrus.Logger) *Generator {
	return &Generator{completer: completer, images: images, logger: logger}
}

// Generate asks the model for a recipe and attaches an image when one can be
// found. Only the model call can fail the request.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) (*models.GeneratedRecipe, error) {
	text, err := g.completer.Complete(ctx, systemInstruction, BuildPrompt(req))
	if err != nil {
		metrics.Generations.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	recipe, err := ParseRecipe(text)
	if err != nil {
		metrics.Generations.WithLabelValues("malformed").Inc()
		return nil, err
	}
	metrics.Generations.WithLabelValues("ok").Inc()

	recipe.Image = g.findImage(ctx, recipe.Title)
	return recipe, nil
}

// findImage never fails: errors and panics from the searcher are logged and
// turn into a nil image.
func (g *Generator) findImage(ctx context.Context, title string) (image *string) {
	if g.images == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Errorf("Panic in image lookup for %q: %v", title, r)
			metrics.ImageLookups.WithLabelValues("error").Inc()
			image = nil
		}
	}()

	url, err := g.images.SearchImage(ctx, title)
	switch {
	case err != nil:
		g.logger.WithError(err).WithField("title", title).Warn("image lookup failed")
		metrics.ImageLookups.WithLabelValues("error").Inc()
		return nil
	case url == nil || *url == "":
		metrics.ImageLookups.WithLabelValues("none").Inc()
		return nil
	default:
		metrics.ImageLookups.WithLabelValues("found").Inc()
		return url
	}
}

// ParseRecipe decodes model output. A surrounding Markdown code fence is
// tolerated. The title, ingredients and instructions must be present.
func ParseRecipe(text string) (*models.GeneratedRecipe, error) {
	text = stripFence(text)

	var recipe models.GeneratedRecipe
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	recipe.Title = strings.TrimSpace(recipe.Title)
	switch {
	case recipe.Title == "":
		return nil, fmt.Errorf("%w: missing title", ErrMalformedOutput)
	case len(recipe.Ingredients) == 0:
		return nil, fmt.Errorf("%w: missing ingredients", ErrMalformedOutput)
	case len(recipe.Instructions) == 0:
		return nil, fmt.Errorf("%w: missing instructions", ErrMalformedOutput)
	}

	// Image comes from the lookup only.
	recipe.Image = nil
	return &recipe, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
