package generator

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `{
  "title": "Egg Fried Rice",
  "description": "A quick weeknight fried rice.",
  "cookingTime": "20 minutes",
  "servings": "2 servings",
  "ingredients": ["2 eggs", "1 cup rice"],
  "instructions": ["Scramble the eggs.", "Fry the rice."],
  "nutritionInfo": {"calories": "450", "protein": "15g", "carbs": "60g", "fat": "12g"}
}`

type fakeCompleter struct {
	text   string
	err    error
	system string
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.text, f.err
}

type fakeImages struct {
	url   *string
	err   error
	panic bool
	query string
}

func (f *fakeImages) SearchImage(_ context.Context, query string) (*string, error) {
	f.query = query
	if f.panic {
		panic("boom")
	}
	return f.url, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func strPtr(s string) *string { return &s }

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name      string
		completer *fakeCompleter
		images    *fakeImages
		check     func(t *testing.T, recipe *models.GeneratedRecipe, err error)
	}{
		{
			name:      "OK with image",
			completer: &fakeCompleter{text: validRecipeJSON},
			images:    &fakeImages{url: strPtr("https://images.example/small.jpg")},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.NoError(t, err)
				require.Equal(t, "Egg Fried Rice", recipe.Title)
				require.Len(t, recipe.Ingredients, 2)
				require.Len(t, recipe.Instructions, 2)
				require.Equal(t, "450", recipe.NutritionInfo.Calories)
				require.NotNil(t, recipe.Image)
				require.Equal(t, "https://images.example/small.jpg", *recipe.Image)
			},
		},
		{
			name:      "No image results",
			completer: &fakeCompleter{text: validRecipeJSON},
			images:    &fakeImages{},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.NoError(t, err)
				require.Nil(t, recipe.Image)
			},
		},
		{
			name:      "Image lookup error is swallowed",
			completer: &fakeCompleter{text: validRecipeJSON},
			images:    &fakeImages{err: errors.New("rate limited")},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.NoError(t, err)
				require.Nil(t, recipe.Image)
			},
		},
		{
			name:      "Image lookup panic is swallowed",
			completer: &fakeCompleter{text: validRecipeJSON},
			images:    &fakeImages{panic: true},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.NoError(t, err)
				require.Nil(t, recipe.Image)
			},
		},
		{
			name:      "Completion error",
			completer: &fakeCompleter{err: errors.New("quota exceeded")},
			images:    &fakeImages{url: strPtr("unused")},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "quota exceeded")
				require.Nil(t, recipe)
			},
		},
		{
			name:      "Malformed output",
			completer: &fakeCompleter{text: "Sure! Here is a recipe."},
			images:    &fakeImages{},
			check: func(t *testing.T, recipe *models.GeneratedRecipe, err error) {
				require.ErrorIs(t, err, ErrMalformedOutput)
				require.Nil(t, recipe)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(tc.completer, tc.images, quietLogger())
			recipe, err := g.Generate(context.Background(), models.GenerationRequest{Ingredients: "eggs, rice"})
			tc.check(t, recipe, err)
		})
	}
}

func TestGenerateSearchesByTitle(t *testing.T) {
	images := &fakeImages{}
	g := New(&fakeCompleter{text: validRecipeJSON}, images, quietLogger())

	_, err := g.Generate(context.Background(), models.GenerationRequest{Ingredients: "eggs"})
	require.NoError(t, err)
	require.Equal(t, "Egg Fried Rice", images.query)
}

func TestGenerateWithoutImageSearcher(t *testing.T) {
	g := New(&fakeCompleter{text: validRecipeJSON}, nil, quietLogger())

	recipe, err := g.Generate(context.Background(), models.GenerationRequest{Ingredients: "eggs"})
	require.NoError(t, err)
	require.Nil(t, recipe.Image)
}

func TestParseRecipe(t *testing.T) {
	t.Run("Fenced", func(t *testing.T) {
		recipe, err := ParseRecipe("```json\n" + validRecipeJSON + "\n```")
		require.NoError(t, err)
		require.Equal(t, "Egg Fried Rice", recipe.Title)
	})

	t.Run("Model supplied image is dropped", func(t *testing.T) {
		text := strings.Replace(validRecipeJSON, `"title"`, `"image": "https://x/y.jpg", "title"`, 1)
		recipe, err := ParseRecipe(text)
		require.NoError(t, err)
		require.Nil(t, recipe.Image)
	})

	for name, text := range map[string]string{
		"Missing title":        strings.Replace(validRecipeJSON, `"Egg Fried Rice"`, `"  "`, 1),
		"Missing ingredients":  strings.Replace(validRecipeJSON, `["2 eggs", "1 cup rice"]`, `[]`, 1),
		"Missing instructions": strings.Replace(validRecipeJSON, `["Scramble the eggs.", "Fry the rice."]`, `[]`, 1),
		"Not JSON":             "{",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecipe(text)
			require.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("Only ingredients", func(t *testing.T) {
		req := models.GenerationRequest{Ingredients: " chicken, rice "}
		require.Equal(t, "none", Preferences(req))

		prompt := BuildPrompt(req)
		require.Contains(t, prompt, "using these ingredients: chicken, rice.")
		require.Contains(t, prompt, "Preferences: none.")
		require.Contains(t, prompt, `"nutritionInfo"`)
	})

	t.Run("All preferences", func(t *testing.T) {
		req := models.GenerationRequest{
			Ingredients: "tofu",
			Dietary:     "vegan",
			Cuisine:     "Thai",
			CookingTime: "30",
			Servings:    "4",
		}
		require.Equal(t,
			"Dietary: vegan, Cuisine: Thai, Cooking Time: around 30 minutes, Servings: 4 people",
			Preferences(req))
	})

	t.Run("Unset preferences are omitted", func(t *testing.T) {
		req := models.GenerationRequest{Ingredients: "tofu", Cuisine: "Thai", Servings: "2"}
		require.Equal(t, "Cuisine: Thai, Servings: 2 people", Preferences(req))
	})
}
