package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreferenceUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  GenerationRequest
		err   bool
	}{
		{
			name:  "strings",
			input: `{"ingredients":"rice, beans","cookingTime":"30","servings":"4"}`,
			want:  GenerationRequest{Ingredients: "rice, beans", CookingTime: "30", Servings: "4"},
		},
		{
			name:  "numbers",
			input: `{"ingredients":"rice","cookingTime":30,"servings":2.5}`,
			want:  GenerationRequest{Ingredients: "rice", CookingTime: "30", Servings: "2.5"},
		},
		{
			name:  "null",
			input: `{"ingredients":"rice","dietary":null}`,
			want:  GenerationRequest{Ingredients: "rice"},
		},
		{
			name:  "array rejected",
			input: `{"ingredients":["rice"]}`,
			err:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got GenerationRequest
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRecipeSourceValid(t *testing.T) {
	require.True(t, RecipeSourceAI.Valid())
	require.True(t, RecipeSourceUser.Valid())
	require.False(t, RecipeSource("").Valid())
	require.False(t, RecipeSource("ai").Valid())
}

func TestUserPublic(t *testing.T) {
	u := &User{ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hash")

	require.Equal(t, PublicUser{ID: "u1", Name: "Alice", Email: "alice@example.com"}, u.Public())
}

func TestGeneratedRecipeImageNull(t *testing.T) {
	data, err := json.Marshal(GeneratedRecipe{Title: "Soup"})
	require.NoError(t, err)
	require.Contains(t, string(data), `"image":null`)
}
