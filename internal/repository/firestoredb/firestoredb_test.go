package firestoredb

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/repository/repotest"
	"github.com/stretchr/testify/require"
)

// TestRepositories runs against the emulator in FIRESTORE_EMULATOR_HOST.
func TestRepositories(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "mealmate-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repotest.Run(t, NewRepositories(client))
}

func TestValidID(t *testing.T) {
	require.True(t, validID("abc123"))
	require.False(t, validID(""))
	require.False(t, validID("a/b"))
	require.False(t, validID(".."))
}
