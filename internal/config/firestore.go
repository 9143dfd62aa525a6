package config

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
)

// NewFirestore opens a Firestore client for project. FIRESTORE_EMULATOR_HOST
// is honored by the client library.
func NewFirestore(ctx context.Context, project string, logger *logrus.Logger) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	logger.Infof("Firestore client created for project %s", project)
	return client, nil
}
