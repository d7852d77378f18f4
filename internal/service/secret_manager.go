package service

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretResolver reads secret material at startup. The payment gateway key
// is resolved through it when it is not supplied directly by env.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerResolver struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerResolver creates a SecretResolver backed by GCP Secret
// Manager.
func NewSecretManagerResolver(ctx context.Context, projectID string) (SecretResolver, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerResolver{client: client, projectID: projectID}, nil
}

// Resolve fetches the latest version of the named secret.
func (s *secretManagerResolver) Resolve(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version %s: %w", name, err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerResolver) Close() error {
	return s.client.Close()
}
