package firebase

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// NewApp initializes the Admin SDK. The same client options are reused for
// the storage client so both talk to the project as one service account.
func NewApp(ctx context.Context, projectID, bucketName string, opts ...option.ClientOption) (*fbapp.App, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     projectID,
		StorageBucket: bucketName,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return app, nil
}

// CredentialOptions resolves service-account credentials: a base64-encoded
// JSON key takes precedence over a key file path. With neither set, nil is
// returned and the SDKs fall back to application default credentials.
func CredentialOptions(base64JSON, path string) ([]option.ClientOption, error) {
	if base64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(base64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode service account: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(data)}, nil
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", path, err)
		}
		return []option.ClientOption{option.WithCredentialsFile(path)}, nil
	}

	return nil, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
