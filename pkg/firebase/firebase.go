package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/richxcame/devcert-dashboard/pkg/config"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Clients bundles the Firebase services the dashboard talks to
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewClients initializes the Firebase app and its Auth and Firestore clients.
// Credentials come from CredentialsJSON, then CredentialsPath; neither falls back to application default credentials,
// which also covers FIRESTORE_EMULATOR_HOST.
func NewClients(ctx context.Context, cfg config.FirebaseConfig) (*Clients, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore: %w", err)
	}

	logger.Info("Firebase initialized", zap.String("project_id", cfg.ProjectID))

	return &Clients{Auth: authClient, Firestore: fsClient}, nil
}

// Close releases the Firestore connection
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// IsNotFound reports whether a Firestore error means the document is missing
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// IsRetryable reports whether a Firestore error is worth retrying
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return true
	default:
		return false
	}
}
