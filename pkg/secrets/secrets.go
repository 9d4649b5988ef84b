package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// ProviderType enumerates supported secret backends.
type ProviderType string

const (
	ProviderNone ProviderType = ""
	ProviderGCP  ProviderType = "gcp"
	ProviderAWS  ProviderType = "aws"
	ProviderFile ProviderType = "file"
)

// Kind names the dashboard secret a reference resolves.
type Kind string

const (
	KindFirebaseCredentials Kind = "firebase_credentials"
	KindSentryDSN           Kind = "sentry_dsn"
	KindStorageKeys         Kind = "storage_keys"
	KindRedisPassword       Kind = "redis_password"
)

var (
	// ErrProviderNotConfigured is returned when no provider is configured.
	ErrProviderNotConfigured = errors.New("secrets: provider not configured")
	// ErrInvalidReference indicates an empty or malformed reference string.
	ErrInvalidReference = errors.New("secrets: invalid reference")
	// ErrKeyNotFound is returned when a requested key is missing from the payload.
	ErrKeyNotFound = errors.New("secrets: key not found")
)

// Reference points at a secret inside a provider.
type Reference struct {
	Kind     Kind
	Path     string
	Key      string
	Version  string
	Provider ProviderType
}

// CacheKey returns the cache identifier for the reference.
func (r Reference) CacheKey() string {
	key := r.Path
	if r.Version != "" {
		key += "@" + r.Version
	}
	return key
}

// ParseReference parses [provider://]path[@version][#key].
func ParseReference(kind Kind, raw string) (Reference, error) {
	ref := Reference{Kind: kind}

	clean := strings.TrimSpace(raw)
	if idx := strings.Index(clean, "://"); idx > 0 {
		ref.Provider = ProviderType(clean[:idx])
		clean = clean[idx+3:]
	}
	if idx := strings.Index(clean, "#"); idx >= 0 {
		ref.Key = strings.TrimSpace(clean[idx+1:])
		clean = clean[:idx]
	}
	if idx := strings.Index(clean, "@"); idx >= 0 {
		ref.Version = strings.TrimSpace(clean[idx+1:])
		clean = clean[:idx]
	}

	ref.Path = strings.Trim(strings.TrimSpace(clean), "/")
	if ref.Path == "" {
		return ref, fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}
	return ref, nil
}

// Secret is a resolved payload. Plain text payloads are stored under "value".
type Secret struct {
	Data      map[string]string
	Version   string
	FetchedAt time.Time
}

// Value returns a single non-empty entry from the payload.
func (s Secret) Value(key string) (string, bool) {
	val, ok := s.Data[key]
	return val, ok && val != ""
}

// Config selects and tunes the backend.
type Config struct {
	Provider ProviderType
	CacheTTL time.Duration
	GCP      GCPConfig
	AWS      AWSConfig
	File     FileConfig
}

// Provider fetches raw secrets from one backend.
type Provider interface {
	Name() ProviderType
	Fetch(ctx context.Context, ref Reference) (Secret, error)
	Close() error
}

// Resolver resolves references through a provider with an in-memory cache.
type Resolver struct {
	provider Provider
	ttl      time.Duration

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	secret    Secret
	expiresAt time.Time
}

// New builds a Resolver for the configured provider.
func New(ctx context.Context, cfg Config) (*Resolver, error) {
	var (
		prov Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderNone:
		return nil, ErrProviderNotConfigured
	case ProviderGCP:
		prov, err = newGCPProvider(ctx, cfg.GCP)
	case ProviderAWS:
		prov, err = newAWSProvider(ctx, cfg.AWS)
	case ProviderFile:
		prov, err = newFileProvider(cfg.File)
	default:
		err = fmt.Errorf("secrets: unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewResolver(prov, cfg.CacheTTL), nil
}

// NewResolver wraps an existing provider. ttl <= 0 defaults to five minutes.
func NewResolver(prov Provider, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Resolver{provider: prov, ttl: ttl, cache: make(map[string]cachedSecret)}
}

// Close releases the provider.
func (r *Resolver) Close() error {
	return r.provider.Close()
}

// Get returns the whole secret behind ref.
func (r *Resolver) Get(ctx context.Context, ref Reference) (Secret, error) {
	if ref.Provider != ProviderNone && ref.Provider != r.provider.Name() {
		return Secret{}, fmt.Errorf("secrets: reference provider %q does not match %q", ref.Provider, r.provider.Name())
	}

	key := ref.CacheKey()
	r.mu.Lock()
	entry, ok := r.cache[key]
	r.mu.Unlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.secret, nil
	}

	secret, err := r.provider.Fetch(ctx, ref)
	if err != nil {
		logger.WithComponent("secrets").Warn("secret fetch failed",
			zap.String("kind", string(ref.Kind)),
			zap.String("provider", string(r.provider.Name())),
			zap.Error(err))
		return Secret{}, err
	}
	secret.FetchedAt = time.Now().UTC()

	r.mu.Lock()
	r.cache[key] = cachedSecret{secret: secret, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	logger.WithComponent("secrets").Info("secret fetched",
		zap.String("kind", string(ref.Kind)),
		zap.String("provider", string(r.provider.Name())),
		zap.String("version", secret.Version))
	return secret, nil
}

// String returns ref.Key from the secret, or the plain value when ref has no key.
func (r *Resolver) String(ctx context.Context, ref Reference) (string, error) {
	secret, err := r.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	key := ref.Key
	if key == "" {
		key = "value"
	}
	if v, ok := secret.Value(key); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrKeyNotFound, key, ref.Path)
}
