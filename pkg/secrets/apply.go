package secrets

import (
	"context"
	"fmt"

	"github.com/richxcame/devcert-dashboard/pkg/config"
)

// Apply resolves every reference set in cfg.Secrets and writes the values
// over the matching config fields. Empty references are skipped.
func Apply(ctx context.Context, r *Resolver, cfg *config.Config) error {
	refs := cfg.Secrets

	if err := resolveInto(ctx, r, KindFirebaseCredentials, refs.FirebaseCredentialsRef, &cfg.Firebase.CredentialsJSON); err != nil {
		return err
	}
	if err := resolveInto(ctx, r, KindSentryDSN, refs.SentryDSNRef, &cfg.Sentry.DSN); err != nil {
		return err
	}
	if err := resolveInto(ctx, r, KindRedisPassword, refs.RedisPasswordRef, &cfg.Redis.Password); err != nil {
		return err
	}

	if refs.StorageKeysRef == "" {
		return nil
	}
	ref, err := ParseReference(KindStorageKeys, refs.StorageKeysRef)
	if err != nil {
		return err
	}
	secret, err := r.Get(ctx, ref)
	if err != nil {
		return err
	}
	access, okA := secret.Value("access_key")
	key, okS := secret.Value("secret_key")
	if !okA || !okS {
		return fmt.Errorf("%w: storage keys need access_key and secret_key", ErrKeyNotFound)
	}
	cfg.Storage.AccessKey = access
	cfg.Storage.SecretKey = key
	return nil
}

func resolveInto(ctx context.Context, r *Resolver, kind Kind, raw string, dst *string) error {
	if raw == "" {
		return nil
	}
	ref, err := ParseReference(kind, raw)
	if err != nil {
		return err
	}
	val, err := r.String(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", kind, err)
	}
	*dst = val
	return nil
}

// FromConfig maps the environment driven settings onto a resolver Config.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Provider: ProviderType(cfg.Secrets.Provider),
		CacheTTL: cfg.Secrets.CacheTTL,
		GCP: GCPConfig{
			ProjectID:       firstNonEmpty(cfg.Secrets.GCPProject, cfg.Firebase.ProjectID),
			CredentialsFile: cfg.Firebase.CredentialsPath,
		},
		AWS: AWSConfig{
			Region:   firstNonEmpty(cfg.Secrets.AWSRegion, cfg.Storage.Region),
			Endpoint: cfg.Secrets.AWSEndpoint,
		},
		File: FileConfig{Dir: cfg.Secrets.FileDir},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
