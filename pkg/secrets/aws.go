package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// AWSConfig configures AWS Secrets Manager, typically next to the S3 archive bucket.
type AWSConfig struct {
	Region   string
	Endpoint string
}

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type awsProvider struct {
	client secretsManagerAPI
}

func newAWSProvider(ctx context.Context, cfg AWSConfig) (Provider, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("secrets: aws provider requires region")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to load aws config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &awsProvider{client: client}, nil
}

func (a *awsProvider) Name() ProviderType { return ProviderAWS }

func (a *awsProvider) Close() error { return nil }

func (a *awsProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	input := &secretsmanager.GetSecretValueInput{SecretId: aws.String(ref.Path)}
	if ref.Version != "" {
		input.VersionId = aws.String(ref.Version)
	}

	out, err := a.client.GetSecretValue(ctx, input)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: aws fetch failed for %s: %w", ref.Path, err)
	}

	raw := out.SecretBinary
	if out.SecretString != nil {
		raw = []byte(aws.ToString(out.SecretString))
	}
	return Secret{Data: decodePayload(raw), Version: aws.ToString(out.VersionId)}, nil
}
