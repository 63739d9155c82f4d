package calllogs

import (
	"context"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"

	"github.com/outboundhq/dialer/internal/config"
)

// Module provides the call-log repository shared by the Event
// Reconciler, the Inbound Call Router, and the scheduled stale-log sweep,
// plus the optional S3-backed RecordingChecker.
var Module = fx.Module("calllogs",
	fx.Provide(
		NewRepository,
		NewS3Client,
		NewRecordingCheckerFromConfig,
	),
)

// NewS3Client builds an AWS SDK v2 S3 client from the ambient credential
// chain (env vars, shared config, instance role). Returns nil when no
// recordings bucket is configured, so the checker built from it is simply
// disabled rather than erroring at startup.
func NewS3Client(ctx context.Context, cfg *config.Config, log *slog.Logger) (*s3.Client, error) {
	if !cfg.Storage.Configured() {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// NewRecordingCheckerFromConfig wires the RecordingChecker to the
// configured recordings bucket.
func NewRecordingCheckerFromConfig(s3Client *s3.Client, cfg *config.Config, repo *Repository, log *slog.Logger) *RecordingChecker {
	return NewRecordingChecker(s3Client, cfg.Storage.RecordingsBucket, repo, log)
}
