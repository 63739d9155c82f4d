package calllogs

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/outboundhq/dialer/pkg/logger"
)

// RecordingChecker probes whether a call-recording object exists in the
// configured S3 bucket and enriches the call log's metadata with the
// result. It is a cheap reference check, not a storage layer: the object
// itself is never downloaded or retained.
type RecordingChecker struct {
	s3     *s3.Client
	bucket string
	repo   *Repository
	log    *slog.Logger
}

// NewRecordingChecker builds a RecordingChecker. A blank bucket disables it.
func NewRecordingChecker(s3Client *s3.Client, bucket string, repo *Repository, log *slog.Logger) *RecordingChecker {
	return &RecordingChecker{
		s3:     s3Client,
		bucket: bucket,
		repo:   repo,
		log:    log.With(logger.Scope("calllogs.recording")),
	}
}

// Enabled reports whether a recordings bucket is configured.
func (r *RecordingChecker) Enabled() bool {
	return r != nil && r.bucket != ""
}

// Check HEADs the object named by recordingKey and patches the call log's
// metadata with `recordingAvailable`: true if the HEAD succeeded, false
// otherwise. Failures are logged
// and swallowed: a missing/failed recording-reference check must never
// block the fabric event-handling path that calls it.
func (r *RecordingChecker) Check(ctx context.Context, callLogID, recordingKey string) {
	if !r.Enabled() || recordingKey == "" {
		return
	}

	_, err := r.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(recordingKey),
	})
	available := err == nil
	if err != nil {
		r.log.Debug("recording not found", slog.String("key", recordingKey), logger.Error(err))
	}

	if patchErr := r.repo.AppendMetadata(ctx, callLogID, map[string]any{"recordingAvailable": available}); patchErr != nil {
		r.log.Warn("failed to patch call log metadata", logger.Error(patchErr))
	}
}
