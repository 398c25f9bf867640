package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/distributor/backend/internal/infrastructure/config"
)

// New returns the FileStorage selected by cfg.Type.
func New(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (FileStorage, error) {
	switch cfg.Type {
	case "", "local":
		s, err := NewLocalStorage(cfg.Root)
		if err != nil {
			return nil, err
		}
		log.Info("Using local attachment storage", zap.String("root", s.Root()))
		return s, nil
	case "s3":
		s, err := NewS3Storage(ctx, &cfg.S3, WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			// Uploads will fail until the bucket is reachable; startup continues.
			log.Warn("Attachment bucket is not available", zap.String("bucket", s.Bucket()), zap.Error(err))
		}
		log.Info("Using S3 attachment storage", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unsupported type %q", cfg.Type)
	}
}
