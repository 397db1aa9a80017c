package auditlog

import (
	"context"
	"fmt"

	"github.com/eppproxy/eppproxy/internal/config"
)

// Open builds the Sink named by cfg.Backend ("memory", "badger", "s3").
func Open(ctx context.Context, cfg config.AuditLogConfig) (Sink, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemorySink(), nil
	case "badger":
		return OpenBadgerSink(cfg.BadgerPath)
	case "s3":
		return NewS3Sink(ctx, S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("auditlog: unknown backend %q", cfg.Backend)
	}
}
