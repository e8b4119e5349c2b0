package storage

import (
	"context"
	"fmt"
	"os"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
	// LocalDir and URLPrefix are set for the local driver so the router can
	// serve the files.
	LocalDir  string
	URLPrefix string
}

func FromEnv(ctx context.Context) (FactoryResult, error) {
	return FromLookup(ctx, os.Getenv)
}

func FromLookup(ctx context.Context, getenv func(string) string) (FactoryResult, error) {
	envOr := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}

	switch driver := envOr("STORAGE_DRIVER", "local"); driver {
	case "local":
		baseDir := envOr("LOCAL_UPLOAD_DIR", "./storage/uploads")
		urlPrefix := envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads")
		return FactoryResult{
			Driver:    "local",
			Storage:   NewLocal(baseDir, urlPrefix),
			LocalDir:  baseDir,
			URLPrefix: urlPrefix,
		}, nil

	case "s3":
		cfg := S3Config{
			Region:        envOr("S3_REGION", ""),
			Bucket:        envOr("S3_BUCKET", ""),
			Prefix:        envOr("S3_PREFIX", "articles"),
			PublicBaseURL: envOr("S3_PUBLIC_BASE_URL", ""),
		}
		if cfg.Region == "" || cfg.Bucket == "" || cfg.PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", driver)
	}
}
