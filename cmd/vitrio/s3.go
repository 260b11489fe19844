package main

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vitrio"
	verrors "github.com/vango-dev/vitrio/internal/errors"
	"github.com/vango-dev/vitrio/pkg/assets"
)

// newS3Store opens the configured bucket with the default AWS credential
// chain.
func newS3Store(ctx context.Context, cfg vitrio.AssetsConfig) (assets.Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, verrors.Wrap("V301", err).WithDetail("bucket %q", cfg.Bucket)
	}
	return assets.NewS3Store(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}
