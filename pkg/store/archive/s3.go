package archive

import (
	"context"
	"fmt"
	"os"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// PutObjectAPI is the subset of the S3 client used for archiving
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads report files to a bucket
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Archiver(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// LoadClient builds an S3 client from the default AWS credential chain,
// optionally using a named shared-config profile.
func LoadClient(ctx context.Context, region, profile string) (*s3.Client, error) {
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func (a *S3Archiver) Archive(ctx context.Context, key string, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", filePath).Msg("failed to close report file")
		}
	}()

	objectKey := a.Key(key)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(a.bucket),
		Key:         awssdk.String(objectKey),
		Body:        f,
		ContentType: awssdk.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", objectKey, a.bucket, err)
	}
	return nil
}

// Key returns the full object key for a report key
func (a *S3Archiver) Key(key string) string {
	if a.prefix == "" {
		return key
	}
	return path.Join(a.prefix, key)
}
