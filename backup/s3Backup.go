package backup

import (
	"MediIntake/database"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backup copies every collection of a record store into a bucket.
type S3Backup struct {
	client objectPutter
	store  *database.RecordStore
	bucket string
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	opts := []func(*awscfg.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awscfg.WithRegion(region))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
		UsePathStyle: true,
	}), nil
}

func NewS3Backup(client objectPutter, store *database.RecordStore, bucket, prefix string, logger zerolog.Logger) (*S3Backup, error) {
	if bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}
	return &S3Backup{
		client: client,
		store:  store,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Run uploads one object per collection under <prefix>/<timestamp>/ and
// returns the written keys. Each collection is read under its own lock, so
// every object is a consistent snapshot of that collection.
func (b *S3Backup) Run(ctx context.Context, collections []string) ([]string, error) {
	stamp := b.now().UTC().Format("20060102T150405Z")
	keys := make([]string, 0, len(collections))

	for _, collection := range collections {
		records, err := b.store.ReadAll(collection)
		if err != nil {
			return keys, fmt.Errorf("failed to read collection %s: %w", collection, err)
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return keys, fmt.Errorf("failed to encode collection %s: %w", collection, err)
		}

		key := path.Join(b.prefix, stamp, collection+".json")
		_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(b.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}

		b.logger.Info().Str("collection", collection).Str("key", key).Int("records", len(records)).Msg("collection backed up")
		keys = append(keys, key)
	}
	return keys, nil
}
