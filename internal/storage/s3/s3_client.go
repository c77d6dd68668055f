package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"claimscan/internal/config"
	"claimscan/internal/domain"
	"claimscan/internal/port"
)

const scheme = "s3://"

type s3Client struct {
	client   *s3.Client
	bucket   string
	maxBytes int64
}

// NewS3Client creates a TextSource that reads pre-extracted text objects from S3.
// Objects larger than maxBytes are rejected; maxBytes <= 0 disables the limit.
func NewS3Client(cfg *config.S3Config, maxBytes int64) (port.TextSource, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &s3Client{
		client:   s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:   cfg.Bucket,
		maxBytes: maxBytes,
	}, nil
}

// ExtractText downloads the object at path, either s3://bucket/key or a key in
// the configured bucket.
func (c *s3Client) ExtractText(ctx context.Context, path string) (*port.TextDocument, error) {
	bucket, key, err := c.locate(path)
	if err != nil {
		return nil, err
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	defer result.Body.Close()

	if c.maxBytes > 0 && aws.ToInt64(result.ContentLength) > c.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d",
			domain.ErrTextTooLarge, path, aws.ToInt64(result.ContentLength), c.maxBytes)
	}
	data, err := port.ReadLimited(result.Body, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("s3 download read: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, path)
	}

	text := string(data)
	meta := map[string]string{
		"source": "s3",
		"bucket": bucket,
		"key":    key,
		"bytes":  strconv.Itoa(len(data)),
	}
	if result.ETag != nil {
		meta["etag"] = *result.ETag
	}
	for k, v := range result.Metadata {
		meta["x-amz-meta-"+k] = v
	}

	pages := strings.Count(text, "\f") + 1
	if n, err := strconv.Atoi(result.Metadata["page-count"]); err == nil && n > 0 {
		pages = n
	}

	return &port.TextDocument{Text: text, PageCount: pages, Metadata: meta}, nil
}

// Ping checks that the configured bucket is reachable.
func (c *s3Client) Ping(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}

func (c *s3Client) locate(path string) (bucket, key string, err error) {
	path = strings.TrimSpace(path)
	if rest, ok := strings.CutPrefix(path, scheme); ok {
		bucket, key, _ = strings.Cut(rest, "/")
	} else {
		bucket, key = c.bucket, strings.TrimPrefix(path, "/")
	}
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q is not an s3 object reference", domain.ErrInvalidInput, path)
	}
	return bucket, key, nil
}
