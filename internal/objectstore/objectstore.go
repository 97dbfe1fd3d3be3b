// Package objectstore downloads uploaded resumes from S3 compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "auto"

var ErrNotConfigured = errors.New("object store is not configured")

type Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access-key"`
	SecretKey     string `mapstructure:"secret-key"`
	SecretKeyFile string `mapstructure:"secret-key-file"`
	// MaxObjectBytes rejects objects larger than this many bytes.
	MaxObjectBytes int64 `mapstructure:"max-object-bytes"`
}

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Client struct {
	api      API
	bucket   string
	maxBytes int64
}

// New builds an S3 client with static credentials and path-style addressing,
// which works for R2 and MinIO as well as AWS.
func New(ctx context.Context, cfg Config, secretKey string) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is empty", ErrNotConfigured)
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, secretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return NewWithAPI(api, cfg.Bucket, cfg.MaxObjectBytes), nil
}

func NewWithAPI(api API, bucket string, maxBytes int64) *Client {
	return &Client{api: api, bucket: bucket, maxBytes: maxBytes}
}

// Download returns the object body and its content type.
func (c *Client) Download(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", errors.New("object key is empty")
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("getting object %q: %w", key, err)
	}
	defer out.Body.Close()

	var body io.Reader = out.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(out.Body, c.maxBytes+1)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, "", fmt.Errorf("reading object %q: %w", key, err)
	}

	if c.maxBytes > 0 && int64(buf.Len()) > c.maxBytes {
		return nil, "", fmt.Errorf("object %q exceeds %d bytes", key, c.maxBytes)
	}

	return buf.Bytes(), aws.ToString(out.ContentType), nil
}
