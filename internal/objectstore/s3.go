// Package objectstore uploads exported documents to S3-compatible storage
// (AWS S3, Cloudflare R2, MinIO).
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when no region is configured. R2 accepts "auto".
const DefaultRegion = "us-east-1"

// Config describes the bucket to upload to.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint for S3-compatible services; empty for AWS
	AccessKey string // empty uses the default AWS credential chain
	SecretKey string
	Prefix    string // key prefix, e.g. "exports/"
}

// ConfigFromEnv reads S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY_ID,
// S3_SECRET_ACCESS_KEY and S3_PREFIX.
func ConfigFromEnv() Config {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = DefaultRegion
	}
	return Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    region,
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Prefix:    os.Getenv("S3_PREFIX"),
	}
}

// ErrNoBucket is returned when uploads are requested without a bucket.
var ErrNoBucket = errors.New("no S3 bucket configured")

// api is the subset of *s3.Client used here.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store reads and writes objects in one bucket.
type Store struct {
	client api
	bucket string
	prefix string
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrNoBucket
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newStore(client, cfg.Bucket, cfg.Prefix), nil
}

func newStore(client api, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Put uploads data under name and returns its s3:// URI.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := s.key(name)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Get downloads the object stored under name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ObjectName builds a file name from a resume title, e.g. "Backend Resume" + "pdf"
// gives "backend-resume.pdf".
func ObjectName(title, ext string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "resume"
	}
	return slug + "." + strings.TrimPrefix(ext, ".")
}

// ContentType maps an export extension to its MIME type.
func ContentType(ext string) string {
	switch strings.TrimPrefix(ext, ".") {
	case "pdf":
		return "application/pdf"
	case "html":
		return "text/html; charset=utf-8"
	case "txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
