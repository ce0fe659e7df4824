package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"imagevault/internal/domain/models"
	"imagevault/internal/domain/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3 or S3-compatible (MinIO) bucket
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // base URL objects are served from
}

// objectAPI is the part of the S3 client the store uses
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores image blobs in an S3 bucket
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
}

var _ services.BlobStore = (*S3Store)(nil)

// NewS3Store creates an S3-backed blob store
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // S3-compatible services expect path-style addressing
		}
	})

	return newS3Store(client, cfg), nil
}

func newS3Store(client objectAPI, cfg S3Config) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}
}

// Upload probes and stores the payload under "<namespace>/<uuid><ext>"
func (s *S3Store) Upload(ctx context.Context, blob *services.BlobUpload) (*models.ExternalRef, error) {
	info, err := Probe(blob.Data)
	if err != nil {
		return nil, err
	}

	key := objectKey(blob.Namespace, blob.Filename)
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "image/" + info.Format
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Bytes),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &models.ExternalRef{
		PublicID: key,
		URL:      s.baseURL + "/" + key,
		Width:    info.Width,
		Height:   info.Height,
		Format:   info.Format,
		Bytes:    info.Bytes,
	}, nil
}

// Delete removes an object by key
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func publicBaseURL(cfg S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}
