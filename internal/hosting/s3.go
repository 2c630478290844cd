package hosting

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"carousel-studio/internal/models"
)

// S3API is the subset of the S3 client the uploader uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores assets in a public bucket and returns object URLs.
type S3Uploader struct {
	client        S3API
	bucket        string
	keyPrefix     string
	publicBaseURL string
}

// NewS3Uploader builds an uploader from the ambient AWS credential chain.
// publicBaseURL overrides the default virtual-hosted object URL, for buckets
// fronted by a CDN.
func NewS3Uploader(ctx context.Context, region, bucket, keyPrefix, publicBaseURL string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Uploader{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		keyPrefix:     strings.Trim(keyPrefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// NewS3UploaderWithClient injects the S3 client directly (tests).
func NewS3UploaderWithClient(client S3API, bucket, keyPrefix, publicBaseURL string) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		keyPrefix:     strings.Trim(keyPrefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (u *S3Uploader) Upload(ctx context.Context, asset models.PublishableAsset) (models.RemoteImageRef, error) {
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	key := fmt.Sprintf("slide-%d-%s.png", asset.Ordinal+1, uuid.NewString())
	if u.keyPrefix != "" {
		key = u.keyPrefix + "/" + key
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(asset.Image),
		ContentType: &contentType,
	})
	if err != nil {
		return models.RemoteImageRef{}, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return models.RemoteImageRef{PublicURL: u.publicBaseURL + "/" + key}, nil
}
