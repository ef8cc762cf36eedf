package photoarchive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// R2Archive stores photos in a Cloudflare R2 bucket. R2 is S3-compatible,
// so the plain S3 SDK works against its endpoint.
type R2Archive struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

func NewR2Archive(cfg Config) (*R2Archive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("photoarchive: endpoint is required for R2")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("photoarchive: bucket is required for R2")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("photoarchive: create R2 session: %w", err)
	}

	return &R2Archive{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
	}, nil
}

func (a *R2Archive) Put(ctx context.Context, key string, image []byte, contentType string) error {
	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("photoarchive: upload to R2: %w", err)
	}
	return nil
}

func (a *R2Archive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := a.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("photoarchive: get from R2: %w", err)
	}
	return result.Body, nil
}

func (a *R2Archive) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("photoarchive: delete from R2: %w", err)
	}
	return nil
}
