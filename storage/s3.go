// Package storage uploads user files to S3 and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	clientOnce sync.Once
	client     *s3.Client
	initErr    error
)

func getClient(ctx context.Context) (*s3.Client, error) {
	clientOnce.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			initErr = err
			return
		}
		client = s3.NewFromConfig(cfg)
	})
	return client, initErr
}

// UploadFile puts the object under the configured bucket and returns the
// URL it will be served from.
func UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	cli, err := getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET not configured")
	}

	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := cli.PutObject(ctx, input); err != nil {
		return "", err
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}
