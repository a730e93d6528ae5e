package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "campaignforge-server/modules/common/config"
)

// Gateway - S3 호환 Object Storage 게이트웨이
// 업로드 후 공개 URL ({base}/{bucket}/{key})을 돌려줌
type Gateway struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewGateway - Storage 게이트웨이 생성
func NewGateway(ctx context.Context) (*Gateway, error) {
	conf := cfg.GetConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.S3AccessKey, conf.S3SecretKey, "")),
		awsconfig.WithRegion(conf.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(conf.S3Endpoint)
		o.UsePathStyle = true // R2/minio 호환
	})

	log.Printf("✅ Storage gateway initialized: %s/%s", conf.S3Endpoint, conf.S3Bucket)
	return &Gateway{
		client:        client,
		bucket:        conf.S3Bucket,
		publicBaseURL: strings.TrimRight(conf.S3PublicBaseURL, "/"),
	}, nil
}

// Upload - 바이너리를 key로 저장하고 공개 URL 반환
func (g *Gateway) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	log.Printf("📤 Uploading to storage: %s (%d bytes, %s)", key, len(data), contentType)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := g.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	url := g.PublicURL(key)
	log.Printf("✅ Uploaded: %s", url)
	return url, nil
}

// PublicURL - key의 공개 URL 생성 (결정적: base + bucket + key)
func (g *Gateway) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.publicBaseURL, g.bucket, key)
}
