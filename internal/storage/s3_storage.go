// Package storage holds product imagery in S3. Uploads go browser-direct
// through pre-signed PUT URLs; the API never proxies image bytes.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/greenbean/storefront-backend/config"
)

const (
	imageFolder   = "products"
	presignExpiry = 15 * time.Minute
	MaxImageBytes = 5 * 1024 * 1024
)

// AllowedImageTypes is the accepted upload content types.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ImageStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewImageStorage(cfg config.S3Config) *ImageStorage {
	var awsCfg aws.Config
	var err error

	// Static credentials when configured, default chain otherwise.
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &ImageStorage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
	}
}

// PresignProductImage returns a short-lived PUT URL for a product image
// plus the durable URL to store on the product row.
func (s *ImageStorage) PresignProductImage(sku, filename, contentType string) (*PresignedUpload, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s/%s%s", imageFolder, sku, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedUpload{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ValidateFileSize rejects oversized uploads before presigning.
func (s *ImageStorage) ValidateFileSize(size int64) error {
	if size > MaxImageBytes {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", MaxImageBytes)
	}
	return nil
}

// ValidateContentType restricts uploads to the image types the shop serves.
func (s *ImageStorage) ValidateContentType(contentType string) error {
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
