package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appconfig "github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const (
	// Objects above this size go through a multipart upload.
	multipartThreshold = 64 * 1024 * 1024
	partSize           = 16 * 1024 * 1024
)

type S3Storage struct {
	client     *s3.Client
	bucketName string
}

func (s *S3Storage) BucketName() string {
	return s.bucketName
}

func NewS3Storage(ctx context.Context, cfg *appconfig.S3Config) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	// Without static keys the default chain (env, shared config, IAM role) applies.
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client

	// Custom endpoints (LocalStack, MinIO) need path-style addressing
	if cfg.EndpointURL != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// Ping checks that the bucket exists and is reachable with the configured
// credentials.
func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucketName, err)
	}
	return nil
}

// Upload stores body under key. Small objects use a single PUT streamed from
// body; larger ones are split into parts so memory stays bounded by partSize.
func (s *S3Storage) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error {
	if size > multipartThreshold {
		return s.uploadMultipart(ctx, key, body, contentType, metadata)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata:      metadata,
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *S3Storage) uploadMultipart(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	uploadID, err := s.initiateMultipartUpload(ctx, key, contentType, metadata)
	if err != nil {
		return err
	}

	var parts []CompletedPart
	buf := make([]byte, partSize)
	for partNumber := int32(1); ; partNumber++ {
		n, readErr := io.ReadFull(body, buf)
		if n > 0 {
			part, err := s.uploadPart(ctx, key, uploadID, partNumber, buf[:n])
			if err != nil {
				s.abortMultipartUpload(ctx, key, uploadID)
				return err
			}
			parts = append(parts, *part)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			s.abortMultipartUpload(ctx, key, uploadID)
			return fmt.Errorf("failed to read data: %w", readErr)
		}
	}

	if err := s.completeMultipartUpload(ctx, key, uploadID, parts); err != nil {
		s.abortMultipartUpload(ctx, key, uploadID)
		return err
	}
	return nil
}

func (s *S3Storage) initiateMultipartUpload(ctx context.Context, key string, contentType string, metadata map[string]string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	}

	result, err := s.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to initiate multipart upload: %w", err)
	}

	return aws.ToString(result.UploadId), nil
}

func (s *S3Storage) uploadPart(ctx context.Context, key string, uploadID string, partNumber int32, data []byte) (*CompletedPart, error) {
	input := &s3.UploadPartInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	result, err := s.client.UploadPart(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to upload part %d: %w", partNumber, err)
	}

	return &CompletedPart{
		ETag:       result.ETag,
		PartNumber: aws.Int32(partNumber),
	}, nil
}

func (s *S3Storage) completeMultipartUpload(ctx context.Context, key string, uploadID string, parts []CompletedPart) error {
	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(s.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: convertToS3Parts(parts),
		},
	}

	_, err := s.client.CompleteMultipartUpload(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}

	return nil
}

// abortMultipartUpload runs on a fresh context so an upload interrupted by a
// cancelled request is still cleaned up.
func (s *S3Storage) abortMultipartUpload(ctx context.Context, key string, uploadID string) {
	abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}

	if _, err := s.client.AbortMultipartUpload(abortCtx, input); err != nil {
		utils.LogError(ctx, "Failed to abort multipart upload", err, utils.Fields{
			"key":       key,
			"upload_id": uploadID,
		})
	}
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	// Some S3-compatible stores answer NoSuchKey for a missing object.
	_, err := s.client.DeleteObject(ctx, input)
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

func (s *S3Storage) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	presignResult, err := presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignResult.URL, nil
}

func convertToS3Parts(parts []CompletedPart) []types.CompletedPart {
	s3Parts := make([]types.CompletedPart, len(parts))
	for i, part := range parts {
		s3Parts[i] = types.CompletedPart{
			ETag:       part.ETag,
			PartNumber: part.PartNumber,
		}
	}
	return s3Parts
}

// isNotFoundError reports whether err is S3's answer for a missing key.
// Responses without a body only carry a bare "NotFound" code.
func isNotFoundError(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
