package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/log"
)

const maxImageBytes = 5 << 20

// ImageService stores recipe images uploaded as base64 data URLs.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64 decodes a "data:image/…;base64,…" payload, stores the
// bytes and returns the public URL.
func (s *ImageService) UploadBase64(ctx context.Context, dataURL string) (string, error) {
	contentType, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	if len(data) > maxImageBytes {
		return "", apperr.Validation("image exceeds the 5 MiB limit")
	}

	ext := "png"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperr.Internal("failed to store image", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Info(ctx, "uploaded recipe image", "key", fileName)
	return url, nil
}

// IsDataURL reports whether the image payload is an inline base64 data
// URL rather than an already-hosted URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func decodeDataURL(dataURL string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, apperr.Validation("image must be a base64 data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, apperr.Validation("malformed image data URL")
	}
	contentType, _, _ = strings.Cut(meta, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, apperr.Validation("image payload must have an image content type")
	}
	if !strings.Contains(meta, "base64") {
		return "", nil, apperr.Validation("image payload must be base64 encoded")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperr.Validation("image payload is not valid base64")
	}
	return contentType, data, nil
}
