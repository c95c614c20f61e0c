package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jaldikaro/jaldikaro/internal/validate"
)

// Document kinds accepted during signup.
const (
	DocProfilePhoto = "profile"
	DocIDProof      = "id"
	DocPortfolio    = "portfolio"
)

// Allowed MIME types for signup documents.
const (
	MIMEImageJPEG = "image/jpeg"
	MIMEImagePNG  = "image/png"
	MIMEAppPDF    = "application/pdf"
)

// Upload validation errors.
var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed")
	ErrUnknownDocKind  = errors.New("unknown document kind")
	ErrInvalidAppID    = errors.New("invalid application ID")
)

// docMIMETypes maps document kinds to their allowed MIME types and
// extensions. ID proofs may be scans (PDF); photos must be images.
var docMIMETypes = map[string]map[string]string{
	DocProfilePhoto: {MIMEImageJPEG: ".jpg", MIMEImagePNG: ".png"},
	DocIDProof:      {MIMEImageJPEG: ".jpg", MIMEImagePNG: ".png", MIMEAppPDF: ".pdf"},
	DocPortfolio:    {MIMEImageJPEG: ".jpg", MIMEImagePNG: ".png"},
}

// docMaxBytes caps upload sizes per document kind: 5MB for identity
// documents and photos, 3MB for each portfolio image.
var docMaxBytes = map[string]int64{
	DocProfilePhoto: 5 * 1024 * 1024,
	DocIDProof:      5 * 1024 * 1024,
	DocPortfolio:    3 * 1024 * 1024,
}

// SignedURLRequest asks for one pre-signed document upload URL.
type SignedURLRequest struct {
	ApplicationID string
	Kind          string // profile, id, portfolio
	ContentType   string
	SizeBytes     int64
}

// SignedURLResponse carries the pre-signed PUT URL and object metadata.
type SignedURLResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadService generates pre-signed URLs for direct document uploads to
// S3-compatible storage.
type UploadService struct {
	presignClient *s3.PresignClient
	bucketName    string
	urlExpiry     time.Duration
	timeNow       func() time.Time
}

// UploadConfig holds storage settings for the upload service.
type UploadConfig struct {
	BucketName       string
	AccessKeyID      string
	SecretAccessKey  string
	Endpoint         string
	URLExpiryMinutes int // Default: 5 minutes
}

// NewUploadService creates an upload service against an S3-compatible
// endpoint (R2, MinIO, or S3 proper).
func NewUploadService(cfg UploadConfig) (*UploadService, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("access key ID is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("secret access key is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.URLExpiryMinutes <= 0 {
		cfg.URLExpiryMinutes = 5
	}

	s3Client := s3.New(s3.Options{
		Region: "auto",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		BaseEndpoint: aws.String(cfg.Endpoint),
		UsePathStyle: true,
	})

	return &UploadService{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		urlExpiry:     time.Duration(cfg.URLExpiryMinutes) * time.Minute,
		timeNow:       time.Now,
	}, nil
}

// ValidateDocument checks kind, content type, and size limits.
func ValidateDocument(kind, contentType string, sizeBytes int64) error {
	allowed, ok := docMIMETypes[kind]
	if !ok {
		return ErrUnknownDocKind
	}
	types := make([]string, 0, len(allowed))
	for t := range allowed {
		types = append(types, t)
	}

	_, err := validate.File(contentType, sizeBytes, validate.FileConstraints{
		AllowedTypes: types,
		MaxSizeBytes: docMaxBytes[kind],
	})
	switch {
	case errors.Is(err, validate.ErrInvalidMIMEType):
		return ErrUnsupportedType
	case errors.Is(err, validate.ErrFileTooLarge):
		return ErrFileTooLarge
	}
	return err
}

// ObjectKey builds the storage key for a document:
// applications/{appID}/{kind}/{uuid}{ext}.
func ObjectKey(applicationID, kind, contentType string) (string, error) {
	allowed, ok := docMIMETypes[kind]
	if !ok {
		return "", ErrUnknownDocKind
	}
	ext, ok := allowed[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	sanitized := sanitizePathComponent(applicationID)
	if sanitized == "" {
		return "", ErrInvalidAppID
	}

	return fmt.Sprintf("applications/%s/%s/%s%s", sanitized, kind, uuid.New().String(), ext), nil
}

// sanitizePathComponent keeps alphanumerics, hyphens, and underscores.
func sanitizePathComponent(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// SignedURL generates a pre-signed PUT URL for one document upload.
func (s *UploadService) SignedURL(ctx context.Context, req SignedURLRequest) (*SignedURLResponse, error) {
	if err := ValidateDocument(req.Kind, req.ContentType, req.SizeBytes); err != nil {
		return nil, err
	}

	key, err := ObjectKey(req.ApplicationID, req.Kind, req.ContentType)
	if err != nil {
		return nil, err
	}

	presignedReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.SizeBytes),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign request: %w", err)
	}

	return &SignedURLResponse{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: s.timeNow().Add(s.urlExpiry),
	}, nil
}
