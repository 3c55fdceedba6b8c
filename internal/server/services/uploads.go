package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	sc "github.com/dmitrijs2005/voicediary/internal/server/config"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// ObjectsPrefix is the public path under which uploaded media is served.
	ObjectsPrefix = "/objects/"

	// MaxUploadSize caps a single voice note.
	MaxUploadSize = 25 << 20

	checksumHexLength = 64
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// UploadService hands out presigned object-storage URLs for voice notes
// and resolves /objects/ paths back to short-lived download URLs.
type UploadService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
	now         func() time.Time
}

func NewUploadService(m repomanager.RepositoryManager, config *sc.Config, log logging.Logger) *UploadService {
	return &UploadService{
		repomanager: m,
		config:      config,
		log:         log.With("module", "uploads"),
		now:         time.Now,
	}
}

// StorageKey derives the object key. A content checksum gives a stable key
// so a retried upload of the same blob reuses its slot; otherwise the key
// is random and bucketed by day.
func StorageKey(checksum string, now time.Time) string {
	if checksum != "" {
		return fmt.Sprintf("audio/blake2b/%s/%s", checksum[:2], checksum)
	}
	return fmt.Sprintf("audio/%d/%02d/%02d/%v", now.Year(), now.Month(), now.Day(), uuid.New())
}

// ObjectKeyFromLocation returns the storage key of a location issued by
// this server, or "" for any other (external) location.
func ObjectKeyFromLocation(location string) string {
	if !strings.HasPrefix(location, ObjectsPrefix) {
		return ""
	}
	return strings.TrimPrefix(location, ObjectsPrefix)
}

func validateUploadRequest(req *models.UploadRequest) error {
	req.ContentType = strings.TrimSpace(req.ContentType)
	if !strings.HasPrefix(req.ContentType, "audio/") {
		return common.NewValidationError("contentType", "contentType must be an audio type")
	}
	if req.Size <= 0 || req.Size > MaxUploadSize {
		return common.NewValidationError("size", fmt.Sprintf("size must be between 1 and %d bytes", MaxUploadSize))
	}
	req.Checksum = strings.ToLower(strings.TrimSpace(req.Checksum))
	if req.Checksum != "" {
		if len(req.Checksum) != checksumHexLength {
			return common.NewValidationError("checksum", "checksum must be a hex blake2b-256 digest")
		}
		if _, err := hex.DecodeString(req.Checksum); err != nil {
			return common.NewValidationError("checksum", "checksum must be a hex blake2b-256 digest")
		}
	}
	return nil
}

func (s *UploadService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// CreateUpload validates req, presigns a PUT for the derived key and records
// the key as a pending upload.
func (s *UploadService) CreateUpload(ctx context.Context, req models.UploadRequest) (*models.UploadTicket, error) {
	if err := validateUploadRequest(&req); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(req.Checksum, s.now())

	put, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(s.config.UploadURLValidityDuration))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	err = s.repomanager.Uploads(s.repomanager.Conn()).CreateOrUpdate(ctx, &models.Upload{
		StorageKey:  key,
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving upload: %w", err)
	}

	s.log.Info(ctx, "upload issued", "key", key, "size", req.Size)
	return &models.UploadTicket{UploadURL: put.URL, ObjectPath: ObjectsPrefix + key}, nil
}

// ResolveObject returns a presigned GET URL for a key this server issued.
func (s *UploadService) ResolveObject(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", common.ErrorNotFound
	}

	if _, err := s.repomanager.Uploads(s.repomanager.Conn()).Get(ctx, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error getting upload: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	get, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.UploadURLValidityDuration))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return get.URL, nil
}
