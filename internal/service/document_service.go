package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ObjectUploader streams a payload into object storage. Satisfied by
// manager.Uploader so large files never buffer fully in memory.
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// ObjectStorageAPI is the subset of the S3 client the coordinator uses.
type ObjectStorageAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// DocumentUpload carries one inbound file.
type DocumentUpload struct {
	ProjetoID   string
	Filename    string
	ContentType string
	Categoria   string
	Tamanho     int64
	Body        io.Reader
}

// DocumentStream is a downloadable document ready to be piped to the
// response.
type DocumentStream struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
	Tamanho     int64
}

// DocumentService coordinates the paired writes and deletes between object
// storage and the metadata record.
type DocumentService interface {
	Upload(ctx context.Context, tenantID string, up DocumentUpload) (*model.Document, error)
	Download(ctx context.Context, tenantID, projectID, documentID string) (*DocumentStream, error)
	ListByProject(ctx context.Context, tenantID, projectID string, page repository.Page) ([]model.Document, string, error)
	ListByCategory(ctx context.Context, tenantID, category string, page repository.Page) ([]model.Document, string, error)
	Delete(ctx context.Context, tenantID, projectID, documentID string) error
}

type documentService struct {
	repo        repository.DocumentRepository
	projectRepo repository.ProjectRepository
	uploader    ObjectUploader
	storage     ObjectStorageAPI
	bucket      string
	logger      zerolog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	repo repository.DocumentRepository,
	projectRepo repository.ProjectRepository,
	uploader ObjectUploader,
	storage ObjectStorageAPI,
	bucket string,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		repo:        repo,
		projectRepo: projectRepo,
		uploader:    uploader,
		storage:     storage,
		bucket:      bucket,
		logger:      logger.With().Str("service", "DocumentService").Logger(),
	}
}

// storageKey is the tenant-isolating path convention for stored objects.
func storageKey(tenantID, projectID, category, documentID, filename string) string {
	return fmt.Sprintf("clients/%s/documents/project-%s/%s/%s/%s", tenantID, projectID, category, documentID, filename)
}

// Upload writes the object first, then the metadata record. If the record
// write fails, the object is deleted again; an orphaned object with no
// metadata is the acceptable failure mode, never the reverse.
func (s *documentService) Upload(ctx context.Context, tenantID string, up DocumentUpload) (*model.Document, error) {
	project, err := s.projectRepo.GetByID(ctx, tenantID, up.ProjetoID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("projeto", up.ProjetoID)
	}

	documentID := uuid.NewString()
	key := storageKey(tenantID, up.ProjetoID, up.Categoria, documentID, up.Filename)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 up.Body,
		ContentType:          aws.String(up.ContentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		Metadata: map[string]string{
			"tenant-id":   tenantID,
			"project-id":  up.ProjetoID,
			"categoria":   up.Categoria,
			"document-id": documentID,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("key", key).Msg("Failed to upload object")
		return nil, apperror.External("s3", err)
	}

	doc := &model.Document{
		ID:          documentID,
		TenantID:    tenantID,
		ProjetoID:   up.ProjetoID,
		Nome:        up.Filename,
		Categoria:   up.Categoria,
		ContentType: up.ContentType,
		Tamanho:     up.Tamanho,
		StorageKey:  key,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("document_id", documentID).Msg("Failed to write document record, removing object")
		if _, delErr := s.storage.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("Compensating object delete failed, object is orphaned")
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, tenantID, projectID, documentID string) (*DocumentStream, error) {
	doc, err := s.repo.GetByID(ctx, tenantID, projectID, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("documento", documentID)
	}

	out, err := s.storage.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(doc.StorageKey),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			s.logger.Warn().Str("key", doc.StorageKey).Msg("Document record points at a missing object")
			return nil, apperror.NotFound("documento", documentID)
		}
		s.logger.Error().Err(err).Str("key", doc.StorageKey).Msg("Failed to fetch object")
		return nil, apperror.External("s3", err)
	}

	size := doc.Tamanho
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return &DocumentStream{
		Body:        out.Body,
		ContentType: doc.ContentType,
		Filename:    doc.Nome,
		Tamanho:     size,
	}, nil
}

func (s *documentService) ListByProject(ctx context.Context, tenantID, projectID string, page repository.Page) ([]model.Document, string, error) {
	return s.repo.ListByProject(ctx, tenantID, projectID, page)
}

func (s *documentService) ListByCategory(ctx context.Context, tenantID, category string, page repository.Page) ([]model.Document, string, error) {
	return s.repo.ListByCategory(ctx, tenantID, category, page)
}

// Delete removes the metadata record first; a leftover object is
// reclaimable garbage, whereas a record without an object would keep
// failing downloads.
func (s *documentService) Delete(ctx context.Context, tenantID, projectID, documentID string) error {
	doc, err := s.repo.GetByID(ctx, tenantID, projectID, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NotFound("documento", documentID)
	}

	if err := s.repo.Delete(ctx, tenantID, projectID, documentID); err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if _, err := s.storage.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(doc.StorageKey),
		}); err != nil {
			s.logger.Warn().Err(err).Str("key", doc.StorageKey).Msg("Object delete failed after record removal, object is orphaned")
		}
	}
	return nil
}
