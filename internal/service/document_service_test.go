package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

type fakeObjectStore struct {
	objects map[string][]byte
	deletes []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*input.Key] = data
	return &manager.UploadOutput{}, nil
}

func (f *fakeObjectStore) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	size := int64(len(data))
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: &size,
	}, nil
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *params.Key)
	f.deletes = append(f.deletes, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakeDocumentRepo struct {
	docs       map[string]*model.Document
	failCreate bool
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*model.Document)}
}

func docKey(tenantID, projectID, documentID string) string {
	return tenantID + "|" + projectID + "|" + documentID
}

func (f *fakeDocumentRepo) Create(ctx context.Context, d *model.Document) error {
	if f.failCreate {
		return apperror.External("dynamodb", errors.New("boom"))
	}
	clone := *d
	f.docs[docKey(d.TenantID, d.ProjetoID, d.ID)] = &clone
	return nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, tenantID, projectID, documentID string) (*model.Document, error) {
	d, ok := f.docs[docKey(tenantID, projectID, documentID)]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (f *fakeDocumentRepo) ListByProject(ctx context.Context, tenantID, projectID string, page repository.Page) ([]model.Document, string, error) {
	var out []model.Document
	for _, d := range f.docs {
		if d.TenantID == tenantID && d.ProjetoID == projectID {
			out = append(out, *d)
		}
	}
	return out, "", nil
}

func (f *fakeDocumentRepo) ListByCategory(ctx context.Context, tenantID, category string, page repository.Page) ([]model.Document, string, error) {
	var out []model.Document
	for _, d := range f.docs {
		if d.TenantID == tenantID && d.Categoria == category {
			out = append(out, *d)
		}
	}
	return out, "", nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, tenantID, projectID, documentID string) error {
	delete(f.docs, docKey(tenantID, projectID, documentID))
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*model.Project
}

func newFakeProjectRepo(projects ...*model.Project) *fakeProjectRepo {
	f := &fakeProjectRepo{projects: make(map[string]*model.Project)}
	for _, p := range projects {
		f.projects[p.TenantID+"|"+p.ID] = p
	}
	return f
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *model.Project) error {
	f.projects[p.TenantID+"|"+p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, tenantID, projectID string) (*model.Project, error) {
	p, ok := f.projects[tenantID+"|"+projectID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Project, string, error) {
	return nil, "", nil
}

func (f *fakeProjectRepo) ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Project, string, error) {
	return nil, "", nil
}

func (f *fakeProjectRepo) ListByCreditLine(ctx context.Context, tenantID, creditLine string, page repository.Page) ([]model.Project, string, error) {
	return nil, "", nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, p *model.Project) error {
	return nil
}

func newTestDocumentService(docs *fakeDocumentRepo, projects *fakeProjectRepo, store *fakeObjectStore) DocumentService {
	return NewDocumentService(docs, projects, store, store, "docs-bucket", zerolog.Nop())
}

func TestDocumentUploadAndDownload(t *testing.T) {
	store := newFakeObjectStore()
	docs := newFakeDocumentRepo()
	svc := newTestDocumentService(docs, newFakeProjectRepo(&model.Project{ID: "p1", TenantID: "t1"}), store)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "t1", DocumentUpload{
		ProjetoID:   "p1",
		Filename:    "contrato.pdf",
		ContentType: "application/pdf",
		Categoria:   "contratos",
		Tamanho:     9,
		Body:        strings.NewReader("%PDF-1.4\n"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.StorageKey == "" || !strings.Contains(doc.StorageKey, "clients/t1/") {
		t.Fatalf("storage key misses tenant isolation: %q", doc.StorageKey)
	}
	if _, ok := store.objects[doc.StorageKey]; !ok {
		t.Fatal("object not written")
	}

	stream, err := svc.Download(ctx, "t1", "p1", doc.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer stream.Body.Close()
	data, _ := io.ReadAll(stream.Body)
	if string(data) != "%PDF-1.4\n" {
		t.Fatalf("got body %q", data)
	}
	if stream.Filename != "contrato.pdf" || stream.ContentType != "application/pdf" {
		t.Fatalf("metadata lost: %+v", stream)
	}
}

func TestDocumentUploadUnknownProject(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), newFakeProjectRepo(), newFakeObjectStore())
	_, err := svc.Upload(context.Background(), "t1", DocumentUpload{ProjetoID: "ghost", Body: strings.NewReader("x")})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// When the metadata write fails, the already-written object must be
// removed again so storage never outlives a failed upload.
func TestDocumentUploadCompensatesOnRecordFailure(t *testing.T) {
	store := newFakeObjectStore()
	docs := newFakeDocumentRepo()
	docs.failCreate = true
	svc := newTestDocumentService(docs, newFakeProjectRepo(&model.Project{ID: "p1", TenantID: "t1"}), store)

	_, err := svc.Upload(context.Background(), "t1", DocumentUpload{
		ProjetoID: "p1", Filename: "a.txt", Body: strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(store.objects) != 0 {
		t.Fatalf("object left behind after failed record write: %v", store.objects)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(store.deletes))
	}
}

func TestDocumentDownloadMissingObject(t *testing.T) {
	store := newFakeObjectStore()
	docs := newFakeDocumentRepo()
	svc := newTestDocumentService(docs, newFakeProjectRepo(&model.Project{ID: "p1", TenantID: "t1"}), store)

	docs.docs[docKey("t1", "p1", "d1")] = &model.Document{
		ID: "d1", TenantID: "t1", ProjetoID: "p1", StorageKey: "clients/t1/gone",
	}
	_, err := svc.Download(context.Background(), "t1", "p1", "d1")
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found for a missing object, got %v", err)
	}
}

func TestDocumentDeleteRemovesRecordThenObject(t *testing.T) {
	store := newFakeObjectStore()
	docs := newFakeDocumentRepo()
	svc := newTestDocumentService(docs, newFakeProjectRepo(&model.Project{ID: "p1", TenantID: "t1"}), store)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "t1", DocumentUpload{
		ProjetoID: "p1", Filename: "a.txt", Body: strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, "t1", "p1", doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := docs.docs[docKey("t1", "p1", doc.ID)]; ok {
		t.Fatal("record survived delete")
	}
	if _, ok := store.objects[doc.StorageKey]; ok {
		t.Fatal("object survived delete")
	}

	if err := svc.Delete(ctx, "t1", "p1", doc.ID); !apperror.IsNotFound(err) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}
