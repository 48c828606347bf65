package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"

	"github.com/siglab/publication-service/internal/domain"
	"github.com/siglab/publication-service/internal/importer"
	"github.com/siglab/publication-service/internal/ingest"
	"github.com/siglab/publication-service/internal/observability"
	"github.com/siglab/publication-service/internal/repository"
	"github.com/siglab/publication-service/internal/review"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockPublicationRepo implements repository.PublicationRepository for HTTP
// handler tests.
type mockPublicationRepo struct {
	createFn           func(ctx context.Context, pub *domain.Publication) (*domain.Publication, error)
	getFn              func(ctx context.Context, id uuid.UUID) (*domain.Publication, error)
	listFn             func(ctx context.Context, filter repository.PublicationFilter) ([]*domain.Publication, int64, error)
	listIdentitiesFn   func(ctx context.Context) ([]repository.PublicationIdentity, error)
	deleteFn           func(ctx context.Context, id uuid.UUID) error
	deleteAllPendingFn func(ctx context.Context) (int64, error)
	listAuthorsFn      func(ctx context.Context, pubID uuid.UUID) ([]domain.PublicationAuthor, error)
}

func (m *mockPublicationRepo) Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error) {
	if m.createFn != nil {
		return m.createFn(ctx, pub)
	}
	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	return pub, nil
}

func (m *mockPublicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.NewNotFoundError("publication", id.String())
}

func (m *mockPublicationRepo) List(ctx context.Context, filter repository.PublicationFilter) ([]*domain.Publication, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockPublicationRepo) ListIdentities(ctx context.Context) ([]repository.PublicationIdentity, error) {
	if m.listIdentitiesFn != nil {
		return m.listIdentitiesFn(ctx)
	}
	return nil, nil
}

func (m *mockPublicationRepo) Update(_ context.Context, _ *domain.Publication) error { return nil }

func (m *mockPublicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPublicationRepo) DeleteAllPending(ctx context.Context) (int64, error) {
	if m.deleteAllPendingFn != nil {
		return m.deleteAllPendingFn(ctx)
	}
	return 0, nil
}

func (m *mockPublicationRepo) ReplaceAuthors(_ context.Context, _ uuid.UUID, _ []domain.PublicationAuthor) error {
	return nil
}

func (m *mockPublicationRepo) ListAuthors(ctx context.Context, pubID uuid.UUID) ([]domain.PublicationAuthor, error) {
	if m.listAuthorsFn != nil {
		return m.listAuthorsFn(ctx, pubID)
	}
	return nil, nil
}

// mockMemberRepo implements repository.MemberRepository for HTTP handler tests.
type mockMemberRepo struct {
	listFn func(ctx context.Context) ([]domain.Member, error)
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	return nil, domain.NewNotFoundError("member", id)
}

func (m *mockMemberRepo) ListAll(ctx context.Context) ([]domain.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// txStore adapts a pgxmock pool to the review.Store interface.
type txStore struct {
	pool pgxmock.PgxPoolIface
}

func (s *txStore) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestHTTPServer creates a Server wired to mock repositories. The metrics
// namespace must be unique per test because collectors register globally.
func newTestHTTPServer(t *testing.T, pubs *mockPublicationRepo, members *mockMemberRepo, store review.Store, namespace string) (*Server, ingest.Config) {
	t.Helper()

	logger := zerolog.Nop()
	metrics := observability.NewMetrics(namespace)
	cfg := ingest.Config{
		YamlDir: t.TempDir(),
		DblpDir: t.TempDir(),
	}

	s := &Server{
		ingest:    ingest.NewService(pubs, importer.NewNormalizer(true), metrics, logger, cfg),
		review:    review.NewService(store, pubs, members, metrics, logger),
		pubs:      pubs,
		members:   members,
		logger:    logger,
		maxUpload: 1 << 20,
	}
	s.router = s.buildRouter()
	return s, cfg
}

// serveHTTP dispatches a request through the test server's router and returns the recorder.
func serveHTTP(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, r)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rr.Body.String(), err)
	}
}

const bibtexUpload = `@article{smith2021deep,
  title = {Deep Learning Systems},
  author = {John Smith},
  journal = {ACM TODS},
  year = {2021},
  doi = {10.1/xyz},
}
`

// ---------------------------------------------------------------------------
// Import handlers
// ---------------------------------------------------------------------------

func TestImportBibtex_RawBody(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_bibtex_raw")

	req := httptest.NewRequest("POST", "/api/v1/publications/import/bibtex", strings.NewReader(bibtexUpload))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var summary ingest.Summary
	decodeBody(t, rr, &summary)
	if summary.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", summary.Imported)
	}
	if summary.Total != 1 {
		t.Errorf("expected total 1, got %d", summary.Total)
	}
}

func TestImportBibtex_Multipart(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_bibtex_multipart")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "refs.bib")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(bibtexUpload)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/publications/import/bibtex", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestImportBibtex_EmptyBody(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_bibtex_empty")

	req := httptest.NewRequest("POST", "/api/v1/publications/import/bibtex", strings.NewReader("  \n"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestImportBibtex_InvalidFormat(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_bibtex_badformat")

	req := httptest.NewRequest("POST", "/api/v1/publications/import/bibtex", strings.NewReader("not bibtex at all"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestImportYaml_Success(t *testing.T) {
	s, cfg := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_yaml_ok")

	yaml := `works:
  - type: journal-article
    journalTitle: "ACM Computing Surveys"
    authors:
      - Jiahui Hu
    publicationDate:
      year: "2021"
    title:
      value: A Survey of Something
`
	if err := os.WriteFile(filepath.Join(cfg.YamlDir, "export.yml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	body := strings.NewReader(`{"file_name": "export.yml"}`)
	req := httptest.NewRequest("POST", "/api/v1/publications/import/yaml", body)
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var summary ingest.Summary
	decodeBody(t, rr, &summary)
	if summary.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", summary.Imported)
	}
	if summary.FileName != "export.yml" {
		t.Errorf("expected file name export.yml, got %s", summary.FileName)
	}
}

func TestImportYaml_MissingFileName(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_yaml_noname")

	req := httptest.NewRequest("POST", "/api/v1/publications/import/yaml", strings.NewReader(`{}`))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestImportYaml_FileNotFound(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_yaml_missing")

	body := strings.NewReader(`{"file_name": "ghost.yml"}`)
	req := httptest.NewRequest("POST", "/api/v1/publications/import/yaml", body)
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestImportDblp_Success(t *testing.T) {
	s, cfg := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_dblp_ok")

	dblp := `Authors: John Smith, Jane Doe
Title: Graph Processing at Scale.
Booktitle: SOSP
Year: 2020
`
	if err := os.WriteFile(filepath.Join(cfg.DblpDir, "output.txt"), []byte(dblp), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	body := strings.NewReader(`{"file_name": "output.txt"}`)
	req := httptest.NewRequest("POST", "/api/v1/publications/import/dblp", body)
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListImportFiles(t *testing.T) {
	s, cfg := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_listfiles")

	if err := os.WriteFile(filepath.Join(cfg.YamlDir, "a.yml"), []byte("works:\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DblpDir, "out.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/import/yaml/files", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp listFilesResponse
	decodeBody(t, rr, &resp)
	if len(resp.Files) != 1 || resp.Files[0] != "a.yml" {
		t.Errorf("unexpected yaml files: %v", resp.Files)
	}

	rr = serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/import/dblp/files", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	decodeBody(t, rr, &resp)
	if len(resp.Files) != 1 || resp.Files[0] != "out.txt" {
		t.Errorf("unexpected dblp files: %v", resp.Files)
	}
}

// ---------------------------------------------------------------------------
// Publication handlers
// ---------------------------------------------------------------------------

func testPublication(status domain.PublicationStatus) *domain.Publication {
	year := 2021
	now := time.Now().UTC()
	return &domain.Publication{
		ID:                uuid.New(),
		Title:             "Deep Learning Systems",
		Year:              &year,
		Venue:             "ACM TODS",
		Type:              domain.TypeJournal,
		AuthorsFullString: "Jiahui Hu",
		Status:            status,
		Source:            domain.SourceBibtexImport,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestListPublications_Filters(t *testing.T) {
	var captured repository.PublicationFilter
	pubs := &mockPublicationRepo{
		listFn: func(_ context.Context, filter repository.PublicationFilter) ([]*domain.Publication, int64, error) {
			captured = filter
			return []*domain.Publication{testPublication(domain.StatusPendingReview)}, 3, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_list_filters")

	req := httptest.NewRequest("GET", "/api/v1/publications?status=pending_review&source=bibtex_import&year=2021&page_size=1", nil)
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Status == nil || *captured.Status != domain.StatusPendingReview {
		t.Errorf("expected status filter pending_review, got %v", captured.Status)
	}
	if captured.Source == nil || *captured.Source != domain.SourceBibtexImport {
		t.Errorf("expected source filter bibtex_import, got %v", captured.Source)
	}
	if captured.Year == nil || *captured.Year != 2021 {
		t.Errorf("expected year filter 2021, got %v", captured.Year)
	}
	if captured.Limit != 1 {
		t.Errorf("expected limit 1, got %d", captured.Limit)
	}

	var resp listPublicationsResponse
	decodeBody(t, rr, &resp)
	if resp.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", resp.TotalCount)
	}
	if resp.NextPageToken == "" {
		t.Error("expected non-empty next page token")
	}
}

func TestListPublications_InvalidFilters(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_list_badfilters")

	for _, query := range []string{"status=bogus", "source=bogus", "year=abc"} {
		rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications?"+query, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, rr.Code)
		}
	}
}

func TestGetPublication_PendingOmitsAuthors(t *testing.T) {
	pub := testPublication(domain.StatusPendingReview)
	pubs := &mockPublicationRepo{
		getFn: func(_ context.Context, id uuid.UUID) (*domain.Publication, error) {
			if id == pub.ID {
				return pub, nil
			}
			return nil, domain.NewNotFoundError("publication", id.String())
		},
		listAuthorsFn: func(_ context.Context, _ uuid.UUID) ([]domain.PublicationAuthor, error) {
			t.Fatal("author links must not be fetched for pending publications")
			return nil, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_get_pending")

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/"+pub.ID.String(), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp publicationResponse
	decodeBody(t, rr, &resp)
	if resp.Status != string(domain.StatusPendingReview) {
		t.Errorf("expected pending_review, got %s", resp.Status)
	}
	if len(resp.Authors) != 0 {
		t.Errorf("expected no author links, got %v", resp.Authors)
	}
}

func TestGetPublication_PublishedIncludesAuthors(t *testing.T) {
	pub := testPublication(domain.StatusPublished)
	pubs := &mockPublicationRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*domain.Publication, error) {
			return pub, nil
		},
		listAuthorsFn: func(_ context.Context, pubID uuid.UUID) ([]domain.PublicationAuthor, error) {
			return []domain.PublicationAuthor{
				{PublicationID: pubID, MemberID: "m1", AuthorOrder: 1},
			}, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_get_published")

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/"+pub.ID.String(), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp publicationResponse
	decodeBody(t, rr, &resp)
	if len(resp.Authors) != 1 || resp.Authors[0].MemberID != "m1" || resp.Authors[0].AuthorOrder != 1 {
		t.Errorf("unexpected author links: %v", resp.Authors)
	}
}

func TestGetPublication_NotFound(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_get_missing")

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/"+uuid.NewString(), nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetPublication_InvalidUUID(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_get_baduuid")

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/publications/not-a-uuid", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeletePublication(t *testing.T) {
	deleted := false
	pubs := &mockPublicationRepo{
		deleteFn: func(_ context.Context, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_delete")

	rr := serveHTTP(s, httptest.NewRequest("DELETE", "/api/v1/publications/"+uuid.NewString(), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !deleted {
		t.Error("expected repository delete to be called")
	}
}

func TestDeletePublication_NotFound(t *testing.T) {
	pubs := &mockPublicationRepo{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			return domain.NewNotFoundError("publication", id.String())
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_delete_missing")

	rr := serveHTTP(s, httptest.NewRequest("DELETE", "/api/v1/publications/"+uuid.NewString(), nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteAllPending(t *testing.T) {
	pubs := &mockPublicationRepo{
		deleteAllPendingFn: func(_ context.Context) (int64, error) {
			return 7, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_clearpending")

	rr := serveHTTP(s, httptest.NewRequest("DELETE", "/api/v1/publications/pending", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp deletePendingResponse
	decodeBody(t, rr, &resp)
	if resp.Deleted != 7 {
		t.Errorf("expected 7 deleted, got %d", resp.Deleted)
	}
}

// ---------------------------------------------------------------------------
// Approval handler
// ---------------------------------------------------------------------------

func TestApprovePublication_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	pub := testPublication(domain.StatusPendingReview)
	pubs := &mockPublicationRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*domain.Publication, error) {
			copied := *pub
			return &copied, nil
		},
	}
	members := &mockMemberRepo{
		listFn: func(_ context.Context) ([]domain.Member, error) {
			return []domain.Member{{ID: "m1", NameEN: "Jiahui Hu"}}, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, members, &txStore{pool: mock}, "test_http_approve_ok")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE publications SET").
		WithArgs(
			pub.Title, pub.Year, pub.Venue, pub.Type,
			pub.AuthorsFullString, pub.DOIURL, pub.PDFURL,
			pub.Abstract, pub.Keywords, pub.Volume, pub.Number, pub.Pages, pub.Publisher,
			domain.StatusPublished, pgxmock.AnyArg(), pub.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM publication_authors WHERE publication_id").
		WithArgs(pub.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO publication_authors").
		WithArgs(pub.ID, "m1", 1, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	req := httptest.NewRequest("POST", "/api/v1/publications/pending/"+pub.ID.String()+"/approve", strings.NewReader("{}"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp approveResponse
	decodeBody(t, rr, &resp)
	if resp.Publication.Status != string(domain.StatusPublished) {
		t.Errorf("expected published, got %s", resp.Publication.Status)
	}
	if resp.ResolvedCount != 1 {
		t.Errorf("expected 1 resolved author, got %d", resp.ResolvedCount)
	}
	if len(resp.UnresolvedNames) != 0 {
		t.Errorf("expected no unresolved names, got %v", resp.UnresolvedNames)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApprovePublication_NotFound(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_approve_missing")

	req := httptest.NewRequest("POST", "/api/v1/publications/pending/"+uuid.NewString()+"/approve", strings.NewReader("{}"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestApprovePublication_NotPending(t *testing.T) {
	pub := testPublication(domain.StatusPublished)
	pubs := &mockPublicationRepo{
		getFn: func(_ context.Context, _ uuid.UUID) (*domain.Publication, error) {
			return pub, nil
		},
	}
	s, _ := newTestHTTPServer(t, pubs, &mockMemberRepo{}, nil, "test_http_approve_notpending")

	req := httptest.NewRequest("POST", "/api/v1/publications/pending/"+pub.ID.String()+"/approve", strings.NewReader("{}"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestApprovePublication_InvalidType(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_approve_badtype")

	body := strings.NewReader(`{"type": "MIXTAPE"}`)
	req := httptest.NewRequest("POST", "/api/v1/publications/pending/"+uuid.NewString()+"/approve", body)
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestApprovePublication_ValidationRejectsBadFields(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_approve_validation")

	for _, body := range []string{
		`{"year": 50}`,
		`{"title": ""}`,
		`{"pdf_url": "not a url"}`,
	} {
		req := httptest.NewRequest("POST", "/api/v1/publications/pending/"+uuid.NewString()+"/approve", strings.NewReader(body))
		rr := serveHTTP(s, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestApprovePublication_InvalidUUID(t *testing.T) {
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, &mockMemberRepo{}, nil, "test_http_approve_baduuid")

	req := httptest.NewRequest("POST", "/api/v1/publications/pending/not-a-uuid/approve", strings.NewReader("{}"))
	rr := serveHTTP(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Member handler and pagination helpers
// ---------------------------------------------------------------------------

func TestListMembers(t *testing.T) {
	members := &mockMemberRepo{
		listFn: func(_ context.Context) ([]domain.Member, error) {
			return []domain.Member{
				{ID: "m1", NameEN: "Jiahui Hu", NameZH: "胡佳慧"},
				{ID: "m2", NameEN: "John Smith"},
			}, nil
		},
	}
	s, _ := newTestHTTPServer(t, &mockPublicationRepo{}, members, nil, "test_http_members")

	rr := serveHTTP(s, httptest.NewRequest("GET", "/api/v1/members", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listMembersResponse
	decodeBody(t, rr, &resp)
	if len(resp.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(resp.Members))
	}
	if resp.Members[0].NameZH != "胡佳慧" {
		t.Errorf("unexpected name_zh: %s", resp.Members[0].NameZH)
	}
}

func TestParsePaginationParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/publications", nil)
	limit, offset := parsePaginationParams(req)
	if limit != defaultPageSize || offset != 0 {
		t.Errorf("expected defaults (%d, 0), got (%d, %d)", defaultPageSize, limit, offset)
	}

	req = httptest.NewRequest("GET", "/api/v1/publications?page_size=5000", nil)
	limit, _ = parsePaginationParams(req)
	if limit != maxPageSize {
		t.Errorf("expected clamp to %d, got %d", maxPageSize, limit)
	}

	token := encodeHTTPPageToken(0, 50, 120)
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	req = httptest.NewRequest("GET", "/api/v1/publications?page_token="+token, nil)
	_, offset = parsePaginationParams(req)
	if offset != 50 {
		t.Errorf("expected offset 50, got %d", offset)
	}

	if encodeHTTPPageToken(100, 50, 120) != "" {
		t.Error("expected empty token at end of results")
	}
}
