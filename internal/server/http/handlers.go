package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/siglab/publication-service/internal/domain"
	"github.com/siglab/publication-service/internal/repository"
	"github.com/siglab/publication-service/internal/review"
)

// Pagination and validation constants.
const (
	defaultPageSize = 50
	maxPageSize     = 100
)

var validate = validator.New()

// importFileRequest is the JSON request body for directory-based imports.
type importFileRequest struct {
	FileName string `json:"file_name"`
}

// approveRequest is the JSON request body for approving a pending
// publication. All fields are optional; absent fields keep the stored value.
type approveRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Year      *int    `json:"year,omitempty" validate:"omitempty,gte=1000,lte=2100"`
	Venue     *string `json:"venue,omitempty"`
	Type      *string `json:"type,omitempty"`
	Authors   *string `json:"authors,omitempty"`
	DOIURL    *string `json:"doi_url,omitempty"`
	PDFURL    *string `json:"pdf_url,omitempty" validate:"omitempty,url"`
	Abstract  *string `json:"abstract,omitempty"`
	Keywords  *string `json:"keywords,omitempty"`
	Volume    *string `json:"volume,omitempty"`
	Number    *string `json:"number,omitempty"`
	Pages     *string `json:"pages,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
}

// importBibtex handles POST /publications/import/bibtex.
// It accepts the BibTeX payload either as a multipart "file" part or as the
// raw request body.
func (s *Server) importBibtex(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	summary, err := s.ingest.ImportBibtex(r.Context(), data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// importYaml handles POST /publications/import/yaml.
func (s *Server) importYaml(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImportFileRequest(w, r)
	if !ok {
		return
	}
	summary, err := s.ingest.ImportYamlFile(r.Context(), req.FileName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// importDblp handles POST /publications/import/dblp.
func (s *Server) importDblp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImportFileRequest(w, r)
	if !ok {
		return
	}
	summary, err := s.ingest.ImportDblpFile(r.Context(), req.FileName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// listYamlFiles handles GET /publications/import/yaml/files.
func (s *Server) listYamlFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.ingest.ListYamlFiles()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listFilesResponse{Files: files})
}

// listDblpFiles handles GET /publications/import/dblp/files.
func (s *Server) listDblpFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.ingest.ListDblpFiles()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listFilesResponse{Files: files})
}

// listPublications handles GET /publications.
// It returns a paginated list with optional status, source, and year filters.
func (s *Server) listPublications(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaginationParams(r)

	filter := repository.PublicationFilter{
		Limit:  limit,
		Offset: offset,
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.PublicationStatus(statusParam)
		if status != domain.StatusPendingReview && status != domain.StatusPublished {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", statusParam))
			return
		}
		filter.Status = &status
	}
	if sourceParam := r.URL.Query().Get("source"); sourceParam != "" {
		source := domain.ImportSource(sourceParam)
		if !domain.IsValidImportSource(source) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported source: %s", sourceParam))
			return
		}
		filter.Source = &source
	}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = &year
	}

	pubs, totalCount, err := s.pubs.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	results := make([]publicationResponse, len(pubs))
	for i, p := range pubs {
		results[i] = domainPublicationToResponse(p)
	}

	writeJSON(w, http.StatusOK, listPublicationsResponse{
		Publications:  results,
		NextPageToken: encodeHTTPPageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}

// getPublication handles GET /publications/{publicationID}.
// Published records include their resolved author links.
func (s *Server) getPublication(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "publicationID"), "publication_id")
	if !ok {
		return
	}

	pub, err := s.pubs.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := domainPublicationToResponse(pub)
	if pub.Status == domain.StatusPublished {
		links, err := s.pubs.ListAuthors(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp.Authors = domainAuthorLinksToResponse(links)
	}

	writeJSON(w, http.StatusOK, resp)
}

// deletePublication handles DELETE /publications/{publicationID}.
func (s *Server) deletePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "publicationID"), "publication_id")
	if !ok {
		return
	}

	if err := s.pubs.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// deleteAllPending handles DELETE /publications/pending.
func (s *Server) deleteAllPending(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.ingest.ClearPending(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletePendingResponse{Deleted: deleted})
}

// approvePublication handles POST /publications/pending/{publicationID}/approve.
func (s *Server) approvePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "publicationID"), "publication_id")
	if !ok {
		return
	}

	var req approveRequest
	if r.ContentLength != 0 {
		defer r.Body.Close()
		if err := json.NewDecoder(io.LimitReader(r.Body, s.maxUpload)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON request body")
			return
		}
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edits, err := approveRequestToEdits(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.review.Approve(r.Context(), id, edits)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, approveResponse{
		Publication:     domainPublicationToResponse(result.Publication),
		ResolvedCount:   result.ResolvedCount,
		UnresolvedNames: result.UnresolvedNames,
	})
}

// listMembers handles GET /members.
func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.members.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	results := make([]memberResponse, len(members))
	for i, m := range members {
		results[i] = domainMemberToResponse(m)
	}
	writeJSON(w, http.StatusOK, listMembersResponse{Members: results})
}

// readUpload extracts the upload payload from a request, preferring the
// multipart "file" part and falling back to the raw body.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing file field")
		}
		defer file.Close()
		return readLimited(file, s.maxUpload)
	}

	return readLimited(r.Body, s.maxUpload)
}

// readLimited reads at most limit bytes, rejecting larger payloads.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("upload exceeds %d bytes", limit)
	}
	return data, nil
}

// decodeImportFileRequest parses the file_name body shared by the YAML and
// DBLP import endpoints.
func decodeImportFileRequest(w http.ResponseWriter, r *http.Request) (importFileRequest, bool) {
	defer r.Body.Close()

	var req importFileRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return req, false
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "file_name is required")
		return req, false
	}
	return req, true
}

// approveRequestToEdits converts the request body into review edits,
// validating the publication type when provided.
func approveRequestToEdits(req approveRequest) (review.Edits, error) {
	edits := review.Edits{
		Title:     req.Title,
		Year:      req.Year,
		Venue:     req.Venue,
		Authors:   req.Authors,
		DOIURL:    req.DOIURL,
		PDFURL:    req.PDFURL,
		Abstract:  req.Abstract,
		Keywords:  req.Keywords,
		Volume:    req.Volume,
		Number:    req.Number,
		Pages:     req.Pages,
		Publisher: req.Publisher,
	}
	if req.Type != nil {
		t := domain.PublicationType(*req.Type)
		switch t {
		case domain.TypeJournal, domain.TypeConference, domain.TypeBook,
			domain.TypePreprint, domain.TypeWorkshop, domain.TypeThesis,
			domain.TypePatent, domain.TypeTechnicalReport, domain.TypeOther:
			edits.Type = &t
		default:
			return edits, fmt.Errorf("unsupported type: %s", *req.Type)
		}
	}
	return edits, nil
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to
// clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		var nfe *domain.NotFoundError
		if errors.As(err, &nfe) {
			writeError(w, http.StatusNotFound, nfe.Error())
		} else {
			writeError(w, http.StatusNotFound, "resource not found")
		}
	case errors.Is(err, domain.ErrInvalidFormat):
		var fe *domain.FormatError
		if errors.As(err, &fe) {
			writeError(w, http.StatusBadRequest, fe.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid import format")
		}
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrInvalidState):
		var se *domain.InvalidStateError
		if errors.As(err, &se) {
			writeError(w, http.StatusConflict, se.Error())
		} else {
			writeError(w, http.StatusConflict, "invalid state")
		}
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseUUID parses a UUID from a string, writing a 400 error response if invalid.
// The parse error details are not included to avoid echoing potentially malicious input.
func parseUUID(w http.ResponseWriter, s, fieldName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a valid UUID", fieldName))
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts page_size and page_token from query parameters.
// It applies default and maximum bounds to the page size.
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if parsed, err := strconv.Atoi(pageSizeStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if pageToken := r.URL.Query().Get("page_token"); pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			if parsed, parseErr := strconv.Atoi(string(decoded)); parseErr == nil && parsed > 0 {
				offset = parsed
			}
		}
	}

	return limit, offset
}

// encodeHTTPPageToken encodes the next offset as a base64 page token.
// Returns an empty string if there are no more results.
func encodeHTTPPageToken(offset, limit, totalCount int) string {
	nextOffset := offset + limit
	if nextOffset < totalCount {
		return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(nextOffset)))
	}
	return ""
}
