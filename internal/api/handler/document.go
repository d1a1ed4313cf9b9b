package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/domain"
)

const (
	defaultDocumentLimit = 20

	// maxUploadSize bounds multipart uploads, including form overhead
	maxUploadSize = 2 << 20
)

var allowedUploadExts = map[string]bool{".txt": true, ".md": true, ".csv": true}

type detailsRequest struct {
	Details string `json:"details" validate:"required,max=4000"`
}

type checkRequest struct {
	Text string `json:"text" validate:"required"`
}

// DocumentHandler handles document generation, upload and analysis endpoints
type DocumentHandler struct {
	documents DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List returns the caller's documents, newest first
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultDocumentLimit)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	docs, err := h.documents.List(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, docs)
}

// Get returns one document with its text
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, doc)
}

// Upload stores a plain-text document. It accepts either a JSON body
// {filename, content} or a multipart form with a "file" field.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input domain.DocumentUpload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if input, ok = readMultipartText(w, r); !ok {
			return
		}
	} else if !decodeBody(w, r, &input) {
		return
	}

	doc, err := h.documents.Upload(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, doc)
}

func readMultipartText(w http.ResponseWriter, r *http.Request) (domain.DocumentUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return domain.DocumentUpload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return domain.DocumentUpload{}, false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		response.BadRequest(w, "invalid file type. Allowed: .txt, .md, .csv")
		return domain.DocumentUpload{}, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read file")
		return domain.DocumentUpload{}, false
	}
	if !utf8.Valid(content) {
		response.BadRequest(w, "file is not valid UTF-8 text")
		return domain.DocumentUpload{}, false
	}

	return domain.DocumentUpload{
		Filename: filepath.Base(header.Filename),
		Content:  string(content),
	}, true
}

// Analyze returns the document's insight, generating it on first request
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	insight, err := h.documents.Analyze(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, insight)
}

// CreateContract drafts a contract from free-form details
func (h *DocumentHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.documents.CreateContract)
}

// CreateAct drafts an act of completed work from free-form details
func (h *DocumentHandler) CreateAct(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.documents.CreateAct)
}

type generateFunc func(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error)

func (h *DocumentHandler) generate(w http.ResponseWriter, r *http.Request, create generateFunc) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input detailsRequest
	if !decodeBody(w, r, &input) {
		return
	}

	generated, err := create(r.Context(), userID, input.Details)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, generated)
}

// Check reviews document text for errors and risks without storing it
func (h *DocumentHandler) Check(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	var input checkRequest
	if !decodeBody(w, r, &input) {
		return
	}

	review, err := h.documents.CheckDocument(r.Context(), input.Text)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, review)
}
