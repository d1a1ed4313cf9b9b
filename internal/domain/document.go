package domain

import (
	"context"
	"time"
)

// Document file types
const (
	FileTypeGenerated = "generated"
	FileTypeText      = "txt"
)

// Document holds extracted or generated text
type Document struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	ContentText string    `json:"content_text"`
	SizeBytes   int       `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Insight is the analysis of one document. A document has at most one insight.
type Insight struct {
	ID              int64     `json:"id"`
	DocumentID      int64     `json:"document_id"`
	Summary         string    `json:"summary"`
	Risks           []string  `json:"risks"`
	Recommendations []string  `json:"recommendations"`
	RawResponse     string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// DocumentUpload is plain-text document input
type DocumentUpload struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
}

// GeneratedDocument is what the LLM returns for a contract or act request
type GeneratedDocument struct {
	DocumentType    string    `json:"document_type"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	KeyPoints       []string  `json:"key_points,omitempty"`
	RequiredFields  []string  `json:"required_fields,omitempty"`
	Checklist       string    `json:"checklist,omitempty"`
	Risks           string    `json:"risks,omitempty"`
	Recommendations string    `json:"recommendations,omitempty"`
	Document        *Document `json:"document,omitempty"`
}

// DocumentReview is the outcome of checking a document for errors and risks
type DocumentReview struct {
	Status          string   `json:"status"`
	Errors          []string `json:"errors"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// DocumentRepository defines the interface for document storage
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, userID, id int64) (*Document, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Document, error)
}

// InsightRepository defines the interface for insight storage
type InsightRepository interface {
	// Create stores the insight; ErrAlreadyExists when the document already has one
	Create(ctx context.Context, insight *Insight) error
	GetByDocument(ctx context.Context, documentID int64) (*Insight, error)
}
