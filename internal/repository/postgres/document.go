package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/business-assistant/internal/domain"
)

// DocumentRepository implements domain.DocumentRepository
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (user_id, filename, file_type, content_text, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		doc.UserID,
		doc.Filename,
		doc.FileType,
		doc.ContentText,
		doc.SizeBytes,
		doc.CreatedAt,
	).Scan(&doc.ID)
	return mapError(err, "create document")
}

func (r *DocumentRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Document, error) {
	query := `
		SELECT id, user_id, filename, file_type, content_text, size_bytes, created_at
		FROM documents
		WHERE user_id = $1 AND id = $2
	`
	var d domain.Document
	err := r.db.q(ctx).QueryRow(ctx, query, userID, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Filename,
		&d.FileType,
		&d.ContentText,
		&d.SizeBytes,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err, "get document")
	}
	return &d, nil
}

// ListByUser returns document metadata without the text, newest first
func (r *DocumentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Document, error) {
	query := `
		SELECT id, user_id, filename, file_type, size_bytes, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.q(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, mapError(err, "list documents")
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &d.FileType, &d.SizeBytes, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// InsightRepository implements domain.InsightRepository
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Create stores the insight. The unique document_id turns a second analysis into ErrAlreadyExists.
func (r *InsightRepository) Create(ctx context.Context, in *domain.Insight) error {
	query := `
		INSERT INTO insights (document_id, summary, risks, recommendations, llm_raw_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		in.DocumentID,
		in.Summary,
		in.Risks,
		in.Recommendations,
		in.RawResponse,
		in.CreatedAt,
	).Scan(&in.ID)
	return mapError(err, "create insight")
}

func (r *InsightRepository) GetByDocument(ctx context.Context, documentID int64) (*domain.Insight, error) {
	query := `
		SELECT id, document_id, summary, risks, recommendations, llm_raw_response, created_at
		FROM insights
		WHERE document_id = $1
	`
	var in domain.Insight
	err := r.db.q(ctx).QueryRow(ctx, query, documentID).Scan(
		&in.ID,
		&in.DocumentID,
		&in.Summary,
		&in.Risks,
		&in.Recommendations,
		&in.RawResponse,
		&in.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err, "get insight")
	}
	return &in, nil
}
