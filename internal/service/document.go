package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/Rrens/business-assistant/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	contractFilePrefix = "Договор"
	actFilePrefix      = "Акт"

	// maxDocumentSize bounds uploaded and generated text
	maxDocumentSize = 1 << 20
)

// DocumentService generates, stores and analyzes business documents
type DocumentService struct {
	docRepo     domain.DocumentRepository
	insightRepo domain.InsightRepository
	llm         Completer
	provider    string
	now         Clock
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo domain.DocumentRepository,
	insightRepo domain.InsightRepository,
	completer Completer,
	provider string,
) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		insightRepo: insightRepo,
		llm:         completer,
		provider:    provider,
		now:         time.Now,
	}
}

// CreateContract drafts a contract from free-form details and stores its text
func (s *DocumentService) CreateContract(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error) {
	return s.generate(ctx, userID, details, llm.TaskContract, llm.BuildContractPrompt, contractFilePrefix)
}

// CreateAct drafts an act of work or transfer and stores its text
func (s *DocumentService) CreateAct(ctx context.Context, userID int64, details string) (*domain.GeneratedDocument, error) {
	return s.generate(ctx, userID, details, llm.TaskAct, llm.BuildActPrompt, actFilePrefix)
}

func (s *DocumentService) generate(
	ctx context.Context,
	userID int64,
	details, task string,
	build func(string) string,
	prefix string,
) (*domain.GeneratedDocument, error) {
	details = strings.TrimSpace(details)
	if details == "" {
		return nil, fmt.Errorf("%w: document details are empty", domain.ErrValidation)
	}

	resp, err := s.llm.Complete(ctx, s.provider, llm.Request{
		Task:        task,
		System:      llm.JSONSystemPrompt,
		Prompt:      build(details),
		JSON:        true,
		Temperature: 0.3,
		MaxTokens:   4096,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", task, err)
	}

	var generated domain.GeneratedDocument
	if err := llm.DecodeJSON(resp.Content, &generated); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", task, err)
	}
	if generated.Content == "" {
		return nil, fmt.Errorf("failed to generate %s: empty content", task)
	}

	doc := &domain.Document{
		UserID:      userID,
		Filename:    generatedFilename(prefix),
		FileType:    domain.FileTypeGenerated,
		ContentText: generated.Content,
		SizeBytes:   len(generated.Content),
		CreatedAt:   s.now(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	generated.Document = doc

	log.Info().Int64("user_id", userID).Int64("document_id", doc.ID).Str("filename", doc.Filename).Msg("Document generated")
	return &generated, nil
}

// generatedFilename is "<prefix>_<8 hex>.txt"
func generatedFilename(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s_%s.txt", prefix, id[:8])
}

// CheckDocument reviews text for legal errors and risks. Nothing is stored.
func (s *DocumentService) CheckDocument(ctx context.Context, text string) (*domain.DocumentReview, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: document text is empty", domain.ErrValidation)
	}

	resp, err := s.llm.Complete(ctx, s.provider, llm.Request{
		Task:        llm.TaskReview,
		System:      llm.JSONSystemPrompt,
		Prompt:      llm.BuildReviewPrompt(text),
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to review document: %w", err)
	}

	var review domain.DocumentReview
	if err := llm.DecodeJSON(resp.Content, &review); err != nil {
		return nil, fmt.Errorf("failed to parse review: %w", err)
	}
	return &review, nil
}

// Upload stores a plain-text document
func (s *DocumentService) Upload(ctx context.Context, userID int64, input domain.DocumentUpload) (*domain.Document, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if len(input.Content) > maxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrValidation, maxDocumentSize)
	}

	doc := &domain.Document{
		UserID:      userID,
		Filename:    input.Filename,
		FileType:    domain.FileTypeText,
		ContentText: input.Content,
		SizeBytes:   len(input.Content),
		CreatedAt:   s.now(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

type insightPayload struct {
	Summary         string   `json:"summary"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
}

// Analyze returns the insight of a document, producing it on first request.
// A document never gets more than one insight.
func (s *DocumentService) Analyze(ctx context.Context, userID, documentID int64) (*domain.Insight, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	existing, err := s.insightRepo.GetByDocument(ctx, doc.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}

	resp, err := s.llm.Complete(ctx, s.provider, llm.Request{
		Task:        llm.TaskInsight,
		System:      llm.JSONSystemPrompt,
		Prompt:      llm.BuildInsightPrompt(doc.ContentText),
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	var payload insightPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse insight: %w", err)
	}

	insight := &domain.Insight{
		DocumentID:      doc.ID,
		Summary:         payload.Summary,
		Risks:           nonNil(payload.Risks),
		Recommendations: nonNil(payload.Recommendations),
		RawResponse:     resp.Content,
		CreatedAt:       s.now(),
	}
	if err := s.insightRepo.Create(ctx, insight); err != nil {
		// A concurrent request stored the insight first
		if errors.Is(err, domain.ErrAlreadyExists) {
			stored, getErr := s.insightRepo.GetByDocument(ctx, doc.ID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to get insight: %w", getErr)
			}
			return stored, nil
		}
		return nil, fmt.Errorf("failed to save insight: %w", err)
	}
	return insight, nil
}

// List returns the user's documents without their content
func (s *DocumentService) List(ctx context.Context, userID int64, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	docs, err := s.docRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Get returns one document with its content
func (s *DocumentService) Get(ctx context.Context, userID, id int64) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
