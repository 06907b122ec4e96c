package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transitflow/internal/model"
	"transitflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateDocumentRequest struct {
	Title    string  `json:"title" binding:"required"`
	DocType  string  `json:"doc_type"`
	ClientID *string `json:"client_id"`
	BLID     *string `json:"bl_id"`
	FileURL  string  `json:"file_url"`
	Notes    string  `json:"notes"`
}

type UpdateDocumentRequest struct {
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
	FileURL string `json:"file_url"`
	Notes   string `json:"notes"`
}

type DocumentResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	DocType   string  `json:"doc_type"`
	ClientID  *string `json:"client_id,omitempty"`
	BLID      *string `json:"bl_id,omitempty"`
	FileURL   string  `json:"file_url"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

type SecretaryService interface {
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (DocumentResponse, error)
	GetDocument(ctx context.Context, id string) (DocumentResponse, error)
	ListDocuments(ctx context.Context, clientID string, page, limit int) ([]DocumentResponse, int64, error)
	UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (DocumentResponse, error)
	DeleteDocument(ctx context.Context, id string) error
}

type secretaryService struct {
	docRepo    repository.SecretaryDocumentRepository
	clientRepo repository.ClientRepository
	blRepo     repository.BLRepository
}

func NewSecretaryService(
	docRepo repository.SecretaryDocumentRepository,
	clientRepo repository.ClientRepository,
	blRepo repository.BLRepository,
) SecretaryService {
	return &secretaryService{docRepo: docRepo, clientRepo: clientRepo, blRepo: blRepo}
}

func (s *secretaryService) CreateDocument(ctx context.Context, req CreateDocumentRequest) (DocumentResponse, error) {
	var clientID *uuid.UUID
	if req.ClientID != nil && *req.ClientID != "" {
		parsed, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return DocumentResponse{}, fmt.Errorf("invalid client id: %w", err)
		}
		if _, clientErr := s.clientRepo.FindByID(ctx, parsed); clientErr != nil {
			return DocumentResponse{}, errors.New("client not found")
		}
		clientID = &parsed
	}

	var blID *uuid.UUID
	if req.BLID != nil && *req.BLID != "" {
		parsed, err := uuid.Parse(*req.BLID)
		if err != nil {
			return DocumentResponse{}, fmt.Errorf("invalid bl id: %w", err)
		}
		if _, blErr := s.blRepo.FindByID(ctx, parsed); blErr != nil {
			return DocumentResponse{}, errors.New("bill of lading not found")
		}
		blID = &parsed
	}

	doc := model.SecretaryDocument{
		Title:    req.Title,
		DocType:  req.DocType,
		ClientID: clientID,
		BLID:     blID,
		FileURL:  req.FileURL,
		Notes:    req.Notes,
	}

	if err := s.docRepo.Create(ctx, &doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to create document: %w", err)
	}

	return toDocumentResponse(doc), nil
}

func (s *secretaryService) GetDocument(ctx context.Context, id string) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	doc, err := s.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, errors.New("document not found")
		}
		return DocumentResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toDocumentResponse(*doc), nil
}

func (s *secretaryService) ListDocuments(ctx context.Context, clientID string, page, limit int) ([]DocumentResponse, int64, error) {
	var clientFilter *uuid.UUID
	if clientID != "" {
		parsed, err := uuid.Parse(clientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client id: %w", err)
		}
		clientFilter = &parsed
	}

	docs, total, err := s.docRepo.List(ctx, clientFilter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}

	res := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		res = append(res, toDocumentResponse(doc))
	}
	return res, total, nil
}

func (s *secretaryService) UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	doc, err := s.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, errors.New("document not found")
		}
		return DocumentResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Title != "" {
		doc.Title = req.Title
	}
	if req.DocType != "" {
		doc.DocType = req.DocType
	}
	if req.FileURL != "" {
		doc.FileURL = req.FileURL
	}
	if req.Notes != "" {
		doc.Notes = req.Notes
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to update document: %w", err)
	}

	return toDocumentResponse(*doc), nil
}

func (s *secretaryService) DeleteDocument(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}
	if _, err := s.docRepo.FindByID(ctx, docID); err != nil {
		return errors.New("document not found")
	}
	return s.docRepo.Delete(ctx, docID)
}

func toDocumentResponse(doc model.SecretaryDocument) DocumentResponse {
	res := DocumentResponse{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		DocType:   doc.DocType,
		FileURL:   doc.FileURL,
		Notes:     doc.Notes,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.ClientID != nil {
		clientID := doc.ClientID.String()
		res.ClientID = &clientID
	}
	if doc.BLID != nil {
		blID := doc.BLID.String()
		res.BLID = &blID
	}
	return res
}
