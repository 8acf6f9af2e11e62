package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/models"
	"github.com/NishantsCode/NextHire/internal/repositories"
	"github.com/NishantsCode/NextHire/internal/services"
)

var errDocumentKind = errors.New("document has the wrong kind")

// UploadHandler stores uploaded documents on disk and records them.
type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	logger         *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	logger *zap.Logger,
) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		logger:         logger,
	}
}

// StoreDocument saves file and creates its document record. The file is
// removed again when the record cannot be written.
func (h *UploadHandler) StoreDocument(file *multipart.FileHeader, kind models.DocumentKind, owner *uuid.UUID) (*models.Document, error) {
	stored, err := h.storageService.SaveFile(file, string(kind))
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: stored.OriginalName,
		Kind:             kind,
		MimeType:         stored.MediaType,
		FilePath:         stored.Path,
		OwnerID:          owner,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(doc); err != nil {
		if delErr := h.storageService.DeleteFile(stored.Filename); delErr != nil {
			h.logger.Warn("failed to clean up uploaded file", zap.String("filename", stored.Filename), zap.Error(delErr))
		}
		return nil, err
	}

	h.logger.Debug("document stored",
		zap.String("document_id", doc.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("mime_type", doc.MimeType),
	)

	return doc, nil
}

// LoadDocument returns a stored document of the given kind. Documents owned by
// someone else are reported as not found.
func (h *UploadHandler) LoadDocument(id uuid.UUID, kind models.DocumentKind, caller *uuid.UUID) (*models.Document, error) {
	doc, err := h.docRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != nil && (caller == nil || *caller != *doc.OwnerID) {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	if doc.Kind != kind {
		return nil, fmt.Errorf("%w: document %s is a %s", errDocumentKind, id, doc.Kind)
	}
	return doc, nil
}

// Discard drops an upload whose request failed. Cleanup failures are logged
// and never replace the request's own error.
func (h *UploadHandler) Discard(doc *models.Document) {
	if doc == nil {
		return
	}
	if err := h.docRepo.Delete(doc.ID); err != nil {
		h.logger.Warn("failed to delete document record", zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
	if err := h.storageService.DeleteFile(doc.Filename); err != nil {
		h.logger.Warn("failed to clean up uploaded file", zap.String("filename", doc.Filename), zap.Error(err))
	}
}
