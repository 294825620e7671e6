package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/repository/storage"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const (
	MaxReceiptSize     = 10 * 1024 * 1024 // 10MB
	ReceiptMaxWidth    = 1600
	ReceiptJPEGQuality = 85
	ReceiptURLExpiry   = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 10MB")
	ErrReceiptFormat               = errors.New("invalid format. Supported: JPEG, PNG, WebP, PDF")
	ErrReceiptInvalidData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// ReceiptService stores receipt attachments of entries in object storage
type ReceiptService struct {
	entryRepo      domain.EntryRepository
	store          storage.ReceiptStore
	eventPublisher websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService. A nil store disables uploads.
func NewReceiptService(entryRepo domain.EntryRepository, store storage.ReceiptStore) *ReceiptService {
	return &ReceiptService{entryRepo: entryRepo, store: store}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ReceiptService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// IsEnabled indicates whether receipt storage is configured
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// UploadReceipt attaches a receipt to an entry, replacing any previous one.
// Images are downscaled and stored as JPEG; PDFs are stored unchanged.
func (s *ReceiptService) UploadReceipt(ctx context.Context, workspaceID int32, entryID int32, data []byte) (*domain.Entry, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	entry, err := s.entryRepo.GetByID(ctx, workspaceID, entryID)
	if err != nil {
		return nil, err
	}

	body, contentType, ext, err := prepareReceipt(data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d/receipts/%d/%s.%s", workspaceID, entryID, uuid.New().String(), ext)
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(body), contentType, int64(len(body))); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	updated, err := s.entryRepo.SetReceiptKey(ctx, workspaceID, entryID, &key)
	if err != nil {
		s.deleteObject(ctx, workspaceID, entryID, key)
		return nil, err
	}

	if entry.ReceiptKey != nil {
		s.deleteObject(ctx, workspaceID, entryID, *entry.ReceiptKey)
	}

	s.publishEvent(workspaceID, websocket.EntryReceiptChanged(updated))
	return updated, nil
}

// ReceiptURL returns a short-lived download URL for an entry's receipt
func (s *ReceiptService) ReceiptURL(ctx context.Context, workspaceID int32, entryID int32) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotConfigured
	}

	entry, err := s.entryRepo.GetByID(ctx, workspaceID, entryID)
	if err != nil {
		return "", err
	}
	if entry.ReceiptKey == nil {
		return "", domain.ErrReceiptNotFound
	}

	return s.store.GeneratePresignedURL(ctx, *entry.ReceiptKey, ReceiptURLExpiry)
}

// RemoveReceipt detaches and deletes an entry's receipt
func (s *ReceiptService) RemoveReceipt(ctx context.Context, workspaceID int32, entryID int32) (*domain.Entry, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	entry, err := s.entryRepo.GetByID(ctx, workspaceID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ReceiptKey == nil {
		return nil, domain.ErrReceiptNotFound
	}

	updated, err := s.entryRepo.SetReceiptKey(ctx, workspaceID, entryID, nil)
	if err != nil {
		return nil, err
	}
	s.deleteObject(ctx, workspaceID, entryID, *entry.ReceiptKey)

	s.publishEvent(workspaceID, websocket.EntryReceiptChanged(updated))
	return updated, nil
}

// deleteObject removes a stored object, logging failures. The entry no longer
// points at the object so a leftover only costs storage.
func (s *ReceiptService) deleteObject(ctx context.Context, workspaceID int32, entryID int32, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Int32("workspace_id", workspaceID).Int32("entry_id", entryID).Str("key", key).Msg("Failed to delete receipt object")
	}
}

// prepareReceipt validates an upload and returns the bytes to store with
// their content type and file extension
func prepareReceipt(data []byte) ([]byte, string, string, error) {
	if len(data) > MaxReceiptSize {
		return nil, "", "", domain.NewFieldError("file", ErrReceiptTooLarge)
	}

	switch http.DetectContentType(data) {
	case "application/pdf":
		return data, "application/pdf", "pdf", nil
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, "", "", domain.NewFieldError("file", ErrReceiptFormat)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", domain.NewFieldError("file", ErrReceiptInvalidData)
	}
	if img.Bounds().Dx() > ReceiptMaxWidth {
		img = imaging.Resize(img, ReceiptMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ReceiptJPEGQuality}); err != nil {
		return nil, "", "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", "jpg", nil
}
