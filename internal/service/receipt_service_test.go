package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/testutil"
)

// createTestImage creates a solid test image of the given size and format
func createTestImage(width, height int, format string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		png.Encode(&buf, img)
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	return buf.Bytes()
}

var testPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func newReceiptFixture(t *testing.T) (*ledgerFixture, *ReceiptService, *testutil.MockReceiptStore, *domain.Entry) {
	t.Helper()
	f := newLedgerFixture(t)
	caixa := f.addAccount("Caixa", "0")
	energia := f.addCategory("Energia", domain.CategoryKindExpense)
	entry := f.ledger.Entries.AddEntry(&domain.Entry{
		WorkspaceID:   testWorkspaceID,
		Kind:          domain.EntryKindExpense,
		Description:   "Conta de luz",
		Value:         dec("200"),
		Date:          date(2026, 3, 10),
		PaymentMethod: domain.PaymentMethodBoleto,
		CategoryID:    energia.ID,
		AccountID:     caixa.ID,
		Status:        domain.EntryStatusPending,
	})

	store := testutil.NewMockReceiptStore()
	svc := NewReceiptService(f.ledger.Entries, store)
	svc.SetEventPublisher(f.events)
	return f, svc, store, entry
}

func TestPrepareReceipt(t *testing.T) {
	tests := []struct {
		name            string
		data            []byte
		wantContentType string
		wantExt         string
		wantErr         error
	}{
		{"jpeg", createTestImage(100, 100, "jpeg"), "image/jpeg", "jpg", nil},
		{"png converted to jpeg", createTestImage(100, 100, "png"), "image/jpeg", "jpg", nil},
		{"pdf kept", testPDF, "application/pdf", "pdf", nil},
		{"plain text", []byte("not a receipt"), "", "", ErrReceiptFormat},
		{"too large", make([]byte, MaxReceiptSize+1), "", "", ErrReceiptTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, contentType, ext, err := prepareReceipt(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("expected invalid input category, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if contentType != tt.wantContentType || ext != tt.wantExt {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantContentType, tt.wantExt, contentType, ext)
			}
		})
	}
}

func TestPrepareReceipt_ResizesWideImages(t *testing.T) {
	body, _, _, err := prepareReceipt(createTestImage(ReceiptMaxWidth*2, 200, "png"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("expected jpeg output, got %v", err)
	}
	if cfg.Width != ReceiptMaxWidth {
		t.Errorf("expected width %d, got %d", ReceiptMaxWidth, cfg.Width)
	}
	if cfg.Height != 100 {
		t.Errorf("expected aspect ratio to be kept, got height %d", cfg.Height)
	}
}

func TestPrepareReceipt_CorruptImage(t *testing.T) {
	data := createTestImage(50, 50, "png")[:40]

	_, _, _, err := prepareReceipt(data)
	if !errors.Is(err, ErrReceiptInvalidData) {
		t.Errorf("expected ErrReceiptInvalidData, got %v", err)
	}
}

func TestUploadReceipt_ReplacesPrevious(t *testing.T) {
	f, svc, store, entry := newReceiptFixture(t)
	ctx := context.Background()

	first, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.ReceiptKey == nil || !strings.HasPrefix(*first.ReceiptKey, "1/receipts/") || !strings.HasSuffix(*first.ReceiptKey, ".pdf") {
		t.Fatalf("unexpected receipt key %v", first.ReceiptKey)
	}
	if store.ContentTypes[*first.ReceiptKey] != "application/pdf" {
		t.Errorf("expected pdf content type, got %s", store.ContentTypes[*first.ReceiptKey])
	}

	second, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, createTestImage(100, 100, "jpeg"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *second.ReceiptKey == *first.ReceiptKey {
		t.Error("expected a new key for the replacement")
	}
	if _, ok := store.Objects[*first.ReceiptKey]; ok {
		t.Error("expected previous receipt object to be deleted")
	}
	if len(store.Objects) != 1 {
		t.Errorf("expected 1 stored object, got %d", len(store.Objects))
	}
	if f.events.count("entry.receipt_changed") != 2 {
		t.Errorf("expected 2 receipt events, got %v", f.events.types())
	}
}

func TestUploadReceipt_Errors(t *testing.T) {
	_, svc, store, entry := newReceiptFixture(t)
	ctx := context.Background()

	if _, err := svc.UploadReceipt(ctx, testWorkspaceID, 999, testPDF); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	store.UploadErr = errors.New("bucket unavailable")
	if _, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF); err == nil {
		t.Error("expected upload error")
	}

	disabled := NewReceiptService(testutil.NewMockEntryRepository(), nil)
	if disabled.IsEnabled() {
		t.Error("expected service without store to be disabled")
	}
	if _, err := disabled.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF); !errors.Is(err, ErrReceiptStorageNotConfigured) {
		t.Errorf("expected ErrReceiptStorageNotConfigured, got %v", err)
	}
}

func TestUploadReceipt_KeyWriteFailureDeletesObject(t *testing.T) {
	_, svc, store, entry := newReceiptFixture(t)

	failing := NewReceiptService(&failingReceiptKeyRepo{MockEntryRepository: svc.entryRepo.(*testutil.MockEntryRepository)}, store)
	if _, err := failing.UploadReceipt(context.Background(), testWorkspaceID, entry.ID, testPDF); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(store.Objects) != 0 {
		t.Errorf("expected orphan object to be removed, got %d objects", len(store.Objects))
	}
}

type failingReceiptKeyRepo struct {
	*testutil.MockEntryRepository
}

func (r *failingReceiptKeyRepo) SetReceiptKey(ctx context.Context, workspaceID int32, id int32, key *string) (*domain.Entry, error) {
	return nil, testutil.ErrStorageUnavailable
}

func TestReceiptURL(t *testing.T) {
	_, svc, _, entry := newReceiptFixture(t)
	ctx := context.Background()

	if _, err := svc.ReceiptURL(ctx, testWorkspaceID, entry.ID); !errors.Is(err, domain.ErrReceiptNotFound) {
		t.Errorf("expected ErrReceiptNotFound, got %v", err)
	}

	updated, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	url, err := svc.ReceiptURL(ctx, testWorkspaceID, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(url, *updated.ReceiptKey) {
		t.Errorf("expected url to reference %s, got %s", *updated.ReceiptKey, url)
	}
}

func TestRemoveReceipt(t *testing.T) {
	_, svc, store, entry := newReceiptFixture(t)
	ctx := context.Background()

	if _, err := svc.RemoveReceipt(ctx, testWorkspaceID, entry.ID); !errors.Is(err, domain.ErrReceiptNotFound) {
		t.Errorf("expected ErrReceiptNotFound, got %v", err)
	}

	if _, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// a failed object delete still detaches the receipt
	store.DeleteErr = errors.New("timeout")
	removed, err := svc.RemoveReceipt(ctx, testWorkspaceID, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.ReceiptKey != nil {
		t.Errorf("expected receipt key to be cleared, got %s", *removed.ReceiptKey)
	}
}

func TestDeleteEntry_RemovesReceiptObject(t *testing.T) {
	f, svc, store, entry := newReceiptFixture(t)
	ctx := context.Background()
	f.entries.SetReceiptStore(store)

	updated, err := svc.UploadReceipt(ctx, testWorkspaceID, entry.ID, testPDF)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := f.entries.DeleteEntry(ctx, testWorkspaceID, entry.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := store.Objects[*updated.ReceiptKey]; ok {
		t.Error("expected receipt object to be deleted with the entry")
	}
}
