package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"dolfin-bot/api/internal/extract"
	"dolfin-bot/api/internal/invoice"
)

// BlobStore is the object storage holding the original invoice images.
// Implemented by storage.Minio.
type BlobStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64) (string, error)
}

// Writer commits one confirmed invoice: image blob, header row, line items and
// the usage-credit row, in that order. There is no transaction across the four
// backend calls — blob and header are written ahead of details and credits so
// a partial failure leaves the most reconstructible state, and every error is
// wrapped with the user and invoice ids so the log is enough for manual
// reconciliation.
type Writer struct {
	Invoices *InvoiceRepo
	Credits  *CreditRepo
	Blobs    BlobStore

	// now is swappable in tests; object names embed the commit time.
	now func() time.Time
}

func NewWriter(invoices *InvoiceRepo, credits *CreditRepo, blobs BlobStore) *Writer {
	return &Writer{Invoices: invoices, Credits: credits, Blobs: blobs, now: time.Now}
}

// Commit persists everything for one confirmed invoice and returns the stored
// blob path.
func (w *Writer) Commit(ctx context.Context, userID string, inv invoice.Invoice, usage extract.Usage, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: open image: %w", inv.IDInvoice, userID, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: stat image: %w", inv.IDInvoice, userID, err)
	}

	objectName := fmt.Sprintf("public/%s-%d.jpg", userID, w.now().Unix())
	storedPath, err := w.Blobs.Upload(ctx, objectName, f, fi.Size())
	if err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: upload image: %w", inv.IDInvoice, userID, err)
	}

	total, _ := inv.TotalAmount().Float64()
	if err := w.Invoices.Insert(ctx, userID, inv, total, storedPath); err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: %w", inv.IDInvoice, userID, err)
	}
	if err := w.Invoices.InsertDetails(ctx, inv.IDInvoice, inv.Products); err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: %w", inv.IDInvoice, userID, err)
	}
	if err := w.Credits.Insert(ctx, userID, usage); err != nil {
		return "", fmt.Errorf("commit invoice %q for user %s: %w", inv.IDInvoice, userID, err)
	}
	return storedPath, nil
}
