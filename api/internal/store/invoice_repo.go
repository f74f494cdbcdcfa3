package store

import (
	"context"
	"fmt"

	"dolfin-bot/api/internal/invoice"
)

type InvoiceRepo struct{ DB DBTX }

func NewInvoiceRepo(db DBTX) *InvoiceRepo { return &InvoiceRepo{DB: db} }

// Insert writes the invoice header: the extraction flattened, the computed
// total and the blob path of the original image.
func (r *InvoiceRepo) Insert(ctx context.Context, userID string, inv invoice.Invoice, total float64, pathFile string) error {
	const q = `
insert into invoices (
  user_id, id_invoice, date, time, payment_date, currency_type, payment_method,
  id_seller, name_seller, id_client, name_client, address,
  recorded_operation, igv, isc, unaffected, exonerated, export, free,
  discount, others_charge, others_taxes,
  total, path_file
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)`
	_, err := r.DB.Exec(ctx, q,
		userID, inv.IDInvoice, inv.Date, inv.Time, inv.PaymentDate, inv.CurrencyType, inv.PaymentMethod,
		inv.Seller.ID, inv.Seller.Name, inv.Client.ID, inv.Client.Name, inv.Client.Address,
		inv.Taxes.RecordedOperation, inv.Taxes.IGV, inv.Taxes.ISC, inv.Taxes.Unaffected,
		inv.Taxes.Exonerated, inv.Taxes.Export, inv.Taxes.Free,
		inv.Taxes.Discount, inv.Taxes.OthersCharge, inv.Taxes.OthersTaxes,
		total, pathFile,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// InsertDetails writes one row per product line item.
func (r *InvoiceRepo) InsertDetails(ctx context.Context, idInvoice string, products []invoice.Product) error {
	const q = `
insert into invoices_detail (id_invoice, product_name, unit_price, quantity)
values ($1,$2,$3,$4)`
	for _, p := range products {
		if _, err := r.DB.Exec(ctx, q, idInvoice, p.Name, p.UnitPrice, p.Quantity); err != nil {
			return fmt.Errorf("insert invoice detail %q: %w", p.Name, err)
		}
	}
	return nil
}
