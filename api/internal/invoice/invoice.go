// Package invoice holds the canonical invoice record and the money/tax math.
// The extraction layer produces loosely-typed data (any field may be null);
// Normalize coerces it once at the boundary so the rest of the code never
// checks for absence again.
package invoice

import (
	"github.com/shopspring/decimal"

	"dolfin-bot/api/internal/extract"
)

type Invoice struct {
	IDInvoice     string
	Date          string
	Time          string
	PaymentDate   string
	CurrencyType  string
	PaymentMethod string
	Seller        Seller
	Client        Client
	Products      []Product
	Taxes         Taxes
}

type Seller struct {
	ID   string
	Name string
}

type Client struct {
	ID      string
	Name    string
	Address string
}

type Product struct {
	Name      string
	UnitPrice float64
	Quantity  float64
}

// Taxes are the ten named amounts of a Peruvian boleta/factura.
// Absent values come through Normalize as zero.
type Taxes struct {
	RecordedOperation float64
	IGV               float64
	ISC               float64
	Unaffected        float64
	Exonerated        float64
	Export            float64
	Free              float64
	Discount          float64
	OthersCharge      float64
	OthersTaxes       float64
}

// Normalize builds the canonical record: nil strings become empty, nil numbers
// become zero. Values present in the extraction pass through unchanged, so
// normalizing an already-normalized record is a no-op.
func Normalize(raw extract.RawInvoice) Invoice {
	inv := Invoice{
		IDInvoice:     str(raw.IDInvoice),
		Date:          str(raw.Date),
		Time:          str(raw.Time),
		PaymentDate:   str(raw.PaymentDate),
		CurrencyType:  str(raw.CurrencyType),
		PaymentMethod: str(raw.PaymentMethod),
		Seller: Seller{
			ID:   str(raw.Seller.IDSeller),
			Name: str(raw.Seller.NameSeller),
		},
		Client: Client{
			ID:      str(raw.Client.IDClient),
			Name:    str(raw.Client.NameClient),
			Address: str(raw.Client.Address),
		},
		Taxes: Taxes{
			RecordedOperation: num(raw.Taxes.RecordedOperation),
			IGV:               num(raw.Taxes.IGV),
			ISC:               num(raw.Taxes.ISC),
			Unaffected:        num(raw.Taxes.Unaffected),
			Exonerated:        num(raw.Taxes.Exonerated),
			Export:            num(raw.Taxes.Export),
			Free:              num(raw.Taxes.Free),
			Discount:          num(raw.Taxes.Discount),
			OthersCharge:      num(raw.Taxes.OthersCharge),
			OthersTaxes:       num(raw.Taxes.OthersTaxes),
		},
	}
	if len(raw.Products) > 0 {
		inv.Products = make([]Product, 0, len(raw.Products))
		for _, p := range raw.Products {
			inv.Products = append(inv.Products, Product{
				Name:      str(p.ProductName),
				UnitPrice: num(p.UnitPrice),
				Quantity:  num(p.Quantity),
			})
		}
	}
	return inv
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Subtotal is unit price times quantity. Zero price or quantity is a valid
// free item.
func (p Product) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(p.UnitPrice).Mul(decimal.NewFromFloat(p.Quantity))
}

// TotalAmount sums the product subtotals; an empty product list totals zero.
func (inv Invoice) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Products {
		total = total.Add(p.Subtotal())
	}
	return total
}

// Total sums the ten tax amounts.
func (t Taxes) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range []float64{
		t.RecordedOperation, t.IGV, t.ISC, t.Unaffected, t.Exonerated,
		t.Export, t.Free, t.Discount, t.OthersCharge, t.OthersTaxes,
	} {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// GrandTotal is product total plus taxes.
func (inv Invoice) GrandTotal() decimal.Decimal {
	return inv.TotalAmount().Add(inv.Taxes.Total())
}

// FormatAmount renders a money value with two decimals and the currency
// symbol of the invoice ("S/ 7.63"). Unknown currencies keep their raw name.
func (inv Invoice) FormatAmount(v decimal.Decimal) string {
	return currencySymbol(inv.CurrencyType) + " " + v.StringFixed(2)
}

func currencySymbol(currency string) string {
	switch currency {
	case "", "PEN", "S/", "SOLES", "Soles", "soles":
		return "S/"
	case "USD", "$":
		return "$"
	case "EUR", "€":
		return "€"
	default:
		return currency
	}
}
