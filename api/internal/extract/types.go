package extract

// RawInvoice is the extraction exactly as the model returns it: every field the
// model may not observe on the photo is a pointer, nil meaning "absent".
// Nothing downstream touches this type directly; invoice.Normalize turns it
// into the canonical record first.
type RawInvoice struct {
	IDInvoice     *string      `json:"id_invoice"`
	Date          *string      `json:"date"`
	Time          *string      `json:"time"`
	PaymentDate   *string      `json:"payment_date"`
	CurrencyType  *string      `json:"currency_type"`
	PaymentMethod *string      `json:"payment_method"`
	Seller        RawSeller    `json:"seller"`
	Client        RawClient    `json:"client"`
	Products      []RawProduct `json:"products"`
	Taxes         RawTaxes     `json:"taxes"`
}

type RawSeller struct {
	IDSeller   *string `json:"id_seller"`
	NameSeller *string `json:"name_seller"`
}

type RawClient struct {
	IDClient   *string `json:"id_client"`
	NameClient *string `json:"name_client"`
	Address    *string `json:"address"`
}

type RawProduct struct {
	ProductName *string  `json:"product_name"`
	UnitPrice   *float64 `json:"unit_price"`
	Quantity    *float64 `json:"quantity"`
}

type RawTaxes struct {
	RecordedOperation *float64 `json:"recorded_operation"`
	IGV               *float64 `json:"igv"`
	ISC               *float64 `json:"isc"`
	Unaffected        *float64 `json:"unaffected"`
	Exonerated        *float64 `json:"exonerated"`
	Export            *float64 `json:"export"`
	Free              *float64 `json:"free"`
	Discount          *float64 `json:"discount"`
	OthersCharge      *float64 `json:"others_charge"`
	OthersTaxes       *float64 `json:"others_taxes"`
}

// Usage is the token accounting attached to every extraction, split the way
// the user_credits ledger wants it.
type Usage struct {
	InputTokenText  int32 `json:"input_token_text"`
	InputTokenImage int32 `json:"input_token_image"`
	OutputTokenText int32 `json:"output_token_text"`
}

// Result is one extraction call. When decoding fails the caller gets
// ErrUnusable and Raw still carries the unparsed model text for logging.
type Result struct {
	Invoice RawInvoice
	Usage   Usage
	Raw     string
}
