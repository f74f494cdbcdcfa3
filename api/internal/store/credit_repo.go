package store

import (
	"context"
	"fmt"

	"dolfin-bot/api/internal/extract"
)

type CreditRepo struct{ DB DBTX }

func NewCreditRepo(db DBTX) *CreditRepo { return &CreditRepo{DB: db} }

// Insert appends one usage-credit ledger row for the extraction.
func (r *CreditRepo) Insert(ctx context.Context, userID string, u extract.Usage) error {
	const q = `
insert into user_credits (user_id, input_token_text, input_token_image, output_token_text)
values ($1,$2,$3,$4)`
	if _, err := r.DB.Exec(ctx, q, userID, u.InputTokenText, u.InputTokenImage, u.OutputTokenText); err != nil {
		return fmt.Errorf("insert user credits: %w", err)
	}
	return nil
}
