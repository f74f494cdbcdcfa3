package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dolfin-bot/api/internal/extract"
	"dolfin-bot/api/internal/invoice"
)

// BotClient is the slice of *tgbotapi.BotAPI the router uses.
type BotClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Extractor turns a locally stored photo into a raw invoice extraction.
// Implemented by extract.Engine.
type Extractor interface {
	ExtractInvoice(ctx context.Context, path string) (extract.Result, error)
}

// Users is the identity check. Implemented by store.UserRepo.
type Users interface {
	FindByPhone(ctx context.Context, phone string) (string, error)
}

// Committer persists a confirmed invoice. Implemented by store.Writer.
type Committer interface {
	Commit(ctx context.Context, userID string, inv invoice.Invoice, usage extract.Usage, imagePath string) (string, error)
}
