package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dolfin-bot/api/internal/invoice"
	"dolfin-bot/api/internal/store"
)

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeNotRegistered
	outcomeUnknownUser
	outcomeTimeout
	outcomeTransport
	outcomeExtractFailed
)

// processOutcome is the tagged result of one photo-processing run. The photo
// handler switches on the kind; tests assert on it directly.
type processOutcome struct {
	kind outcomeKind
	pend *PendingInvoice
	err  error
}

func (r *Router) acceptPhoto(msg tgbotapi.Message, s *Session) {
	cid := msg.Chat.ID

	// A new photo supersedes any invoice still waiting for confirmation.
	r.dropPending(s)

	path, err := r.fetchPhoto(msg)
	if err != nil {
		log.Printf("chat %d: fetch photo: %v", cid, err)
		r.send(cid, msgPhotoFailed)
		return
	}
	r.send(cid, msgProcessing)

	out := r.processInvoice(context.Background(), s, path)
	if out.kind != outcomeOK {
		removeTempFile(path)
	}
	switch out.kind {
	case outcomeNotRegistered:
		r.send(cid, msgMustRegister)
	case outcomeUnknownUser:
		r.send(cid, msgUnknownUser)
	case outcomeTimeout:
		log.Printf("chat %d: identity check timeout: %v", cid, out.err)
		r.send(cid, msgTimeout)
	case outcomeTransport:
		log.Printf("chat %d: identity check: %v", cid, out.err)
		r.send(cid, msgTransport)
	case outcomeExtractFailed:
		log.Printf("chat %d: extraction: %v", cid, out.err)
		r.send(cid, msgExtractFailed)
	case outcomeOK:
		s.Pending = out.pend
		s.AwaitingImage = false
		r.sendWithMarkup(cid, renderSummary(out.pend.Invoice), confirmKeyboard())
	}
}

// processInvoice is the transition from "photo stored locally" to "extraction
// ready for confirmation". It mutates only the session; all chat output stays
// with the caller. The identity check runs before any model call so an
// unregistered or unknown user costs no tokens.
func (r *Router) processInvoice(ctx context.Context, s *Session, path string) processOutcome {
	if s.Phone == "" {
		return processOutcome{kind: outcomeNotRegistered}
	}

	idCtx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()
	uid, err := r.Users.FindByPhone(idCtx, s.Phone)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.Phone = ""
		s.UserID = ""
		return processOutcome{kind: outcomeUnknownUser}
	case store.IsTimeout(err):
		return processOutcome{kind: outcomeTimeout, err: err}
	case err != nil:
		return processOutcome{kind: outcomeTransport, err: err}
	}
	s.UserID = uid

	res, err := r.Extractor.ExtractInvoice(ctx, path)
	if err != nil {
		return processOutcome{kind: outcomeExtractFailed, err: err}
	}
	return processOutcome{
		kind: outcomeOK,
		pend: &PendingInvoice{
			Invoice:   invoice.Normalize(res.Invoice),
			Usage:     res.Usage,
			ImagePath: path,
		},
	}
}

// fetchPhoto downloads the largest rendition of the photo into a temp file and
// returns its path. The caller owns the file from here on.
func (r *Router) fetchPhoto(msg tgbotapi.Message) (string, error) {
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Token, file.FilePath)
	return downloadToTemp(url)
}

func downloadToTemp(url string) (string, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	f, err := os.CreateTemp("", "invoice-*.jpg")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		removeTempFile(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		removeTempFile(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (r *Router) dropPending(s *Session) {
	if s.Pending == nil {
		return
	}
	removeTempFile(s.Pending.ImagePath)
	s.Pending = nil
}

// removeTempFile deletes a downloaded photo. Failure is logged and never
// surfaced to the user.
func removeTempFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove temp file %s: %v", path, err)
	}
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
