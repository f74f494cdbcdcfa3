package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	s := r.Sessions.Get(cid)

	switch cb.Data {
	case cbDefinition:
		r.send(cid, msgDefinition)
	case cbHowItWorks:
		r.send(cid, msgHowItWorks)
	case cbWantRegister:
		r.onWantRegister(cid, s)
	case cbUploadInvoice, cbSendAnother:
		s.AwaitingImage = true
		r.send(cid, msgUploadPrompt)
	case cbConfirm:
		r.onConfirm(cid, s, cb.Message.MessageID)
	case cbForgot:
		r.onForgot(cid, s, cb.Message.MessageID)
	case cbFinish:
		r.onFinish(cid, s)
	}
}

func (r *Router) onWantRegister(cid int64, s *Session) {
	if s.Phone != "" {
		r.send(cid, msgAlreadyRegistered)
		return
	}
	s.AwaitingPhone = true
	r.send(cid, msgRegisterPrompt)
}

// onConfirm commits the pending invoice. The temp file goes away on both the
// success and the failure path; there is no retry on a partial write, only a
// log line detailed enough for manual reconciliation.
func (r *Router) onConfirm(cid int64, s *Session, msgID int) {
	if s.Pending == nil {
		r.send(cid, msgNoPending)
		return
	}
	r.removeKeyboard(cid, msgID)
	p := s.Pending
	s.Pending = nil

	path, err := r.Writer.Commit(context.Background(), s.UserID, p.Invoice, p.Usage, p.ImagePath)
	removeTempFile(p.ImagePath)
	if err != nil {
		log.Printf("chat %d: %v", cid, err)
		r.send(cid, msgPersistFailed)
		return
	}
	log.Printf("chat %d: invoice %q stored at %s", cid, p.Invoice.IDInvoice, path)
	r.sendWithMarkup(cid, msgSaved, afterSaveKeyboard())
}

// onForgot drops the pending extraction. The user decides what to send next;
// the image-upload state is not re-entered automatically.
func (r *Router) onForgot(cid int64, s *Session, msgID int) {
	r.removeKeyboard(cid, msgID)
	r.dropPending(s)
	r.send(cid, msgForgot)
}

func (r *Router) onFinish(cid int64, s *Session) {
	r.dropPending(s)
	r.Sessions.Clear(cid)
	r.send(cid, msgFinish)
}
