package telegram

import (
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// How long the backend identity lookup may take before it counts as a timeout.
const identityTimeout = 10 * time.Second

// Router dispatches incoming updates to the conversation handlers. All of its
// collaborators are interfaces so the state machine can run against fakes.
type Router struct {
	Bot       BotClient
	Token     string // bot token, needed to build file download URLs
	Extractor Extractor
	Users     Users
	Writer    Committer
	Sessions  *Sessions
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := *upd.Message
	s := r.Sessions.Get(msg.Chat.ID)

	switch {
	case msg.IsCommand():
		r.handleCommand(msg, s)
	case len(msg.Photo) > 0:
		r.acceptPhoto(msg, s)
	case msg.Text != "":
		r.handleText(msg, s)
	}
}

func (r *Router) handleCommand(msg tgbotapi.Message, s *Session) {
	switch msg.Command() {
	case "start":
		r.sendMenu(msg.Chat.ID, firstName(msg))
	default:
		r.send(msg.Chat.ID, "No conozco ese comando. Escríbeme hola o usa /start.")
	}
}

func (r *Router) handleText(msg tgbotapi.Message, s *Session) {
	cid := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if s.AwaitingPhone {
		if !validPhone(text) {
			r.send(cid, msgInvalidPhone)
			return
		}
		s.Phone = text
		s.AwaitingPhone = false
		r.send(cid, msgPhoneSaved)
		return
	}

	// Any other free text renders the menu, greeting or not. The menu resets
	// no state, so this is always safe.
	r.sendMenu(cid, firstName(msg))
}

func (r *Router) sendMenu(chatID int64, name string) {
	m := tgbotapi.NewMessage(chatID, greeting(name))
	m.ReplyMarkup = mainMenuKeyboard()
	if _, err := r.Bot.Send(m); err != nil {
		log.Printf("send menu to %d: %v", chatID, err)
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("send to %d: %v", chatID, err)
	}
}

func (r *Router) sendWithMarkup(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	if _, err := r.Bot.Send(m); err != nil {
		log.Printf("send to %d: %v", chatID, err)
	}
}

// removeKeyboard strips the inline buttons from an already-sent message so a
// stale button cannot be pressed twice.
func (r *Router) removeKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	_, _ = r.Bot.Request(edit)
}

func firstName(msg tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.FirstName
}
