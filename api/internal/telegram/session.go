package telegram

import (
	"regexp"
	"sync"

	"dolfin-bot/api/internal/extract"
	"dolfin-bot/api/internal/invoice"
)

// Phone numbers: 9 to 15 digits, optional leading +.
var phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)

func validPhone(s string) bool { return phoneRe.MatchString(s) }

// PendingInvoice is an extraction waiting for the user to confirm it.
// ImagePath points at the temp file of the uploaded photo; whoever drops a
// pending invoice removes the file.
type PendingInvoice struct {
	Invoice   invoice.Invoice
	Usage     extract.Usage
	ImagePath string
}

// Session is the per-chat conversation state. It lives in memory only and is
// lost on restart; a fresh session starts in the idle state.
type Session struct {
	ChatID        int64
	AwaitingPhone bool
	AwaitingImage bool
	Phone         string
	UserID        string
	Pending       *PendingInvoice
}

// Sessions maps chat id to session, created on first contact and cleared when
// the user finishes a flow. Each chat owns its session exclusively; the mutex
// only guards the map itself.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[chatID]; ok {
		return sess
	}
	sess := &Session{ChatID: chatID}
	s.m[chatID] = sess
	return sess
}

func (s *Sessions) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}
