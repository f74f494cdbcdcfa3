package telegram

import (
	"context"
	"errors"
	"os"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dolfin-bot/api/internal/extract"
	"dolfin-bot/api/internal/invoice"
	"dolfin-bot/api/internal/store"
)

// ---------------- fakes -----------------

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error) {
	return tgbotapi.File{FilePath: "photos/1.jpg"}, nil
}

func (f *fakeBot) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeBot) lastMessage() tgbotapi.MessageConfig {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if m, ok := f.sent[i].(tgbotapi.MessageConfig); ok {
			return m
		}
	}
	return tgbotapi.MessageConfig{}
}

type fakeUsers struct {
	id    string
	err   error
	calls int
}

func (f *fakeUsers) FindByPhone(ctx context.Context, phone string) (string, error) {
	f.calls++
	return f.id, f.err
}

type fakeExtractor struct {
	res   extract.Result
	err   error
	calls int
}

func (f *fakeExtractor) ExtractInvoice(ctx context.Context, path string) (extract.Result, error) {
	f.calls++
	return f.res, f.err
}

type fakeCommitter struct {
	err      error
	calls    int
	lastUser string
	lastInv  invoice.Invoice
}

func (f *fakeCommitter) Commit(ctx context.Context, userID string, inv invoice.Invoice, usage extract.Usage, imagePath string) (string, error) {
	f.calls++
	f.lastUser = userID
	f.lastInv = inv
	return "invoices/public/" + userID + "-1.jpg", f.err
}

type testEnv struct {
	bot       *fakeBot
	users     *fakeUsers
	extractor *fakeExtractor
	committer *fakeCommitter
	router    *Router
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bot:       &fakeBot{},
		users:     &fakeUsers{id: "u-1"},
		extractor: &fakeExtractor{},
		committer: &fakeCommitter{},
	}
	env.router = &Router{
		Bot:       env.bot,
		Token:     "test-token",
		Extractor: env.extractor,
		Users:     env.users,
		Writer:    env.committer,
		Sessions:  NewSessions(),
	}
	return env
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{FirstName: "Maria"},
		Text: text,
	}}
}

func callbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func tempImage(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "invoice-*.jpg")
	require.NoError(t, err)
	_, err = f.WriteString("jpeg bytes")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func sampleResult() extract.Result {
	name := "Coca Cola"
	price := 3.5
	qty := 2.0
	igv := 0.63
	id := "B001-1"
	return extract.Result{
		Invoice: extract.RawInvoice{
			IDInvoice: &id,
			Products:  []extract.RawProduct{{ProductName: &name, UnitPrice: &price, Quantity: &qty}},
			Taxes:     extract.RawTaxes{IGV: &igv},
		},
		Usage: extract.Usage{InputTokenText: 100, InputTokenImage: 258, OutputTokenText: 40},
	}
}

// ---------------- menu and registration -----------------

func TestGreetingRendersMenu(t *testing.T) {
	env := newTestEnv()
	env.router.HandleUpdate(textUpdate(1, "hola"))

	m := env.bot.lastMessage()
	assert.Contains(t, m.Text, "Maria")
	require.IsType(t, tgbotapi.InlineKeyboardMarkup{}, m.ReplyMarkup)

	s := env.router.Sessions.Get(1)
	assert.False(t, s.AwaitingPhone)
	assert.False(t, s.AwaitingImage)
}

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv()

	env.router.HandleUpdate(callbackUpdate(1, cbWantRegister))
	s := env.router.Sessions.Get(1)
	assert.True(t, s.AwaitingPhone)

	env.router.HandleUpdate(textUpdate(1, "abc123"))
	assert.True(t, s.AwaitingPhone, "invalid phone keeps AWAITING_PHONE")
	assert.Empty(t, s.Phone)
	assert.Contains(t, env.bot.texts(), msgInvalidPhone)

	env.router.HandleUpdate(textUpdate(1, "+51987654321"))
	assert.False(t, s.AwaitingPhone)
	assert.Equal(t, "+51987654321", s.Phone)
	assert.Contains(t, env.bot.texts(), msgPhoneSaved)
}

func TestWantRegisterWhileRegistered(t *testing.T) {
	env := newTestEnv()
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"

	env.router.HandleUpdate(callbackUpdate(1, cbWantRegister))
	env.router.HandleUpdate(callbackUpdate(1, cbWantRegister))

	assert.False(t, s.AwaitingPhone)
	texts := env.bot.texts()
	count := 0
	for _, txt := range texts {
		if txt == msgAlreadyRegistered {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

// ---------------- photo pipeline -----------------

func TestProcessInvoiceWithoutRegistration(t *testing.T) {
	env := newTestEnv()
	s := env.router.Sessions.Get(1)
	before := *s

	out := env.router.processInvoice(context.Background(), s, "irrelevant.jpg")

	assert.Equal(t, outcomeNotRegistered, out.kind)
	assert.Zero(t, env.users.calls, "identity check must not run")
	assert.Zero(t, env.extractor.calls, "extraction must not run")
	assert.Equal(t, before, *s, "state unchanged")
}

func TestProcessInvoiceUnknownUser(t *testing.T) {
	env := newTestEnv()
	env.users.err = store.ErrNotFound
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"

	out := env.router.processInvoice(context.Background(), s, "irrelevant.jpg")

	assert.Equal(t, outcomeUnknownUser, out.kind)
	assert.Empty(t, s.Phone, "registration cleared")
	assert.Zero(t, env.extractor.calls)
	assert.Zero(t, env.committer.calls)
}

func TestProcessInvoiceTimeoutKeepsState(t *testing.T) {
	env := newTestEnv()
	env.users.err = context.DeadlineExceeded
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"
	s.AwaitingImage = true

	out := env.router.processInvoice(context.Background(), s, "irrelevant.jpg")

	assert.Equal(t, outcomeTimeout, out.kind)
	assert.Equal(t, "+51987654321", s.Phone)
	assert.True(t, s.AwaitingImage, "user may retry")
	assert.Zero(t, env.extractor.calls)
}

func TestProcessInvoiceTransportError(t *testing.T) {
	env := newTestEnv()
	env.users.err = errors.New("connection refused")
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"

	out := env.router.processInvoice(context.Background(), s, "irrelevant.jpg")

	assert.Equal(t, outcomeTransport, out.kind)
	assert.Equal(t, "+51987654321", s.Phone)
}

func TestProcessInvoiceExtractionFailed(t *testing.T) {
	env := newTestEnv()
	env.extractor.err = extract.ErrUnusable
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"

	out := env.router.processInvoice(context.Background(), s, "irrelevant.jpg")

	assert.Equal(t, outcomeExtractFailed, out.kind)
	assert.Equal(t, "u-1", s.UserID, "identity check already succeeded")
	assert.Zero(t, env.committer.calls)
}

func TestProcessInvoiceOK(t *testing.T) {
	env := newTestEnv()
	env.extractor.res = sampleResult()
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"

	out := env.router.processInvoice(context.Background(), s, "local.jpg")

	require.Equal(t, outcomeOK, out.kind)
	require.NotNil(t, out.pend)
	assert.Equal(t, "local.jpg", out.pend.ImagePath)
	assert.Equal(t, "7.00", out.pend.Invoice.TotalAmount().StringFixed(2))
	assert.Equal(t, "7.63", out.pend.Invoice.GrandTotal().StringFixed(2))
	assert.Zero(t, env.committer.calls, "nothing persisted before confirmation")
}

// ---------------- confirmation -----------------

func TestConfirmCommitsAndCleansUp(t *testing.T) {
	env := newTestEnv()
	path := tempImage(t)
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"
	s.UserID = "u-1"
	s.Pending = &PendingInvoice{
		Invoice:   invoice.Normalize(sampleResult().Invoice),
		Usage:     sampleResult().Usage,
		ImagePath: path,
	}

	env.router.HandleUpdate(callbackUpdate(1, cbConfirm))

	assert.Equal(t, 1, env.committer.calls)
	assert.Equal(t, "u-1", env.committer.lastUser)
	assert.Nil(t, s.Pending)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temp file removed after commit")
	assert.Contains(t, env.bot.texts(), msgSaved)
}

func TestConfirmPersistFailure(t *testing.T) {
	env := newTestEnv()
	env.committer.err = errors.New("insert invoice: connection reset")
	path := tempImage(t)
	s := env.router.Sessions.Get(1)
	s.UserID = "u-1"
	s.Pending = &PendingInvoice{Invoice: invoice.Invoice{IDInvoice: "B001-1"}, ImagePath: path}

	env.router.HandleUpdate(callbackUpdate(1, cbConfirm))

	assert.Contains(t, env.bot.texts(), msgPersistFailed)
	assert.Nil(t, s.Pending)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temp file removed even on failure")
}

func TestConfirmWithoutPending(t *testing.T) {
	env := newTestEnv()

	env.router.HandleUpdate(callbackUpdate(1, cbConfirm))

	assert.Zero(t, env.committer.calls)
	assert.Contains(t, env.bot.texts(), msgNoPending)
}

func TestForgotProductsDropsPending(t *testing.T) {
	env := newTestEnv()
	path := tempImage(t)
	s := env.router.Sessions.Get(1)
	s.Pending = &PendingInvoice{ImagePath: path}

	env.router.HandleUpdate(callbackUpdate(1, cbForgot))

	assert.Nil(t, s.Pending)
	assert.False(t, s.AwaitingImage, "image state is not re-entered automatically")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, env.bot.texts(), msgForgot)
}

func TestFinishClearsSession(t *testing.T) {
	env := newTestEnv()
	path := tempImage(t)
	s := env.router.Sessions.Get(1)
	s.Phone = "+51987654321"
	s.Pending = &PendingInvoice{ImagePath: path}

	env.router.HandleUpdate(callbackUpdate(1, cbFinish))

	fresh := env.router.Sessions.Get(1)
	assert.NotSame(t, s, fresh)
	assert.Empty(t, fresh.Phone)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadInvoiceEntersAwaitingImage(t *testing.T) {
	env := newTestEnv()

	env.router.HandleUpdate(callbackUpdate(1, cbUploadInvoice))
	s := env.router.Sessions.Get(1)
	assert.True(t, s.AwaitingImage)

	s.AwaitingImage = false
	env.router.HandleUpdate(callbackUpdate(1, cbSendAnother))
	assert.True(t, s.AwaitingImage)
}
