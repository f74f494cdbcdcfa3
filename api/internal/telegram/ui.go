package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"dolfin-bot/api/internal/invoice"
)

// Callback data values. They are part of the chat surface; renaming one breaks
// buttons on messages already delivered.
const (
	cbDefinition    = "definition"
	cbHowItWorks    = "how-it-works"
	cbUploadInvoice = "upload-invoice"
	cbWantRegister  = "want-to-register"
	cbConfirm       = "confirm-invoice"
	cbSendAnother   = "send-another-invoice"
	cbForgot        = "forgot-products"
	cbFinish        = "finish-process"
)

const (
	msgDefinition = "Dolfin.ai 🚀 es un chatbot que te ayuda a digitalizar tus boletas y/o facturas."
	msgHowItWorks = "👉🏻 Debes seleccionar la opción de Subir boleta y/o factura, enviar la imagen y listo."

	msgRegisterPrompt    = "📱 Envíame tu número de teléfono (por ejemplo +51987654321)."
	msgAlreadyRegistered = "✅ Ya estás registrado. Puedes subir tu boleta y/o factura."
	msgInvalidPhone      = "⚠️ El número no tiene un formato válido. Debe tener entre 9 y 15 dígitos, con un + opcional al inicio."
	msgPhoneSaved        = "✅ ¡Listo! Registré tu número. Ahora puedes subir tu boleta y/o factura."

	msgUploadPrompt = "👨🏻‍💻 Por favor, envíame la imagen de tu boleta y/o factura. Procura que sea nítida."
	msgProcessing   = "👨🏻‍💻 Gracias por enviarme la imagen. Estoy procesando la imagen."

	msgMustRegister  = "⚠️ Primero debes registrarte. Selecciona Quiero registrarme 📱 en el menú."
	msgUnknownUser   = "⚠️ No encontré una cuenta con tu número. Envíame un número de teléfono válido para registrarte de nuevo."
	msgTimeout       = "⏳ El servicio está tardando demasiado. Inténtalo de nuevo en unos minutos."
	msgTransport     = "⚠️ No pude verificar tu cuenta por un problema de conexión. Inténtalo de nuevo."
	msgExtractFailed = "⚠️ Ha ocurrido un error al procesar la imagen. 😔"
	msgPersistFailed = "⚠️ No pude guardar tu boleta. Inténtalo de nuevo más tarde."
	msgPhotoFailed   = "⚠️ No pude descargar la imagen. Envíamela de nuevo, por favor."

	msgSaved     = "🙌🏻 ¡Tu boleta se guardó correctamente!"
	msgNoPending = "No encontré una boleta pendiente de confirmar. Envíame una imagen."
	msgForgot    = "👨🏻‍💻 Envíame el texto con los productos que faltan o una nueva imagen de la boleta."
	msgFinish    = "🙌🏻 ¡Gracias por usar Dolfin.ai! Escríbeme hola cuando quieras digitalizar otra boleta."
)

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("¿Qué es Dolfin.ai? 🤔", cbDefinition),
			tgbotapi.NewInlineKeyboardButtonData("¿Cómo funciona? 🤔", cbHowItWorks),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Subir boleta y/o factura 📋", cbUploadInvoice),
			tgbotapi.NewInlineKeyboardButtonData("Quiero registrarme 📱", cbWantRegister),
		),
	)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirmar ✅", cbConfirm),
			tgbotapi.NewInlineKeyboardButtonData("Olvidé productos 🤔", cbForgot),
		),
	)
}

func afterSaveKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Subir otra boleta 📋", cbSendAnother),
			tgbotapi.NewInlineKeyboardButtonData("Finalizar 🙌🏻", cbFinish),
		),
	)
}

func greeting(firstName string) string {
	if firstName == "" {
		return "¡Hola! 👋🏻 ¿Qué quieres hacer?"
	}
	return fmt.Sprintf("¡Hola %s! 👋🏻 ¿Qué quieres hacer?", firstName)
}

// renderSummary builds the confirmation text for one normalized extraction.
func renderSummary(inv invoice.Invoice) string {
	var b strings.Builder
	b.WriteString("He leído estos datos de tu boleta. ¿Está todo correcto?\n\n")
	fmt.Fprintf(&b, "🧾 N°: %s\n", orDash(inv.IDInvoice))
	fmt.Fprintf(&b, "📅 Fecha: %s %s\n", orDash(inv.Date), inv.Time)
	fmt.Fprintf(&b, "🏪 Vendedor: %s (%s)\n", orDash(inv.Seller.Name), orDash(inv.Seller.ID))
	if inv.Client.Name != "" {
		fmt.Fprintf(&b, "👤 Cliente: %s\n", inv.Client.Name)
	}
	if len(inv.Products) > 0 {
		b.WriteString("\nProductos:\n")
		for _, p := range inv.Products {
			fmt.Fprintf(&b, "• %s — %g × %s = %s\n",
				orDash(p.Name), p.Quantity,
				inv.FormatAmount(decimal.NewFromFloat(p.UnitPrice)),
				inv.FormatAmount(p.Subtotal()))
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", inv.FormatAmount(inv.TotalAmount()))
	fmt.Fprintf(&b, "Impuestos: %s\n", inv.FormatAmount(inv.Taxes.Total()))
	fmt.Fprintf(&b, "Total: %s", inv.FormatAmount(inv.GrandTotal()))
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
