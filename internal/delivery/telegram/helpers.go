package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/net/html"
)

// plain decodes the HTML entities a provider left in question text.
// Stored questions keep the raw text; decoding only happens here.
func plain(s string) string {
	return html.UnescapeString(s)
}

// htmlText decodes provider text and escapes it for the HTML parse mode.
func htmlText(s string) string {
	return html.EscapeString(plain(s))
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
