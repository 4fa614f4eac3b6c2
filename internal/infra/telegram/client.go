package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Client interface using gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendText sends a plain text message to a private chat.
func (tba *TelebotAdapter) SendText(chatID int64, text string) error {
	recipient := &telebot.User{ID: chatID}
	_, err := tba.bot.Send(recipient, text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}
