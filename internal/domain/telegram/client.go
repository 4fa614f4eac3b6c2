package telegram

import "fmt"

// Client defines an interface for sending messages via a Telegram bot.
// This keeps the application logic independent of the bot library.
type Client interface {
	SendText(chatID int64, text string) error
}

// AdminAlerter delivers operational alerts to the configured administrator.
type AdminAlerter struct {
	client  Client
	adminID int64
}

func NewAdminAlerter(client Client, adminID int64) *AdminAlerter {
	return &AdminAlerter{client: client, adminID: adminID}
}

func (a *AdminAlerter) Alert(text string) error {
	if err := a.client.SendText(a.adminID, "[alert] "+text); err != nil {
		return fmt.Errorf("send alert to admin %d: %w", a.adminID, err)
	}
	return nil
}
