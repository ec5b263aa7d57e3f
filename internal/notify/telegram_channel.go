package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TelegramChannel шлет краткое сообщение в операторский чат через Bot API.
// Библиотеки не используем: нужен один POST sendMessage.
type TelegramChannel struct {
	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegramChannel(botToken, chatID string) *TelegramChannel {
	return &TelegramChannel{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TelegramChannel) Name() string {
	return "telegram"
}

func (c *TelegramChannel) Send(ctx context.Context, event Event) error {
	var text string
	switch event.Type {
	case "application_submitted":
		text = fmt.Sprintf("📥 Шинэ анкет: %s (%s виз), заявитель %s",
			event.ApplicationID, event.VisaType, event.UserEmail)
	case "status_changed":
		text = fmt.Sprintf("🔄 Анкет %s: шинэ төлөв %s", event.ApplicationID, event.Status)
	case "payment_received":
		text = fmt.Sprintf("💰 Төлбөр %d₮, нэхэмжлэх %s (анкет %s)",
			event.Amount, event.InvoiceID, event.ApplicationID)
	default:
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": c.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}
