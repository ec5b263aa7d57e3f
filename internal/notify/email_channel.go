package notify

import (
	"context"
	"fmt"

	"visacenter_backend/internal/email"
)

// EmailChannel доставляет события заявителю на почту
type EmailChannel struct {
	sender email.Sender
}

func NewEmailChannel(sender email.Sender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (c *EmailChannel) Name() string {
	return "email"
}

func (c *EmailChannel) Send(ctx context.Context, event Event) error {
	if event.UserEmail == "" {
		return nil
	}

	var subject, tmpl string
	data := map[string]interface{}{
		"Name":          event.UserName,
		"ApplicationID": event.ApplicationID,
		"VisaType":      event.VisaType,
		"Status":        event.Status,
		"Note":          event.Note,
		"InvoiceID":     event.InvoiceID,
		"Amount":        event.Amount,
		"Link":          event.Link,
	}

	switch event.Type {
	case "user_registered":
		subject = "Имэйл баталгаажуулалт"
		tmpl = "verification"
	case "application_submitted":
		subject = "Анкет хүлээн авлаа"
		tmpl = "application_submitted"
	case "status_changed":
		subject = "Анкетын төлөв өөрчлөгдлөө"
		tmpl = "status_changed"
	case "payment_received":
		subject = "Төлбөр баталгаажлаа"
		tmpl = "payment_received"
	default:
		return fmt.Errorf("no email template for event type %q", event.Type)
	}

	body, err := email.Render(tmpl, data)
	if err != nil {
		return err
	}
	return c.sender.Send(event.UserEmail, subject, body)
}
