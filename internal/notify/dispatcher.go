package notify

import (
	"context"

	"visacenter_backend/internal/logger"
)

// Event - событие для внешних каналов уведомлений
type Event struct {
	Type          string
	UserName      string
	UserEmail     string
	ApplicationID string
	VisaType      string
	Status        string
	Note          string
	InvoiceID     string
	Amount        int64
	Link          string
}

// Channel - один канал доставки (email, telegram)
type Channel interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

// Dispatcher рассылает событие по всем каналам.
// Доставка best-effort: ошибка канала логируется и не влияет
// ни на другие каналы, ни на вызывающую запись.
type Dispatcher struct {
	channels []Channel
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	for _, ch := range d.channels {
		if err := ch.Send(ctx, event); err != nil {
			logger.CtxWithError(ctx, "notification channel failed", err,
				"channel", ch.Name(),
				"event", event.Type,
				"application_id", event.ApplicationID,
			)
		}
	}
}
