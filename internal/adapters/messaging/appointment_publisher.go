package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

// PublishAppointmentEvent sends evt to the appointment queue as persistent JSON
// and waits for the broker to confirm it.
func (rmq *RabbitMQBroker) PublishAppointmentEvent(ctx context.Context, evt domain.AppointmentEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		confirm, err := rmq.ch.PublishWithDeferredConfirmWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				Type:          evt.Type,
				CorrelationId: strconv.FormatInt(evt.AppointmentID, 10),
				Timestamp:     time.Now().UTC(),
				Body:          body,
			},
		)
		if err != nil {
			return nil, err
		}
		acked, err := confirm.WaitContext(ctx)
		if err != nil {
			return nil, err
		}
		if !acked {
			return nil, ErrNotConfirmed
		}
		return nil, nil
	})
	return err
}
