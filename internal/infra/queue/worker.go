package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationProcessor runs the fan-out for one lead. Per-channel
// failures are the processor's business; an error returned here means
// the whole job could not run (profile lookup down, etc).
type NotificationProcessor interface {
	ProcessNotification(ctx context.Context, payload NotificationPayload) error
}

type Worker struct {
	Channel   *amqp.Channel
	Processor NotificationProcessor
}

func NewWorker(ch *amqp.Channel, processor NotificationProcessor) *Worker {
	return &Worker{
		Channel:   ch,
		Processor: processor,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] invalid JSON: %s", err)
				// Malformed message. Reject without requeue so the queue keeps moving.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] notification job for lead %s (%s, score %d)",
				payload.LeadID, payload.QuizType, payload.Score)

			if err := w.Processor.ProcessNotification(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] fan-out aborted: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)
	<-forever
}
