package queue

import (
	"context"

	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// retries reads the x-retries header. Header integers come back from the
// broker as int32 or int64 depending on how they were encoded.
func retries(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// HandleProcessingError sends a failed message to the retry queue, or to the
// dead-letter queue once it has been retried too often, and acks the
// original. When republishing fails the message is requeued.
func HandleProcessingError(ctx context.Context, ch Publisher, msg amqp091.Delivery, queueName string) {
	count := retries(msg.Headers)

	target := queueName + "_retry"
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}

	if count >= maxRetries {
		target = queueName + "_dlq"
		logger.Info("[Queue] Sending message to DLQ", "dlq", target)
	} else {
		headers["x-retries"] = int32(count + 1)
	}

	pubErr := ch.PublishWithContext(ctx, "", target, false, false, amqp091.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers:      headers,
		DeliveryMode: amqp091.Persistent,
	})
	if pubErr != nil {
		logger.Error("[Queue] Failed to republish message", "queue", target, "err", pubErr)
		if err := msg.Nack(false, true); err != nil {
			logger.Error("[Queue] Failed to nack message", "err", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
	}
}

// HandleDelivery runs the handler for one message and acks it, or routes it
// to retry handling when the handler fails.
func HandleDelivery(
	ctx context.Context,
	ch Publisher,
	msg amqp091.Delivery,
	queueName string,
	handler func(ctx context.Context, body []byte) error,
) error {
	if err := handler(ctx, msg.Body); err != nil {
		logger.Error("[Queue] Error processing message", "queue", queueName, "err", err)
		HandleProcessingError(ctx, ch, msg, queueName)
		return err
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
		return err
	}
	logger.Info("[Queue] Message processed successfully", "queue", queueName)
	return nil
}
