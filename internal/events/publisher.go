package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	"github.com/segmentio/kafka-go"
)

const checkoutTopic = "checkout-completed"

// KafkaPublisher emits one message per completed checkout. Nothing is
// staged or retried: the receipt is ephemeral by design, so a lost event
// is logged by the caller and forgotten.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  checkoutTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, req domain.CheckoutRequest, receipt domain.Receipt) error {
	payload := map[string]interface{}{
		"receipt_id":     receipt.ReceiptID,
		"customer_name":  req.CustomerName,
		"customer_email": req.CustomerEmail,
		"items":          req.Items,
		"final_total":    receipt.FinalTotal,
		"completed_at":   receipt.Timestamp.Format(time.RFC3339),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(receipt.ReceiptID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("checkout.completed")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish checkout event: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
