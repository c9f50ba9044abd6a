// Package kafka publishes payout lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	"github.com/segmentio/kafka-go"
)

// PayoutPaidEvent is the message published when a tip transitions to paid.
type PayoutPaidEvent struct {
	TransactionID       string    `json:"transaction_id"`
	SenderIdentity      string    `json:"sender_identity"`
	RecipientIdentifier string    `json:"recipient_identifier"`
	PayoutAmount        string    `json:"payout_amount"`
	TargetCurrency      string    `json:"target_currency"`
	SourceUSDValue      string    `json:"source_usd_value"`
	PaidAt              time.Time `json:"paid_at"`
}

// PayoutProducer publishes payout events. Writes are async: delivery failures
// surface through the writer's error logger, never to the caller.
type PayoutProducer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPayoutProducer creates a producer for the given brokers and topic.
func NewPayoutProducer(brokers []string, topic string, logger *slog.Logger) *PayoutProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error("Kafka write failed", slog.String("detail", fmt.Sprintf(msg, args...)))
		}),
	}

	logger.Info("Kafka payout producer initialized", slog.String("topic", topic))

	return &PayoutProducer{
		writer: writer,
		logger: logger,
	}
}

// NotifyPaid publishes a payout-paid event keyed by transaction id.
func (p *PayoutProducer) NotifyPaid(ctx context.Context, txn domain.Transaction) error {
	event := PayoutPaidEvent{
		TransactionID:       txn.ID,
		SenderIdentity:      txn.SenderIdentity,
		RecipientIdentifier: txn.RecipientIdentifier,
		PayoutAmount:        txn.PayoutAmount.String(),
		TargetCurrency:      txn.TargetCurrency,
		SourceUSDValue:      txn.SourceUSDValue.String(),
		PaidAt:              time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(txn.ID),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue payout event: %w", err)
	}

	p.logger.Debug("Payout event enqueued", slog.String("transaction_id", txn.ID))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *PayoutProducer) Close() error {
	return p.writer.Close()
}
