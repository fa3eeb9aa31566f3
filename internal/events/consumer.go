package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Handler receives decoded back-office events from the consumer group.
type Handler interface {
	HandleOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	HandlePaymentCompleted(ctx context.Context, event PaymentCompletedEvent) error
	HandleReviewSaved(ctx context.Context, event ReviewSavedEvent) error
	HandleStockAdjusted(ctx context.Context, event StockAdjustedEvent) error
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	handler       Handler
	logger        *logrus.Logger
	topics        []string
}

type consumerGroupHandler struct {
	handler Handler
	logger  *logrus.Logger
}

func NewKafkaConsumer(brokers, groupID string, handler Handler, logger *logrus.Logger) (*KafkaConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Version = sarama.V2_6_0_0

	consumerGroup, err := sarama.NewConsumerGroup(strings.Split(brokers, ","), groupID, config)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		handler:       handler,
		logger:        logger,
		topics:        Topics,
	}, nil
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		handler: c.handler,
		logger:  c.logger,
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Kafka consumer context cancelled")
			return nil
		default:
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				c.logger.WithError(err).Error("Error consuming from Kafka")
				return err
			}
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.consumerGroup.Close()
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Kafka consumer group session setup")
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Kafka consumer group session cleanup")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			h.logger.WithFields(logrus.Fields{
				"topic":     message.Topic,
				"partition": message.Partition,
				"offset":    message.Offset,
				"key":       string(message.Key),
			}).Info("Received Kafka message")

			if err := h.handleMessage(session.Context(), message); err != nil {
				h.logger.WithError(err).Error("Failed to handle message")
				// Reactions are idempotent recomputations, so a failed
				// message is skipped rather than blocking the partition.
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			h.logger.Info("Consumer group session context cancelled")
			return nil
		}
	}
}

func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	switch message.Topic {
	case OrderCreatedTopic:
		var event OrderCreatedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return h.handler.HandleOrderCreated(ctx, event)
	case PaymentCompletedTopic:
		var event PaymentCompletedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return h.handler.HandlePaymentCompleted(ctx, event)
	case ReviewSavedTopic:
		var event ReviewSavedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return h.handler.HandleReviewSaved(ctx, event)
	case StockAdjustedTopic:
		var event StockAdjustedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return err
		}
		return h.handler.HandleStockAdjusted(ctx, event)
	default:
		h.logger.WithField("topic", message.Topic).Warn("Unknown topic")
		return nil
	}
}
