package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Producer publishes back-office events. Handlers treat publish failures as
// non-fatal: the write already committed, so they log and move on.
type Producer interface {
	PublishOrderCreated(event OrderCreatedEvent) error
	PublishPaymentCompleted(event PaymentCompletedEvent) error
	PublishReviewSaved(event ReviewSavedEvent) error
	PublishStockAdjusted(event StockAdjustedEvent) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

var _ Producer = (*KafkaProducer)(nil)

func NewKafkaProducer(brokers string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{
		producer: producer,
		logger:   logger,
	}, nil
}

func (p *KafkaProducer) PublishOrderCreated(event OrderCreatedEvent) error {
	event.EventTime = time.Now()
	return p.publish(OrderCreatedTopic, event.OrderID, event)
}

func (p *KafkaProducer) PublishPaymentCompleted(event PaymentCompletedEvent) error {
	event.EventTime = time.Now()
	return p.publish(PaymentCompletedTopic, event.PaymentID, event)
}

func (p *KafkaProducer) PublishReviewSaved(event ReviewSavedEvent) error {
	event.EventTime = time.Now()
	// Key by product so all saves for one product land on one partition and
	// rating recomputations stay ordered.
	return p.publish(ReviewSavedTopic, event.ProductID, event)
}

func (p *KafkaProducer) PublishStockAdjusted(event StockAdjustedEvent) error {
	event.EventTime = time.Now()
	return p.publish(StockAdjustedTopic, event.ProductID, event)
}

func (p *KafkaProducer) publish(topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"key":       key,
	}).Info("Event published to Kafka")

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
