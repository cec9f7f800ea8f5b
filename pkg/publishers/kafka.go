package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// kafkaProducer is satisfied by sarama.SyncProducer and its mock.
type kafkaProducer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

type kafkaPublisher struct {
	id       string
	topic    string
	producer kafkaProducer
	log      Logger
}

func newKafkaPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("publisher %q missing kafka configuration", cfg.ID)
	}

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, kafkaConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &kafkaPublisher{
		id:       cfg.ID,
		topic:    cfg.Kafka.Topic,
		producer: producer,
		log:      ensureLogger(log),
	}, nil
}

func kafkaConfig(cfg *KafkaPublisherConfig) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Retry.Max = 3
	sc.Net.DialTimeout = 10 * time.Second
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	return sc
}

func (k *kafkaPublisher) ID() string   { return k.id }
func (k *kafkaPublisher) Type() string { return TypeKafka }

// Publish keys the message by item GUID, falling back to the link.
func (k *kafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := evt.Item.GUID
	if key == "" {
		key = evt.Item.Link
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("feed_id"), Value: []byte(evt.FeedID)},
		},
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		k.log.ErrorObj("kafka publisher send failed", "publisher_kafka_error", map[string]any{
			"publisher_id": k.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("send message to kafka: %w", err)
	}

	k.log.DebugObj("kafka publisher delivered event", "publisher_kafka_delivery", map[string]any{
		"publisher_id": k.id,
		"partition":    partition,
		"offset":       offset,
	})
	return nil
}

func (k *kafkaPublisher) Close() error {
	return k.producer.Close()
}
