package main

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes analytics events to a Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for topic on brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Publish writes one message keyed by product id
func (p *KafkaPublisher) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

// Close flushes pending writes and closes connections
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// newTracker picks the analytics sink from the environment
func newTracker(env Environment) *AsyncTracker {
	if len(env.KafkaBrokers) == 0 {
		debugLog("No Kafka brokers configured, analytics go to the log")
		return NewAsyncTracker(LogPublisher{}, DefaultTrackerOptions())
	}
	infoLog("Publishing analytics to %v topic %s", env.KafkaBrokers, env.KafkaTopic)
	return NewAsyncTracker(NewKafkaPublisher(env.KafkaBrokers, env.KafkaTopic), DefaultTrackerOptions())
}
