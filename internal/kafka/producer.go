package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"cooplog/internal/models"
	"cooplog/internal/utils"
)

// Topic names for the production activity stream.
const (
	TopicRecordCreated = "cooplog.production.created"
	TopicRecordUpdated = "cooplog.production.updated"
	TopicRecordDeleted = "cooplog.production.deleted"
)

type Producer struct {
	Writer *kafka.Writer
}

// NewProducer returns a producer that routes each message by its topic,
// so one writer serves the whole activity stream.
func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

func (p *Producer) publish(topic, action string, record models.EggProductionRecord) error {
	event := models.ProductionEvent{
		Action:   action,
		RecordID: record.ID,
		OwnerID:  record.OwnerID,
		Date:     record.Date.Format(utils.DateLayout),
		Count:    record.Count,
		At:       time.Now().UTC(),
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	fmt.Printf("Publishing to Kafka [%s]: %s\n", topic, string(msgBytes))

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(record.OwnerID),
			Value: msgBytes,
		},
	)
}

// PublishRecordCreated streams an egg record creation event to Kafka.
func (p *Producer) PublishRecordCreated(record models.EggProductionRecord) error {
	return p.publish(TopicRecordCreated, "created", record)
}

// PublishRecordUpdated streams an egg record update event to Kafka.
func (p *Producer) PublishRecordUpdated(record models.EggProductionRecord) error {
	return p.publish(TopicRecordUpdated, "updated", record)
}

// PublishRecordDeleted streams an egg record deletion event to Kafka.
func (p *Producer) PublishRecordDeleted(record models.EggProductionRecord) error {
	return p.publish(TopicRecordDeleted, "deleted", record)
}

// Close flushes and shuts down the writer.
func (p *Producer) Close() error {
	return p.Writer.Close()
}
