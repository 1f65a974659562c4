// internal/services/event_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/models"
)

// ProductEvent is the wire shape published on the product-events topic.
type ProductEvent struct {
	Type      string                 `json:"type"`
	ProductID string                 `json:"product_id"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

type EventService struct {
	writer *kafka.Writer
}

func NewEventService(cfg config.KafkaConfig) *EventService {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &EventService{writer: writer}
}

func (s *EventService) PublishProductCreated(ctx context.Context, product models.Product) error {
	event := ProductEvent{
		Type:      "product.created",
		ProductID: strconv.FormatInt(product.ID, 10),
		Data: map[string]interface{}{
			"title":    product.Title,
			"category": product.Category,
			"vendor":   product.Vendor,
			"type":     product.Type,
			"status":   product.Status,
		},
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish product event: %w", err)
	}

	logrus.WithField("product_id", event.ProductID).Debug("Published product.created event")
	return nil
}

func (s *EventService) Close() error {
	return s.writer.Close()
}
