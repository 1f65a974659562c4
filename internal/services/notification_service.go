// internal/services/notification_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/merchkit/catalog-admin/internal/models"
)

// Notification is one transient user-visible message. Messages are retained
// in natural display order and never deduplicated.
type Notification struct {
	ID        string                   `json:"id"`
	Level     models.NotificationLevel `json:"level"`
	Message   string                   `json:"message"`
	CreatedAt time.Time                `json:"created_at"`
}

// NotificationService keeps a bounded ring of recent messages for the UI to
// poll. Every validation failure, upload failure, successful commit and
// staged-image removal produces exactly one entry.
type NotificationService struct {
	mu       sync.Mutex
	entries  []Notification
	capacity int
}

func NewNotificationService() *NotificationService {
	return &NotificationService{capacity: 50}
}

func (s *NotificationService) Success(message string) {
	logrus.WithField("notification", "success").Info(message)
	s.append(models.NotificationSuccess, message)
}

func (s *NotificationService) Error(message string) {
	logrus.WithField("notification", "error").Warn(message)
	s.append(models.NotificationError, message)
}

// Recent returns a copy of retained notifications, oldest first.
func (s *NotificationService) Recent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *NotificationService) append(level models.NotificationLevel, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
}
