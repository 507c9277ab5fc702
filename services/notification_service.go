package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"feedbackhub/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// notificationChannel is the redis Pub/Sub channel carrying live notification
// events to every hub instance.
const notificationChannel = "notifications"

// publishTimeout bounds how long a live publish may hold up the caller. The
// live channel is best-effort; it never gets a retry.
const publishTimeout = 2 * time.Second

type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewNotificationService(db *gorm.DB, redisClient *redis.Client) *NotificationService {
	return &NotificationService{
		db:    db,
		redis: redisClient,
	}
}

// NotificationEvent is the envelope published on the live channel. UserID
// scopes delivery to the recipient's connections.
type NotificationEvent struct {
	UserID           uint            `json:"user_id"`
	NotificationID   uint            `json:"notification_id"`
	NotificationType string          `json:"notification_type"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	Data             json.RawMessage `json:"data,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Notify persists a notification for the recipient and then publishes it on
// the live channel. The durable write is the contract: its failure is returned
// to the caller. The live publish is a latency optimization only; any failure
// there is logged and swallowed, so a client that missed the push can always
// pick the notification up by polling.
func (s *NotificationService) Notify(userID uint, notificationType, title, message string, data map[string]interface{}) (*models.Notification, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}
	if data == nil {
		payload = []byte("{}")
	}

	notification := models.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		IsRead:           false,
		Data:             datatypes.JSON(payload),
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	s.publish(&notification)

	return &notification, nil
}

// publish pushes the event to the notifications channel. Best-effort: no
// redis, no subscribers, or a transport fault all degrade to a log line.
func (s *NotificationService) publish(notification *models.Notification) {
	if s.redis == nil {
		log.Printf("Live channel unavailable, notification %d for user %d delivered by polling only", notification.ID, notification.UserID)
		return
	}

	event := NotificationEvent{
		UserID:           notification.UserID,
		NotificationID:   notification.ID,
		NotificationType: notification.NotificationType,
		Title:            notification.Title,
		Message:          notification.Message,
		Data:             json.RawMessage(notification.Data),
		CreatedAt:        notification.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal notification event %d: %v", notification.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.redis.Publish(ctx, notificationChannel, data).Err(); err != nil {
		log.Printf("Failed to publish notification %d for user %d: %v", notification.ID, notification.UserID, err)
	}
}

func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead flips the read flag. Only the recipient may do this.
func (s *NotificationService) MarkAsRead(notificationID, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
