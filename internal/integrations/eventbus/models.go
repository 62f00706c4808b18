package eventbus

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// NotificationEvent сообщение об уведомлении пользователя
type NotificationEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      *string   `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationEvent конвертирует доменное уведомление в событие
func NewNotificationEvent(n *domain.Notification) NotificationEvent {
	return NotificationEvent{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationRoutingKey ключ маршрутизации вида notification.<type>
func NotificationRoutingKey(t domain.NotificationType) string {
	if t == "" {
		t = domain.NotificationInfo
	}
	return "notification." + string(t)
}
