package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-StaffBookingService/internal/integrations/eventbus"
)

// DefaultNotifyTimeout ограничение времени доставки уведомлений после коммита
const DefaultNotifyTimeout = 5 * time.Second

// Service сервис уведомлений
type Service struct {
	repo      NotificationRepository
	publisher EventPublisher
	timeout   time.Duration
	logger    Logger
}

// NewService создает новый экземпляр сервиса уведомлений
// publisher может быть nil, тогда уведомления только сохраняются
func NewService(repo NotificationRepository, publisher EventPublisher, logger Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		timeout:   DefaultNotifyTimeout,
		logger:    logger,
	}
}

// Send сохраняет уведомление и публикует событие в шину
func (s *Service) Send(ctx context.Context, n *domain.Notification) error {
	if n.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}

	saved, err := s.repo.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("%w: Send - repository error: %v", ErrInternal, err)
	}

	if s.publisher == nil {
		return nil
	}

	if err := s.publisher.PublishJSON(ctx, eventbus.NotificationRoutingKey(saved.Type), eventbus.NewNotificationEvent(saved)); err != nil {
		return fmt.Errorf("%w: Send - publish error: %v", ErrInternal, err)
	}

	return nil
}

// Notify доставляет уведомления, не возвращая ошибок вызывающему
// Отмена исходного запроса не прерывает доставку
func (s *Service) Notify(ctx context.Context, list ...*domain.Notification) {
	if len(list) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	for _, n := range list {
		if n == nil {
			continue
		}
		if err := s.Send(ctx, n); err != nil {
			s.logger.Warn("Notify: failed to deliver notification to user=%d: %v", n.UserID, err)
			continue
		}
		s.logger.Info("Notify: notification %q delivered to user=%d", n.Title, n.UserID)
	}
}

// ListForUser возвращает уведомления пользователя
// Пользователь может читать только свои уведомления
func (s *Service) ListForUser(ctx context.Context, actorID, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if actorID != userID {
		s.logger.Warn("ListForUser: user=%d tried to read notifications of user=%d", actorID, userID)
		return nil, ErrAccessDenied
	}

	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}

	return list, nil
}

// MarkRead помечает уведомление прочитанным
// Чужое уведомление неотличимо от отсутствующего
func (s *Service) MarkRead(ctx context.Context, actorID, notificationID int64) error {
	if actorID <= 0 || notificationID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	if err := s.repo.MarkRead(ctx, actorID, notificationID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification=%d: %v", notificationID, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	return nil
}
