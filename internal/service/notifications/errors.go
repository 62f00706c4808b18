package notifications

import "errors"

var (
	// ErrAccessDenied возвращается при попытке прочитать чужие уведомления
	ErrAccessDenied = errors.New("notifications: access denied")

	// ErrNotificationNotFound возвращается, когда уведомление не найдено у пользователя
	ErrNotificationNotFound = errors.New("notifications: notification not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("notifications: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifications: internal error")
)
