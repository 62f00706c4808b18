package eventbus

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к RabbitMQ или объявить exchange
	ErrConnect = errors.New("eventbus: failed to connect")

	// ErrPublish возвращается при ошибке публикации сообщения
	ErrPublish = errors.New("eventbus: failed to publish")

	// ErrClosed возвращается при публикации в закрытый publisher
	ErrClosed = errors.New("eventbus: publisher is closed")
)
