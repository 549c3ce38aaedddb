package eventbus

import "errors"

var (
	// ErrNotConnected возвращается, если соединение с брокером не установлено
	ErrNotConnected = errors.New("eventbus: not connected")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("eventbus: publish failed")

	// ErrBufferFull возвращается, когда буфер событий заполнен
	ErrBufferFull = errors.New("eventbus: buffer is full")

	// ErrClosed возвращается, когда publisher уже закрыт
	ErrClosed = errors.New("eventbus: publisher is closed")

	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("eventbus: failed to marshal event")
)
