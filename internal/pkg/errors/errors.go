package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда пользователь не является участником челленджа
	// или не имеет прав на действие.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateSubmission используется при повторной отправке ответа на тот же
	// вопрос челленджа тем же пользователем.
	ErrDuplicateSubmission = errors.New("answer already submitted")

	// ErrRateLimited используется, когда ответы приходят чаще минимального интервала.
	ErrRateLimited = errors.New("too many submissions")

	// ErrStorage используется, когда внешнее хранилище вернуло ошибку.
	// Текст ошибки хранилища клиенту не раскрывается.
	ErrStorage = errors.New("storage error")

	// ErrConflict используется для конфликтов состояния (например, экспорт
	// результатов незавершённого челленджа).
	ErrConflict = errors.New("resource state conflict")
)
