package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Типы событий аудита
const (
	AuditEventAnswerSubmitted     = "answer_submitted"
	AuditEventDuplicateSubmission = "duplicate_submission"
	AuditEventRateLimitViolation  = "rate_limit_violation"
)

// Уровни серьёзности событий аудита
const (
	AuditSeverityLow    = "low"
	AuditSeverityMedium = "medium"
	AuditSeverityHigh   = "high"
)

// AuditDetails - пользовательский тип для работы с JSONB
type AuditDetails map[string]interface{}

// Scan реализует интерфейс sql.Scanner для AuditDetails
// Используется GORM для чтения JSONB данных из базы
func (d *AuditDetails) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*d = AuditDetails{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*d = AuditDetails{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Value реализует интерфейс driver.Valuer для AuditDetails
// Используется GORM для записи AuditDetails в JSONB в базе
func (d AuditDetails) Value() (driver.Value, error) {
	if len(d) == 0 {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(d)
}

// SecurityAuditEvent представляет append-only запись об аномальном поведении
// при отправке ответов. Не является авторитетным игровым состоянием —
// используется только для наблюдаемости.
type SecurityAuditEvent struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	EventID     string       `gorm:"size:36;not null;uniqueIndex" json:"event_id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	ChallengeID uint         `gorm:"not null;index" json:"challenge_id"`
	EventType   string       `gorm:"size:50;not null;index" json:"event_type"`
	Severity    string       `gorm:"size:10;not null" json:"severity"`
	Details     AuditDetails `gorm:"type:jsonb" json:"details"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (SecurityAuditEvent) TableName() string {
	return "security_audit_events"
}
