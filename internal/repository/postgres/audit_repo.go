package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// AuditRepo реализует repository.AuditRepository
type AuditRepo struct {
	db *gorm.DB
}

// NewAuditRepo создает новый репозиторий событий безопасности
func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Save вставляет событие аудита
func (r *AuditRepo) Save(event *entity.SecurityAuditEvent) error {
	return r.db.Create(event).Error
}

// ListByChallenge возвращает события аудита по челленджу, от новых к старым
func (r *AuditRepo) ListByChallenge(challengeID uint, limit int) ([]entity.SecurityAuditEvent, error) {
	var events []entity.SecurityAuditEvent
	query := r.db.Where("challenge_id = ?", challengeID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&events).Error
	return events, err
}
