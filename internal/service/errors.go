package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver (pq.Error)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// Ключи кеша. Формат единый для всех сервисов.

func challengeCacheKey(challengeID uint) string {
	return fmt.Sprintf("challenge:%d", challengeID)
}

func profileCacheKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

const topicsCacheKey = "topics:all"
