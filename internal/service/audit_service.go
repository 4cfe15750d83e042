package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/repository"
)

type AuditService interface {
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, page, limit)
}

// writeAudit serializes details and writes one log entry inside the caller's
// transaction. A userID that is not a UUID records a system-originated entry.
func writeAudit(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details any) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		ID:         uuid.New(),
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
		CreatedAt:  time.Now(),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
