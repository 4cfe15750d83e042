package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/store"
)

type CreateMaterialRequest struct {
	Code         string             `json:"code" binding:"required"`
	Description  string             `json:"description" binding:"required"`
	Unit         string             `json:"unit" binding:"required"`
	MaterialType model.MaterialType `json:"material_type" binding:"required,oneof=purchasable receivable"`
	ClientType   model.ClientType   `json:"client_type" binding:"omitempty,oneof=sec other"`
	Attributes   map[string]any     `json:"attributes"`
	UnitCost     decimal.Decimal    `json:"unit_cost"`

	TotalStock     int `json:"total_stock" binding:"min=0"`
	AvailableStock int `json:"available_stock" binding:"min=0"`
	ReservedStock  int `json:"reserved_stock" binding:"min=0"`
	MinimumStock   int `json:"minimum_stock" binding:"min=0"`
	MaximumStock   int `json:"maximum_stock" binding:"min=0"`
	ReorderPoint   int `json:"reorder_point" binding:"min=0"`
}

// UpdateMaterialRequest patches catalogue fields. Stock levels are not
// updatable here; adjustments are the only write path for quantities.
type UpdateMaterialRequest struct {
	Description  *string           `json:"description"`
	Unit         *string           `json:"unit"`
	ClientType   *model.ClientType `json:"client_type" binding:"omitempty,oneof=sec other"`
	Attributes   map[string]any    `json:"attributes"`
	UnitCost     *decimal.Decimal  `json:"unit_cost"`
	MinimumStock *int              `json:"minimum_stock" binding:"omitempty,min=0"`
	MaximumStock *int              `json:"maximum_stock" binding:"omitempty,min=0"`
	ReorderPoint *int              `json:"reorder_point" binding:"omitempty,min=0"`
}

type MaterialFilter struct {
	Search string
	Page   int
	Limit  int
}

type MaterialService interface {
	List(ctx context.Context, filter MaterialFilter) ([]model.Material, int64, error)
	Get(ctx context.Context, id string) (*model.Material, error)
	Create(ctx context.Context, userID string, req CreateMaterialRequest) (*model.Material, error)
	Update(ctx context.Context, userID string, id string, req UpdateMaterialRequest) (*model.Material, error)
	Delete(ctx context.Context, userID string, id string) error
}

type materialService struct {
	repo      repository.MaterialRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewMaterialService(
	repo repository.MaterialRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) MaterialService {
	return &materialService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func (s *materialService) List(ctx context.Context, filter MaterialFilter) ([]model.Material, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter.Page, filter.Limit, filter.Search)
}

func (s *materialService) Get(ctx context.Context, id string) (*model.Material, error) {
	mID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid material id")
	}
	return s.repo.FindByID(ctx, mID)
}

func (s *materialService) Create(ctx context.Context, userID string, req CreateMaterialRequest) (*model.Material, error) {
	if req.AvailableStock > req.TotalStock {
		return nil, validationErrorf("available stock cannot exceed total stock")
	}

	// A catalog-only create reports total stock alone. Fill in the available
	// figure so available = total - reserved holds from the first write and
	// every later stock mutation stays consistent with it.
	available := req.AvailableStock
	if available == 0 {
		available = req.TotalStock - req.ReservedStock
		if available < 0 {
			available = 0
		}
	}

	clientType := req.ClientType
	if clientType == "" {
		clientType = model.ClientOther
	}

	now := time.Now()
	m := &model.Material{
		ID:             uuid.New(),
		Code:           req.Code,
		Description:    req.Description,
		Unit:           req.Unit,
		MaterialType:   req.MaterialType,
		ClientType:     clientType,
		Attributes:     req.Attributes,
		UnitCost:       req.UnitCost,
		TotalStock:     req.TotalStock,
		AvailableStock: available,
		ReservedStock:  req.ReservedStock,
		MinimumStock:   req.MinimumStock,
		MaximumStock:   req.MaximumStock,
		ReorderPoint:   req.ReorderPoint,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.repo.FindByCode(txCtx, req.Code); findErr == nil {
			return validationErrorf(fmt.Sprintf("material code %q already exists", req.Code))
		}
		if createErr := s.repo.Create(txCtx, m); createErr != nil {
			return createErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateMaterial, m.ID.String(), m.Code, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("material.created", m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *materialService) Update(ctx context.Context, userID string, id string, req UpdateMaterialRequest) (*model.Material, error) {
	mID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid material id")
	}

	var updated *model.Material
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		m, findErr := s.repo.FindByID(txCtx, mID)
		if findErr != nil {
			return findErr
		}

		if req.Description != nil {
			m.Description = *req.Description
		}
		if req.Unit != nil {
			m.Unit = *req.Unit
		}
		if req.ClientType != nil {
			m.ClientType = *req.ClientType
		}
		if req.Attributes != nil {
			m.Attributes = req.Attributes
		}
		if req.UnitCost != nil {
			m.UnitCost = *req.UnitCost
		}
		if req.MinimumStock != nil {
			m.MinimumStock = *req.MinimumStock
		}
		if req.MaximumStock != nil {
			m.MaximumStock = *req.MaximumStock
		}
		if req.ReorderPoint != nil {
			m.ReorderPoint = *req.ReorderPoint
		}
		m.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, m); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateMaterial, m.ID.String(), m.Code, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("material.updated", m)
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *materialService) Delete(ctx context.Context, userID string, id string) error {
	mID, err := uuid.Parse(id)
	if err != nil {
		return validationErrorf("invalid material id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		m, findErr := s.repo.FindByID(txCtx, mID)
		if findErr != nil {
			return findErr
		}
		if delErr := s.repo.Delete(txCtx, mID); delErr != nil {
			return delErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionDeleteMaterial, id, m.Code, map[string]any{"deleted": true}); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("material.deleted", map[string]string{"id": id})
		return nil
	})
}
