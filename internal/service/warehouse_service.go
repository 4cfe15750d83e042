package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/store"
)

type CreateWarehouseRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity" binding:"min=0"`
	IsDefault bool   `json:"is_default"`
}

type UpdateWarehouseRequest struct {
	Name      *string `json:"name"`
	Location  *string `json:"location"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=0"`
	IsDefault *bool   `json:"is_default"`
}

type WarehouseService interface {
	List(ctx context.Context) []model.Warehouse
	Get(ctx context.Context, id string) (*model.Warehouse, error)
	Create(ctx context.Context, userID string, req CreateWarehouseRequest) (*model.Warehouse, error)
	Update(ctx context.Context, userID string, id string, req UpdateWarehouseRequest) (*model.Warehouse, error)
}

type warehouseService struct {
	repo      repository.WarehouseRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewWarehouseService(
	repo repository.WarehouseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) WarehouseService {
	return &warehouseService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func (s *warehouseService) List(ctx context.Context) []model.Warehouse {
	return s.repo.List(ctx)
}

func (s *warehouseService) Get(ctx context.Context, id string) (*model.Warehouse, error) {
	wID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid warehouse id")
	}
	return s.repo.FindByID(ctx, wID)
}

func (s *warehouseService) Create(ctx context.Context, userID string, req CreateWarehouseRequest) (*model.Warehouse, error) {
	now := time.Now()
	w := &model.Warehouse{
		ID:        uuid.New(),
		Code:      req.Code,
		Name:      req.Name,
		Location:  req.Location,
		Capacity:  req.Capacity,
		IsDefault: req.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, existing := range s.repo.List(txCtx) {
			if existing.Code == req.Code {
				return validationErrorf("warehouse code already exists")
			}
		}
		// Only one warehouse can be the default.
		if req.IsDefault {
			if err := s.clearDefault(txCtx); err != nil {
				return err
			}
		}
		if createErr := s.repo.Create(txCtx, w); createErr != nil {
			return createErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateWarehouse, w.ID.String(), w.Name, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("warehouse.created", w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *warehouseService) Update(ctx context.Context, userID string, id string, req UpdateWarehouseRequest) (*model.Warehouse, error) {
	wID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid warehouse id")
	}

	var updated *model.Warehouse
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		w, findErr := s.repo.FindByID(txCtx, wID)
		if findErr != nil {
			return findErr
		}

		if req.Name != nil {
			w.Name = *req.Name
		}
		if req.Location != nil {
			w.Location = *req.Location
		}
		if req.Capacity != nil {
			w.Capacity = *req.Capacity
		}
		if req.IsDefault != nil && *req.IsDefault && !w.IsDefault {
			if err := s.clearDefault(txCtx); err != nil {
				return err
			}
			w.IsDefault = true
		}
		w.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, w); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateWarehouse, w.ID.String(), w.Name, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("warehouse.updated", w)
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *warehouseService) clearDefault(ctx context.Context) error {
	for _, existing := range s.repo.List(ctx) {
		if existing.IsDefault {
			existing.IsDefault = false
			w := existing
			if err := s.repo.Save(ctx, &w); err != nil {
				return err
			}
		}
	}
	return nil
}
