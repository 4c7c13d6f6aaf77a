package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bills-manager/internal/model"
)

// BillRepository persists bills through GORM.
type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Save inserts the bill when it has no ID yet and overwrites every column otherwise.
func (r *BillRepository) Save(ctx context.Context, bill *model.Bill) error {
	db := r.db.WithContext(ctx)
	if bill.ID == 0 {
		if err := db.Create(bill).Error; err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		return nil
	}
	if err := db.Save(bill).Error; err != nil {
		return fmt.Errorf("update bill %d: %w", bill.ID, err)
	}
	return nil
}

func (r *BillRepository) FindAll(ctx context.Context) ([]model.Bill, error) {
	bills := []model.Bill{}
	if err := r.db.WithContext(ctx).Order("id").Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// FindByID returns nil without an error when no bill has the given ID.
func (r *BillRepository) FindByID(ctx context.Context, id uint) (*model.Bill, error) {
	var bill model.Bill
	err := r.db.WithContext(ctx).First(&bill, id).Error
	switch {
	case err == nil:
		return &bill, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find bill %d: %w", id, err)
	}
}

func (r *BillRepository) Delete(ctx context.Context, bill *model.Bill) error {
	if err := r.db.WithContext(ctx).Delete(&model.Bill{}, bill.ID).Error; err != nil {
		return fmt.Errorf("delete bill %d: %w", bill.ID, err)
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func (r *BillRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
