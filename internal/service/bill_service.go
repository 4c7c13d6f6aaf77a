package service

import (
	"context"
	"errors"
	"fmt"

	"bills-manager/internal/model"
)

// ErrNotFound is returned when no bill exists for the requested ID.
var ErrNotFound = errors.New("bill not found")

// BillStore is the persistence boundary used by BillService.
// FindByID must return nil, nil when the bill does not exist.
type BillStore interface {
	Save(ctx context.Context, bill *model.Bill) error
	FindAll(ctx context.Context) ([]model.Bill, error)
	FindByID(ctx context.Context, id uint) (*model.Bill, error)
	Delete(ctx context.Context, bill *model.Bill) error
}

// BillService wraps bill-related business logic.
type BillService struct {
	store BillStore
}

func NewBillService(store BillStore) *BillService {
	return &BillService{store: store}
}

// Create persists a new bill. Any ID on the input is discarded.
func (s *BillService) Create(ctx context.Context, input model.Bill) (*model.Bill, error) {
	bill := input
	bill.ID = 0
	if err := s.store.Save(ctx, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *BillService) GetAll(ctx context.Context) ([]model.Bill, error) {
	bills, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if bills == nil {
		bills = []model.Bill{}
	}
	return bills, nil
}

func (s *BillService) GetByID(ctx context.Context, id uint) (*model.Bill, error) {
	bill, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	return bill, nil
}

func (s *BillService) Delete(ctx context.Context, id uint) error {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, bill)
}

// Edit copies amount, name, category, due date and paid flag from input onto
// the stored bill. Receiver is left as it was.
func (s *BillService) Edit(ctx context.Context, id uint, input model.Bill) (*model.Bill, error) {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bill.Amount = input.Amount
	bill.BillName = input.BillName
	bill.Category = input.Category
	bill.DueDate = input.DueDate
	bill.Paid = input.Paid

	if err := s.store.Save(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// TogglePaid flips the paid flag and leaves every other field untouched.
func (s *BillService) TogglePaid(ctx context.Context, id uint) (*model.Bill, error) {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bill.Paid = !bill.Paid
	if err := s.store.Save(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}
