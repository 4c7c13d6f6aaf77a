package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"bills-manager/internal/model"
)

// memoryStore is an in-memory BillStore for service tests.
type memoryStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]model.Bill
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[uint]model.Bill)}
}

func (m *memoryStore) Save(_ context.Context, bill *model.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if bill.ID == 0 {
		m.nextID++
		bill.ID = m.nextID
	}
	m.rows[bill.ID] = *bill
	return nil
}

func (m *memoryStore) FindAll(_ context.Context) ([]model.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var bills []model.Bill
	for _, b := range m.rows {
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID < bills[j].ID })
	return bills, nil
}

func (m *memoryStore) FindByID(_ context.Context, id uint) (*model.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memoryStore) Delete(_ context.Context, bill *model.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[bill.ID]; !ok {
		return errors.New("delete of missing row")
	}
	delete(m.rows, bill.ID)
	return nil
}
