package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bills-manager/internal/model"
)

type recordingSender struct {
	texts []string
	err   error
}

func (r *recordingSender) Send(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

func seedDigestBills(t *testing.T, store *memoryStore, today model.Date) {
	t.Helper()
	ctx := context.Background()
	bills := []model.Bill{
		{BillName: "Power", Amount: 80.10, Receiver: "Grid Co", DueDate: today.AddDays(2), Category: "Utilities"},
		{BillName: "Rent", Amount: 1200, Receiver: "Landlord", DueDate: today.AddDays(-3), Category: "Housing"},
		{BillName: "Gym", Amount: 30, DueDate: today.AddDays(10)},
		{BillName: "Phone", Amount: 45.25, DueDate: today.AddDays(-1), Paid: true},
		{BillName: "Water <cold>", Amount: 19.95, DueDate: today},
	}
	for i := range bills {
		if err := store.Save(ctx, &bills[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestDigest(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2024, time.June, 10, 18, 30, 0, 0, time.UTC)
	today := model.DateOf(now)
	seedDigestBills(t, store, today)

	svc := NewReminderService(store, nil)
	digest, err := svc.Digest(context.Background(), now)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	var names []string
	for _, due := range digest.Bills {
		names = append(names, due.Bill.BillName)
	}
	if got, want := strings.Join(names, ","), "Rent,Water <cold>,Power"; got != want {
		t.Errorf("Digest order: got %s, want %s", got, want)
	}
	if digest.Bills[0].Status != model.StatusOverdue || digest.Bills[0].DaysLeft != -3 {
		t.Errorf("Rent: got %+v", digest.Bills[0])
	}
	if got := digest.Outstanding.StringFixed(2); got != "1300.05" {
		t.Errorf("Outstanding = %s, want 1300.05", got)
	}

	text := digest.Text()
	for _, want := range []string{"2024-06-10", "overdue by 3 d.", "Water &lt;cold&gt;", "<b>today</b>", "in 2 d.", "1300.05"} {
		if !strings.Contains(text, want) {
			t.Errorf("Digest text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Gym") || strings.Contains(text, "Phone") {
		t.Errorf("Digest text lists bills that are not due:\n%s", text)
	}
}

func TestNotify(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	t.Run("sends when something is due", func(t *testing.T) {
		store := newMemoryStore()
		seedDigestBills(t, store, model.DateOf(now))
		sender := &recordingSender{}

		if err := NewReminderService(store, sender).Notify(context.Background(), now); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
		if len(sender.texts) != 1 {
			t.Fatalf("Expected one message, got %d", len(sender.texts))
		}
	})

	t.Run("stays quiet when nothing is due", func(t *testing.T) {
		sender := &recordingSender{}
		if err := NewReminderService(newMemoryStore(), sender).Notify(context.Background(), now); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
		if len(sender.texts) != 0 {
			t.Errorf("Expected no messages, got %d", len(sender.texts))
		}
	})

	t.Run("reports sender failures", func(t *testing.T) {
		store := newMemoryStore()
		seedDigestBills(t, store, model.DateOf(now))
		boom := errors.New("telegram down")

		err := NewReminderService(store, &recordingSender{err: boom}).Notify(context.Background(), now)
		if !errors.Is(err, boom) {
			t.Errorf("Expected sender error, got %v", err)
		}
	})

	t.Run("works without a sender", func(t *testing.T) {
		store := newMemoryStore()
		seedDigestBills(t, store, model.DateOf(now))
		if err := NewReminderService(store, nil).Notify(context.Background(), now); err != nil {
			t.Errorf("Notify failed: %v", err)
		}
	})
}
