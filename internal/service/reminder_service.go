package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bills-manager/internal/model"
)

// Sender delivers a rendered digest somewhere outside the process.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// DueBill is an unpaid bill that needs attention.
type DueBill struct {
	Bill     model.Bill
	Status   model.DueStatus
	DaysLeft int
}

// Digest lists overdue and soon-due bills for one day.
type Digest struct {
	Date        model.Date
	Bills       []DueBill
	Outstanding decimal.Decimal
}

func (d Digest) Empty() bool {
	return len(d.Bills) == 0
}

// Text renders the digest as Telegram-flavoured HTML.
func (d Digest) Text() string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Bills due</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", d.Date))

	if d.Empty() {
		builder.WriteString("— nothing due\n")
		return strings.TrimSpace(builder.String())
	}
	for _, due := range d.Bills {
		builder.WriteString(formatDueBill(due))
	}
	builder.WriteString(fmt.Sprintf("\n💰 Outstanding: <b>%s</b>", d.Outstanding.StringFixed(2)))
	return strings.TrimSpace(builder.String())
}

// ReminderService builds due-bill digests and hands them to a Sender.
type ReminderService struct {
	store  BillStore
	sender Sender
}

// NewReminderService returns a service that only logs digests when sender is nil.
func NewReminderService(store BillStore, sender Sender) *ReminderService {
	return &ReminderService{store: store, sender: sender}
}

func (s *ReminderService) Digest(ctx context.Context, now time.Time) (Digest, error) {
	bills, err := s.store.FindAll(ctx)
	if err != nil {
		return Digest{}, err
	}

	today := model.DateOf(now)
	digest := Digest{Date: today, Outstanding: decimal.Zero}
	for _, bill := range bills {
		status := bill.DueStatus(today)
		if status != model.StatusOverdue && status != model.StatusDueSoon {
			continue
		}
		digest.Bills = append(digest.Bills, DueBill{
			Bill:     bill,
			Status:   status,
			DaysLeft: today.DaysUntil(bill.DueDate),
		})
		digest.Outstanding = digest.Outstanding.Add(decimal.NewFromFloat(bill.Amount))
	}
	digest.Outstanding = digest.Outstanding.Round(2)

	sort.SliceStable(digest.Bills, func(i, j int) bool {
		a, b := digest.Bills[i].Bill, digest.Bills[j].Bill
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})

	return digest, nil
}

// Notify builds today's digest and sends it when there is something due.
func (s *ReminderService) Notify(ctx context.Context, now time.Time) error {
	digest, err := s.Digest(ctx, now)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	if digest.Empty() {
		slog.Debug("Nothing due", "date", digest.Date)
		return nil
	}

	slog.Info("Bills due",
		"date", digest.Date,
		"count", len(digest.Bills),
		"outstanding", digest.Outstanding.StringFixed(2),
	)
	if s.sender == nil {
		return nil
	}
	if err := s.sender.Send(ctx, digest.Text()); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func formatDueBill(due DueBill) string {
	var sb strings.Builder

	icon := "⏳"
	if due.Status == model.StatusOverdue {
		icon = "⚠️"
	}

	bill := due.Bill
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(bill.BillName))))
	if category := strings.TrimSpace(bill.Category); category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(category)))
	}

	sb.WriteString(fmt.Sprintf("\n   💵 %s", decimal.NewFromFloat(bill.Amount).StringFixed(2)))
	if receiver := strings.TrimSpace(bill.Receiver); receiver != "" {
		sb.WriteString(fmt.Sprintf(" to %s", html.EscapeString(receiver)))
	}

	switch {
	case due.DaysLeft < 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, <b>overdue by %d d.</b>", bill.DueDate, -due.DaysLeft))
	case due.DaysLeft == 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, <b>today</b>", bill.DueDate))
	default:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, in %d d.", bill.DueDate, due.DaysLeft))
	}

	sb.WriteByte('\n')
	return sb.String()
}
