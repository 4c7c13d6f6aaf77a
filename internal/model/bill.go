package model

// Bill is a single payable obligation tracked by the service.
type Bill struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	BillName string  `json:"billName"`
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	DueDate  Date    `gorm:"index" json:"dueDate"`
	Paid     bool    `gorm:"default:false" json:"paid"`
	Category string  `json:"category"`
}

// TableName keeps the table name singular.
func (Bill) TableName() string {
	return "bill"
}

// DueStatus describes where a bill stands relative to its due date.
type DueStatus string

const (
	StatusPaid     DueStatus = "paid"
	StatusOverdue  DueStatus = "overdue"
	StatusDueSoon  DueStatus = "due_soon"
	StatusUpcoming DueStatus = "upcoming"
)

// DueSoonDays is how many days ahead an unpaid bill counts as due soon.
const DueSoonDays = 3

// DueStatus classifies the bill against today. Bills without a due date are upcoming.
func (b Bill) DueStatus(today Date) DueStatus {
	if b.Paid {
		return StatusPaid
	}
	if b.DueDate.IsZero() {
		return StatusUpcoming
	}
	days := today.DaysUntil(b.DueDate)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= DueSoonDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}
