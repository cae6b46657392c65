package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the recurrence category of a conta.
type Kind string

const (
	KindSimple      Kind = "simple"
	KindInstallment Kind = "installment"
	KindWeekly      Kind = "weekly"
	KindMonthly     Kind = "monthly"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSimple, KindInstallment, KindWeekly, KindMonthly:
		return true
	}
	return false
}

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Conta is a single tracked financial obligation.
type Conta struct {
	ID                int64
	UserID            int64 // owning Telegram chat
	Descricao         string
	Valor             decimal.Decimal
	Vencimento        time.Time // date-only, UTC midnight
	Status            Status
	DataPagamento     *time.Time // set iff Status == paid
	Tipo              Kind
	ParcelasRestantes *int // set iff Tipo == installment
	SerieID           *uuid.UUID
	CreatedAt         time.Time
}

// ReferenceDate places the conta into a reporting period: due date while
// pending, payment date once paid.
func (c Conta) ReferenceDate() time.Time {
	if c.Status == StatusPaid && c.DataPagamento != nil {
		return *c.DataPagamento
	}
	return c.Vencimento
}

// ContaRepo is the persistence contract required by the dialog and report
// layers. MarkPaid must be an atomic pending→paid transition and report
// whether it actually happened, so renewal can fire at most once per payment.
type ContaRepo interface {
	Create(ctx context.Context, c Conta) (int64, error)
	CreateBatch(ctx context.Context, cs []Conta) error
	Get(ctx context.Context, id int64) (Conta, error)
	ListByStatus(ctx context.Context, userID int64, st Status) ([]Conta, error)
	ListByPeriod(ctx context.Context, userID int64, month, year int) ([]Conta, error)
	UpdateDescription(ctx context.Context, id int64, descricao string) error
	UpdateAmount(ctx context.Context, id int64, valor decimal.Decimal) error
	UpdateDueDate(ctx context.Context, id int64, vencimento time.Time) error
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, st Status) (int64, error)
}
