// Package session keeps per-user dialogue state between Telegram turns.
package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markimagemTv/botrailway/internal/domain"
)

// Step names the question the bot is currently waiting on. A user with no
// stored session is idle.
type Step string

const (
	StepDescription  Step = "description"
	StepAmount       Step = "amount"
	StepDueDate      Step = "due_date"
	StepKind         Step = "kind"
	StepInstallments Step = "installments"
	StepUpdateValue  Step = "update_value"
	StepReportPeriod Step = "report_period"
	StepRenewConfirm Step = "renew_confirm"
)

// Field selects which conta field an update sub-flow targets.
type Field string

const (
	FieldDescricao  Field = "descricao"
	FieldValor      Field = "valor"
	FieldVencimento Field = "vencimento"
)

// Draft holds the answers collected so far by the add-conta flow.
type Draft struct {
	Descricao  string          `json:"descricao"`
	Valor      decimal.Decimal `json:"valor"`
	Vencimento time.Time       `json:"vencimento"`
	Tipo       domain.Kind     `json:"tipo"`
}

type Session struct {
	UserID      int64     `json:"user_id"`
	Step        Step      `json:"step"`
	Draft       Draft     `json:"draft"`
	TargetID    int64     `json:"target_id,omitempty"`    // update / renewal target
	UpdateField Field     `json:"update_field,omitempty"` // only for StepUpdateValue
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the transient per-user state keeper. Implementations evict stale
// sessions after a TTL; none guarantees survival across restarts.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, bool, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, userID int64) error
}
