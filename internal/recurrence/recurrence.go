// Package recurrence holds the pure date/schedule logic: due-date sequences
// for installment and repeating contas, and the renewal decision taken when
// a conta is marked paid.
package recurrence

import (
	"time"

	"github.com/google/uuid"

	"github.com/markimagemTv/botrailway/internal/domain"
)

type Unit string

const (
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Policy decides how weekly/monthly contas repeat.
type Policy string

const (
	// PolicyPerpetual creates one row up-front and offers a successor after
	// each payment, until the user declines.
	PolicyPerpetual Policy = "perpetual"
	// PolicyFixedCount pre-generates a fixed number of future rows at
	// creation time and never renews on payment.
	PolicyFixedCount Policy = "fixed-count"
)

func (p Policy) Valid() bool {
	return p == PolicyPerpetual || p == PolicyFixedCount
}

// unitFor maps a repeating kind to its calendar unit. Installments advance
// month by month.
func unitFor(k domain.Kind) Unit {
	if k == domain.KindWeekly {
		return UnitWeek
	}
	return UnitMonth
}

// AddPeriods advances base by n units. Weeks are exact 7-day steps. Months
// preserve the day-of-month when it exists in the target month and clamp to
// the month's last day otherwise (31 Jan + 1 month = 28 or 29 Feb).
func AddPeriods(base time.Time, unit Unit, n int) time.Time {
	if unit == UnitWeek {
		return base.AddDate(0, 0, 7*n)
	}
	y, m, d := base.Date()
	months := int(m) - 1 + n
	y += months / 12
	months %= 12
	if months < 0 {
		months += 12
		y--
	}
	target := time.Month(months + 1)
	if last := daysIn(y, target); d > last {
		d = last
	}
	return time.Date(y, target, d, 0, 0, 0, 0, base.Location())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Schedule returns count due dates: base, base+1·unit, base+2·unit, …
func Schedule(base time.Time, unit Unit, count int) []time.Time {
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, AddPeriods(base, unit, i))
	}
	return out
}

// Plan batch-generates the pending rows for a new conta. template supplies
// user, description, amount, first due date and kind; count is the number of
// rows (1 for simple or perpetual repeats). Installment rows carry a strictly
// decreasing remaining count ending at 1. All rows share one series id.
func Plan(template domain.Conta, count int) []domain.Conta {
	if count < 1 {
		count = 1
	}
	serie := uuid.New()
	dates := Schedule(template.Vencimento, unitFor(template.Tipo), count)

	rows := make([]domain.Conta, 0, count)
	for i, due := range dates {
		c := template
		c.Vencimento = due
		c.Status = domain.StatusPending
		c.DataPagamento = nil
		c.SerieID = &serie
		if c.Tipo == domain.KindInstallment {
			remaining := count - i
			c.ParcelasRestantes = &remaining
		} else {
			c.ParcelasRestantes = nil
		}
		rows = append(rows, c)
	}
	return rows
}

// Successor computes the next occurrence spawned by paying c, or reports that
// none is due. Weekly/monthly contas yield a pending copy one unit after the
// just-paid due date. Installments yield the decremented next row only while
// more than one remains. Simple contas never renew.
func Successor(c domain.Conta) (domain.Conta, bool) {
	switch c.Tipo {
	case domain.KindWeekly, domain.KindMonthly:
		next := c
		next.ID = 0
		next.Vencimento = AddPeriods(c.Vencimento, unitFor(c.Tipo), 1)
		next.Status = domain.StatusPending
		next.DataPagamento = nil
		return next, true
	case domain.KindInstallment:
		if c.ParcelasRestantes == nil || *c.ParcelasRestantes <= 1 {
			return domain.Conta{}, false
		}
		next := c
		next.ID = 0
		next.Vencimento = AddPeriods(c.Vencimento, UnitMonth, 1)
		next.Status = domain.StatusPending
		next.DataPagamento = nil
		remaining := *c.ParcelasRestantes - 1
		next.ParcelasRestantes = &remaining
		return next, true
	default:
		return domain.Conta{}, false
	}
}
