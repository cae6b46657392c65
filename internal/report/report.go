// Package report aggregates contas for a month/year period into a listing
// plus paid and pending totals.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markimagemTv/botrailway/internal/domain"
)

type Line struct {
	Descricao string
	Valor     decimal.Decimal
	Data      time.Time // reference date: due while pending, paid once paid
	Status    domain.Status
}

type Monthly struct {
	Month         int
	Year          int
	Lines         []Line
	TotalPago     decimal.Decimal
	TotalPendente decimal.Decimal
}

// Empty reports the explicit "nothing found" outcome for a period.
func (m Monthly) Empty() bool { return len(m.Lines) == 0 }

type Generator struct {
	contas domain.ContaRepo
}

func NewGenerator(contas domain.ContaRepo) *Generator {
	return &Generator{contas: contas}
}

func (g *Generator) Monthly(ctx context.Context, userID int64, month, year int) (Monthly, error) {
	rows, err := g.contas.ListByPeriod(ctx, userID, month, year)
	if err != nil {
		return Monthly{}, fmt.Errorf("report %02d/%d: %w", month, year, err)
	}
	return Build(month, year, rows), nil
}

// Build folds the rows into a Monthly, ordered by reference date ascending.
func Build(month, year int, rows []domain.Conta) Monthly {
	m := Monthly{
		Month:         month,
		Year:          year,
		TotalPago:     decimal.Zero,
		TotalPendente: decimal.Zero,
	}
	for _, c := range rows {
		m.Lines = append(m.Lines, Line{
			Descricao: c.Descricao,
			Valor:     c.Valor,
			Data:      c.ReferenceDate(),
			Status:    c.Status,
		})
		if c.Status == domain.StatusPaid {
			m.TotalPago = m.TotalPago.Add(c.Valor)
		} else {
			m.TotalPendente = m.TotalPendente.Add(c.Valor)
		}
	}
	sort.SliceStable(m.Lines, func(i, j int) bool {
		return m.Lines[i].Data.Before(m.Lines[j].Data)
	})
	return m
}

// Format renders the Telegram message for a monthly report.
func Format(m Monthly) string {
	if m.Empty() {
		return fmt.Sprintf("📊 Nenhuma conta encontrada em %02d/%d.", m.Month, m.Year)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 *Relatório %02d/%d*\n\n", m.Month, m.Year))
	for _, l := range m.Lines {
		mark := "⏳"
		if l.Status == domain.StatusPaid {
			mark = "✅"
		}
		b.WriteString(fmt.Sprintf("%s %s — R$ %s (%s)\n",
			mark, l.Descricao, l.Valor.StringFixed(2), l.Data.Format("02/01/2006")))
	}
	b.WriteString(fmt.Sprintf("\n✅ Total pago: R$ %s\n", m.TotalPago.StringFixed(2)))
	b.WriteString(fmt.Sprintf("⏳ Total pendente: R$ %s\n", m.TotalPendente.StringFixed(2)))
	return b.String()
}
