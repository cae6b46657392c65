package recurrence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markimagemTv/botrailway/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddPeriodsMonthClamping(t *testing.T) {
	// 31 Jan clamps to the last day of February
	assert.Equal(t, date(2025, time.February, 28), AddPeriods(date(2025, time.January, 31), UnitMonth, 1))
	assert.Equal(t, date(2024, time.February, 29), AddPeriods(date(2024, time.January, 31), UnitMonth, 1))

	// mid-month days pass through untouched
	assert.Equal(t, date(2025, time.April, 15), AddPeriods(date(2025, time.March, 15), UnitMonth, 1))

	// year rollover
	assert.Equal(t, date(2026, time.January, 10), AddPeriods(date(2025, time.December, 10), UnitMonth, 1))
	assert.Equal(t, date(2026, time.March, 31), AddPeriods(date(2025, time.March, 31), UnitMonth, 12))
}

func TestAddPeriodsWeeks(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 8), AddPeriods(date(2025, time.January, 1), UnitWeek, 1))
	assert.Equal(t, date(2025, time.March, 5), AddPeriods(date(2025, time.January, 1), UnitWeek, 9))
}

func TestSchedule(t *testing.T) {
	got := Schedule(date(2025, time.January, 15), UnitMonth, 3)
	want := []time.Time{
		date(2025, time.January, 15),
		date(2025, time.February, 15),
		date(2025, time.March, 15),
	}
	assert.Equal(t, want, got)
}

func TestPlanInstallments(t *testing.T) {
	template := domain.Conta{
		UserID:     7,
		Descricao:  "Notebook",
		Valor:      decimal.NewFromInt(300),
		Vencimento: date(2025, time.January, 15),
		Tipo:       domain.KindInstallment,
	}
	rows := Plan(template, 3)
	require.Len(t, rows, 3)

	wantDue := []time.Time{
		date(2025, time.January, 15),
		date(2025, time.February, 15),
		date(2025, time.March, 15),
	}
	wantRemaining := []int{3, 2, 1}
	for i, c := range rows {
		assert.Equal(t, domain.StatusPending, c.Status)
		assert.Equal(t, wantDue[i], c.Vencimento)
		require.NotNil(t, c.ParcelasRestantes)
		assert.Equal(t, wantRemaining[i], *c.ParcelasRestantes)
		require.NotNil(t, c.SerieID)
		assert.Equal(t, *rows[0].SerieID, *c.SerieID)
	}

	// the last row never spawns a successor
	_, ok := Successor(rows[2])
	assert.False(t, ok)
}

func TestPlanSingleRow(t *testing.T) {
	template := domain.Conta{
		Descricao:  "Aluguel",
		Valor:      decimal.NewFromInt(1500),
		Vencimento: date(2025, time.March, 10),
		Tipo:       domain.KindMonthly,
	}
	rows := Plan(template, 1)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ParcelasRestantes)
	assert.Equal(t, domain.StatusPending, rows[0].Status)
}

func TestSuccessor(t *testing.T) {
	paidAt := date(2025, time.March, 10)
	monthly := domain.Conta{
		ID:            4,
		Descricao:     "Aluguel",
		Valor:         decimal.NewFromInt(1500),
		Vencimento:    date(2025, time.March, 10),
		Status:        domain.StatusPaid,
		DataPagamento: &paidAt,
		Tipo:          domain.KindMonthly,
	}
	next, ok := Successor(monthly)
	require.True(t, ok)
	assert.Equal(t, int64(0), next.ID)
	assert.Equal(t, domain.StatusPending, next.Status)
	assert.Nil(t, next.DataPagamento)
	assert.Equal(t, date(2025, time.April, 10), next.Vencimento)

	weekly := monthly
	weekly.Tipo = domain.KindWeekly
	next, ok = Successor(weekly)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 17), next.Vencimento)

	simple := monthly
	simple.Tipo = domain.KindSimple
	_, ok = Successor(simple)
	assert.False(t, ok)
}

func TestSuccessorInstallmentDecrement(t *testing.T) {
	remaining := 3
	c := domain.Conta{
		Descricao:         "Notebook",
		Valor:             decimal.NewFromInt(300),
		Vencimento:        date(2025, time.January, 15),
		Tipo:              domain.KindInstallment,
		ParcelasRestantes: &remaining,
	}
	next, ok := Successor(c)
	require.True(t, ok)
	require.NotNil(t, next.ParcelasRestantes)
	assert.Equal(t, 2, *next.ParcelasRestantes)
	assert.Equal(t, date(2025, time.February, 15), next.Vencimento)

	last := 1
	c.ParcelasRestantes = &last
	_, ok = Successor(c)
	assert.False(t, ok)
}
