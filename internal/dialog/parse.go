package dialog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	reAmount = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]{1,2})?$`)
	reDate   = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})$`)
	rePeriod = regexp.MustCompile(`^(\d{1,2})[./-](\d{2,4})$`)
)

// ParseAmount reads a positive money value, accepting both "." and "," as the
// decimal separator and an optional R$ prefix.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "R$"), "r$"))
	if !reAmount.MatchString(s) {
		return decimal.Decimal{}, errors.New("não entendi o valor. Ex: 123,45")
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Decimal{}, errors.New("não entendi o valor. Ex: 123,45")
	}
	if !v.IsPositive() {
		return decimal.Decimal{}, errors.New("o valor deve ser maior que zero")
	}
	return v, nil
}

// ParseDate reads a calendar date in day/month/year order ("/", "." or "-"
// separated; 2-digit years mean 20xx) and rejects impossible dates.
func ParseDate(s string) (time.Time, error) {
	m := reDate.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, errors.New("não entendi a data. Ex: 10/03/2025")
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, errors.New("essa data não existe no calendário")
	}
	return d, nil
}

// ParsePeriod reads a month/year report period like "03/2025".
func ParsePeriod(s string) (month, year int, err error) {
	m := rePeriod.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, errors.New("não entendi o período. Ex: 03/2025")
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return 0, 0, errors.New("mês inválido. Use algo como 03/2025")
	}
	return month, year, nil
}

// ParseInstallments reads the installment count, bounded to [1,100].
func ParseInstallments(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("não entendi. Informe um número de parcelas entre 1 e 100")
	}
	if n < 1 || n > 100 {
		return 0, errors.New("o número de parcelas deve estar entre 1 e 100")
	}
	return n, nil
}
