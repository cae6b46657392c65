package domain

import "errors"

var (
	// ErrNotFound means the referenced conta does not exist (or was removed).
	ErrNotFound = errors.New("conta não encontrada")

	// ErrAlreadyPaid means a pending→paid transition was requested on a conta
	// that is already paid. Callers treat it as a no-op warning.
	ErrAlreadyPaid = errors.New("conta já está paga")
)
