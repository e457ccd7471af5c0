package trade

import "errors"

var (
	// ErrStorageUnavailable wraps every backend failure. It is fatal to the current
	// request and is not retried here.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRecordNotFound is the expected outcome of a duplicate or racing completion.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidRarity is returned for rarities outside the fixed set.
	ErrInvalidRarity = errors.New("invalid rarity")
	// ErrInvalidInput is returned for empty card names, ids and users.
	ErrInvalidInput = errors.New("invalid input")
)

// IsValidation reports whether err was caused by caller-supplied data.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRarity) || errors.Is(err, ErrInvalidInput)
}
