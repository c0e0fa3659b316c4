package menu

import "errors"

var (
	ErrNotFound             = errors.New("entity not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrConfirmationRequired = errors.New("confirmation required for destructive action")
	ErrLastPriceVariation   = errors.New("an item without a base price must keep at least one price variation")
	ErrNoOpenDraft          = errors.New("no item is being edited")
	ErrVariationIndex       = errors.New("price variation index out of range")
	ErrInvalidStatus        = errors.New("status must be one of active, disabled, outOfStock")
	ErrSaveInFlight         = errors.New("a save is already in progress")
)

// ValidationError is a user-correctable problem with one form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
