package errs

type Code string

const (
	CodeUnauthorized         Code = "Unauthorized"
	CodeForbidden            Code = "Forbidden"
	CodeValidationFailed     Code = "ValidationFailed"
	CodeNotFound             Code = "NotFound"
	CodeCartNotFound         Code = "CartNotFound"
	CodeCartEmpty            Code = "CartEmpty"
	CodeMethodNotSupported   Code = "MethodNotSupported"
	CodeConflictBusy         Code = "Conflict.Busy"
	CodeConflictKeyReused    Code = "Conflict.KeyReusedDifferentPayload"
	CodePricingFailed        Code = "PricingFailed"
	CodeInventoryUnavailable Code = "InventoryUnavailable"
	CodeProviderFailed       Code = "ProviderFailed"
	CodePersistenceFailed    Code = "PersistenceFailed"
	CodeCanceled             Code = "Canceled"
	CodeUnknown              Code = "Unknown"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrUnauthorized         = &Error{Code: CodeUnauthorized}
	ErrForbidden            = &Error{Code: CodeForbidden}
	ErrValidationFailed     = &Error{Code: CodeValidationFailed}
	ErrNotFound             = &Error{Code: CodeNotFound}
	ErrCartNotFound         = &Error{Code: CodeCartNotFound}
	ErrCartEmpty            = &Error{Code: CodeCartEmpty}
	ErrMethodNotSupported   = &Error{Code: CodeMethodNotSupported}
	ErrConflictBusy         = &Error{Code: CodeConflictBusy}
	ErrConflictKeyReused    = &Error{Code: CodeConflictKeyReused}
	ErrPricingFailed        = &Error{Code: CodePricingFailed}
	ErrInventoryUnavailable = &Error{Code: CodeInventoryUnavailable}
	ErrProviderFailed       = &Error{Code: CodeProviderFailed}
	ErrPersistenceFailed    = &Error{Code: CodePersistenceFailed}
	ErrCanceled             = &Error{Code: CodeCanceled}
	ErrUnknown              = &Error{Code: CodeUnknown}
)
