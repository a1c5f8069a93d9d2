package service

// Error kinds surfaced to the transport layer. Validation kinds live in
// the validate package; these cover the constraint and authorization
// outcomes.
const (
	KindDuplicateDateEntry = "DuplicateDateEntry"
	KindNotFound           = "NotFound"
	KindForbidden          = "Forbidden"
)

// Error is a domain failure with a stable kind and a user-actionable
// message. It deliberately carries no storage detail.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrDuplicateDateEntry = &Error{
		Kind:    KindDuplicateDateEntry,
		Message: "You already have an entry for this date; edit the existing entry instead",
	}
	ErrNotFound = &Error{
		Kind:    KindNotFound,
		Message: "Record not found",
	}
	ErrForbidden = &Error{
		Kind:    KindForbidden,
		Message: "You do not own this record",
	}
)
