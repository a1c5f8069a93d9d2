// Package validate holds the single rule set for egg-production entries.
// Both the authoritative create/update path and the pre-submission
// /validate endpoint call ProductionEntry, so a client-observed verdict is
// always reproducible server-side with identical message text.
package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cooplog/internal/utils"
)

const (
	FieldDate  = "date"
	FieldCount = "count"
)

const (
	KindDateInvalid     = "DateInvalid"
	KindDateInFuture    = "DateInFuture"
	KindCountNotInteger = "CountNotInteger"
	KindCountNegative   = "CountNegative"
)

// FieldError is one rule violation, addressed to the input field it
// concerns.
type FieldError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Errors collects every violation found in one pass; rules are never
// short-circuited, so a bad date and a bad count surface together.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// Entry is the normalized result of a successful validation: a date-only
// UTC value and an integral count.
type Entry struct {
	Date  time.Time
	Count int
}

// ProductionEntry applies every rule to the raw (date, count) input and
// returns either the normalized entry or the full violation list. The date
// bound is evaluated against the calendar date of now; a record dated
// today passes, tomorrow fails.
func ProductionEntry(date string, count float64, now time.Time) (Entry, Errors) {
	var errs Errors

	parsed, parseErr := utils.ParseDate(date)
	if parseErr != nil {
		errs = append(errs, fieldError(FieldDate, KindDateInvalid))
	} else if parsed.After(utils.DateOnly(now)) {
		errs = append(errs, fieldError(FieldDate, KindDateInFuture))
	}

	if count != math.Trunc(count) {
		errs = append(errs, fieldError(FieldCount, KindCountNotInteger))
	}
	if count < 0 {
		errs = append(errs, fieldError(FieldCount, KindCountNegative))
	}

	if len(errs) > 0 {
		return Entry{}, errs
	}
	return Entry{Date: parsed, Count: int(count)}, nil
}

func fieldError(field, kind string) FieldError {
	return FieldError{Field: field, Kind: kind, Message: MessageFor(field, kind)}
}
