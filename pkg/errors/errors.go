package errors

import "errors"

// ErrDuplicateReport a person already has a report with the same timestamp.
// Pairing orders strictly by timestamp, so such a row would be ambiguous.
var ErrDuplicateReport = errors.New("report with the same timestamp already exists for this person")
