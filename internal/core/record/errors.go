package record

import "errors"

var (
	ErrInvalidID         = errors.New("record: invalid id")
	ErrInvalidMemberID   = errors.New("record: invalid member id")
	ErrInvalidKind       = errors.New("record: invalid kind")
	ErrInvalidSubtype    = errors.New("record: invalid subtype")
	ErrInvalidPoints     = errors.New("record: point value is not numeric")
	ErrNegativePoints    = errors.New("record: point value must not be negative")
	ErrMissingReceivedAt = errors.New("record: received date is required")
	ErrInvalidReceivedAt = errors.New("record: received date is in the future")
	ErrDroppedNotCourse  = errors.New("record: only courses can be marked as dropped")
	ErrRecordNotFound    = errors.New("record: not found")
	ErrMemberNotFound    = errors.New("record: member not found")
)
