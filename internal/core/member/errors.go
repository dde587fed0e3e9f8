package member

import "errors"

var (
	ErrInvalidID                 = errors.New("member: invalid id")
	ErrInvalidRegistration       = errors.New("member: invalid registration number")
	ErrInvalidName               = errors.New("member: invalid name")
	ErrInvalidRank               = errors.New("member: invalid rank")
	ErrInvalidCadre              = errors.New("member: invalid cadre")
	ErrRankCadreMismatch         = errors.New("member: rank does not belong to cadre track")
	ErrInvalidSituation          = errors.New("member: invalid situation")
	ErrInvalidEntryDate          = errors.New("member: invalid entry date")
	ErrInvalidDateRange          = errors.New("member: invalid date sequence")
	ErrInvalidPageSize           = errors.New("member: invalid page size")
	ErrInvalidPageToken          = errors.New("member: invalid page token")
	ErrMemberNotFound            = errors.New("member: not found")
	ErrRegistrationAlreadyExists = errors.New("member: registration number already exists")
	ErrAdmissionUnavailable      = errors.New("member: no quota check configured for active placement")
)
