package promotion

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRecordValue      = errors.New("promotion: invalid record value")
	ErrUnknownQuotaEntry       = errors.New("promotion: unknown quota entry")
	ErrInvalidDate             = errors.New("promotion: invalid date")
	ErrVacancyCheckUnavailable = errors.New("promotion: vacancy check unavailable")
	ErrInvalidStatutes         = errors.New("promotion: invalid statutes")
	ErrUnknownRankRule         = errors.New("promotion: rank has no statutory rule")
	ErrInvalidCriterion        = errors.New("promotion: invalid ranking criterion")
	ErrInvalidOccupancy        = errors.New("promotion: occupied count must not be negative")
	ErrMemberRequired          = errors.New("promotion: member is required")
	ErrInvalidRank             = errors.New("promotion: invalid rank")
	ErrInvalidCadre            = errors.New("promotion: invalid cadre")
	ErrNotEligible             = errors.New("promotion: member is not eligible")
	ErrNoVacancy               = errors.New("promotion: no vacancy")
	ErrRankCeiling             = errors.New("promotion: no further promotion exists")
	ErrNotAdmissionDate        = errors.New("promotion: effective date is not an admission date")
	ErrAlreadyActive           = errors.New("promotion: member is already active")
	ErrConcurrentChange        = errors.New("promotion: member changed during the operation")
)

// RecordValueError は評点値を解釈できなかった経歴記録を示します。
type RecordValueError struct {
	RecordID string
	Raw      string
	Cause    error
}

func (e *RecordValueError) Error() string {
	return fmt.Sprintf("%v: record %s value %q: %v", ErrInvalidRecordValue, e.RecordID, e.Raw, e.Cause)
}

// Unwrap は ErrInvalidRecordValue と原因の両方を返します。
func (e *RecordValueError) Unwrap() []error {
	return []error{ErrInvalidRecordValue, e.Cause}
}

// IneligibleError は昇任要件を満たさなかった判定結果を保持します。
type IneligibleError struct {
	Assessment *Assessment
}

func (e *IneligibleError) Error() string {
	if e.Assessment == nil {
		return ErrNotEligible.Error()
	}
	return fmt.Sprintf("%v: %s (%s)", ErrNotEligible, e.Assessment.Verdict, e.Assessment.BlockingReason)
}

func (e *IneligibleError) Unwrap() error {
	return ErrNotEligible
}

// FailedCriteria は満たされなかった基準の ID を返します。
func (e *IneligibleError) FailedCriteria() []string {
	if e.Assessment == nil {
		return nil
	}
	var ids []string
	for _, c := range e.Assessment.Criteria {
		if !c.Satisfied {
			ids = append(ids, string(c.ID))
		}
	}
	return ids
}

// VacancyDeniedError は定員により拒否された判定を保持します。
type VacancyDeniedError struct {
	Decision VacancyDecision
}

func (e *VacancyDeniedError) Error() string {
	return fmt.Sprintf("%v: %s/%s: %s", ErrNoVacancy, e.Decision.Cadre, e.Decision.Rank, e.Decision.Message)
}

func (e *VacancyDeniedError) Unwrap() error {
	return ErrNoVacancy
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
