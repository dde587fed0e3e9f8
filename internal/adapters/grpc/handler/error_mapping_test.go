package handler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errorInfo(t *testing.T, err error) *errdetails.ErrorInfo {
	t.Helper()

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	t.Fatalf("no ErrorInfo attached to %v", err)
	return nil
}

func TestToStatusError_Codes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "nil", err: nil, want: codes.OK},
		{name: "invalid rank", err: member.ErrInvalidRank, want: codes.InvalidArgument},
		{name: "unknown quota entry", err: fmt.Errorf("QPBM/coronel: %w", promotion.ErrUnknownQuotaEntry), want: codes.InvalidArgument},
		{name: "invalid criterion", err: promotion.ErrInvalidCriterion, want: codes.InvalidArgument},
		{name: "duplicate registration", err: member.ErrRegistrationAlreadyExists, want: codes.AlreadyExists},
		{name: "member missing", err: member.ErrMemberNotFound, want: codes.NotFound},
		{name: "ceiling", err: promotion.ErrRankCeiling, want: codes.FailedPrecondition},
		{name: "already active", err: promotion.ErrAlreadyActive, want: codes.FailedPrecondition},
		{name: "no admission gate", err: fmt.Errorf("QPBM/soldado: %w", member.ErrAdmissionUnavailable), want: codes.FailedPrecondition},
		{name: "admission over quota", err: &promotion.VacancyDeniedError{Decision: promotion.VacancyDecision{Cadre: member.CadreQPBM, Rank: member.RankSoldado}}, want: codes.FailedPrecondition},
		{name: "concurrent change", err: promotion.ErrConcurrentChange, want: codes.Aborted},
		{name: "unexpected", err: errors.New("boom"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := status.Code(toStatusError(tt.err)); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestToStatusError_VacancyUnavailableCarriesRetryInfo(t *testing.T) {
	t.Parallel()

	err := toStatusError(fmt.Errorf("%w: count active: connection refused", promotion.ErrVacancyCheckUnavailable))
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}

	st, _ := status.FromError(err)
	var retry *errdetails.RetryInfo
	for _, d := range st.Details() {
		if r, ok := d.(*errdetails.RetryInfo); ok {
			retry = r
		}
	}
	if retry == nil || retry.GetRetryDelay().AsDuration() != time.Second {
		t.Fatalf("expected 1s retry delay, got %v", retry)
	}
	if info := errorInfo(t, err); info.GetReason() != ReasonVacancyUnavailable || info.GetDomain() != ErrorDomain {
		t.Fatalf("unexpected error info: %v", info)
	}
}

func TestToStatusError_IneligibleCarriesFailedCriteria(t *testing.T) {
	t.Parallel()

	err := toStatusError(&promotion.IneligibleError{Assessment: &promotion.Assessment{
		Verdict:      promotion.VerdictPartiallyEligible,
		MonthsInRank: 36,
		TotalScore:   decimal.RequireFromString("12.5"),
		Criteria: []promotion.CriterionResult{
			{ID: promotion.CriterionTimeInRank, Satisfied: false},
			{ID: promotion.CriterionMinScore, Satisfied: false},
			{ID: promotion.CriterionActive, Satisfied: true},
		},
	}})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}

	info := errorInfo(t, err)
	if info.GetReason() != ReasonNotEligible {
		t.Fatalf("unexpected reason: %s", info.GetReason())
	}
	md := info.GetMetadata()
	if md["failed_criteria"] != "time_in_rank,min_score" || md["total_score"] != "12.50" || md["verdict"] != "partially_eligible" {
		t.Fatalf("unexpected metadata: %v", md)
	}
}

func TestToStatusError_NoVacancyAndRecordValue(t *testing.T) {
	t.Parallel()

	denied := toStatusError(fmt.Errorf("promote: %w", &promotion.VacancyDeniedError{Decision: promotion.VacancyDecision{
		Rank: member.RankMajor, Cadre: member.CadreQOBM, Quota: 60, Occupied: 60,
	}}))
	info := errorInfo(t, denied)
	if info.GetReason() != ReasonNoVacancy || info.GetMetadata()["occupied"] != "60" {
		t.Fatalf("unexpected no-vacancy info: %v", info)
	}

	bad := toStatusError(&promotion.RecordValueError{RecordID: "r-7", Raw: "abc", Cause: errors.New("not numeric")})
	if status.Code(bad) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", bad)
	}
	if info := errorInfo(t, bad); info.GetMetadata()["record_id"] != "r-7" {
		t.Fatalf("unexpected record value info: %v", info)
	}
}
