package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/durationpb"
)

// ErrorDomain は ErrorInfo の Domain です。
const ErrorDomain = "personnel.promotion"

// ErrorInfo の Reason です。
const (
	ReasonNotEligible        = "NOT_ELIGIBLE"
	ReasonNoVacancy          = "NO_VACANCY"
	ReasonVacancyUnavailable = "VACANCY_CHECK_UNAVAILABLE"
	ReasonInvalidRecordValue = "INVALID_RECORD_VALUE"
	ReasonRankCeiling        = "RANK_CEILING"
	ReasonNotAdmissionDate   = "NOT_ADMISSION_DATE"
)

const vacancyRetryDelay = time.Second

func toStatusError(err error) error {
	var (
		ineligible  *promotion.IneligibleError
		denied      *promotion.VacancyDeniedError
		recordValue *promotion.RecordValueError
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, promotion.ErrVacancyCheckUnavailable):
		return withDetails(status.New(codes.Unavailable, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonVacancyUnavailable, Domain: ErrorDomain},
			&errdetails.RetryInfo{RetryDelay: durationpb.New(vacancyRetryDelay)},
		)
	case errors.As(err, &ineligible):
		metadata := map[string]string{"failed_criteria": strings.Join(ineligible.FailedCriteria(), ",")}
		if a := ineligible.Assessment; a != nil {
			metadata["verdict"] = string(a.Verdict)
			metadata["total_score"] = a.TotalScore.StringFixed(2)
			metadata["months_in_rank"] = strconv.Itoa(a.MonthsInRank)
		}
		return withDetails(status.New(codes.FailedPrecondition, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonNotEligible, Domain: ErrorDomain, Metadata: metadata},
		)
	case errors.As(err, &denied):
		d := denied.Decision
		return withDetails(status.New(codes.FailedPrecondition, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonNoVacancy, Domain: ErrorDomain, Metadata: map[string]string{
				"cadre":    string(d.Cadre),
				"rank":     string(d.Rank),
				"quota":    strconv.Itoa(d.Quota),
				"occupied": strconv.Itoa(d.Occupied),
			}},
		)
	case errors.As(err, &recordValue):
		return withDetails(status.New(codes.FailedPrecondition, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonInvalidRecordValue, Domain: ErrorDomain, Metadata: map[string]string{
				"record_id": recordValue.RecordID,
			}},
		)
	case errors.Is(err, promotion.ErrRankCeiling):
		return withDetails(status.New(codes.FailedPrecondition, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonRankCeiling, Domain: ErrorDomain},
		)
	case errors.Is(err, promotion.ErrNotAdmissionDate):
		return withDetails(status.New(codes.FailedPrecondition, err.Error()),
			&errdetails.ErrorInfo{Reason: ReasonNotAdmissionDate, Domain: ErrorDomain},
		)
	case errors.Is(err, promotion.ErrAlreadyActive),
		errors.Is(err, member.ErrAdmissionUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, promotion.ErrConcurrentChange):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, member.ErrInvalidID),
		errors.Is(err, member.ErrInvalidRegistration),
		errors.Is(err, member.ErrInvalidName),
		errors.Is(err, member.ErrInvalidRank),
		errors.Is(err, member.ErrInvalidCadre),
		errors.Is(err, member.ErrRankCadreMismatch),
		errors.Is(err, member.ErrInvalidSituation),
		errors.Is(err, member.ErrInvalidEntryDate),
		errors.Is(err, member.ErrInvalidDateRange),
		errors.Is(err, member.ErrInvalidPageSize),
		errors.Is(err, member.ErrInvalidPageToken),
		errors.Is(err, record.ErrInvalidID),
		errors.Is(err, record.ErrInvalidMemberID),
		errors.Is(err, record.ErrInvalidKind),
		errors.Is(err, record.ErrInvalidSubtype),
		errors.Is(err, record.ErrInvalidPoints),
		errors.Is(err, record.ErrNegativePoints),
		errors.Is(err, record.ErrMissingReceivedAt),
		errors.Is(err, record.ErrInvalidReceivedAt),
		errors.Is(err, record.ErrDroppedNotCourse),
		errors.Is(err, promotion.ErrInvalidDate),
		errors.Is(err, promotion.ErrInvalidRank),
		errors.Is(err, promotion.ErrInvalidCadre),
		errors.Is(err, promotion.ErrInvalidCriterion),
		errors.Is(err, promotion.ErrUnknownQuotaEntry):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, member.ErrRegistrationAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, member.ErrMemberNotFound),
		errors.Is(err, record.ErrRecordNotFound),
		errors.Is(err, record.ErrMemberNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// withDetails は詳細を付与できない場合でもコードとメッセージは保ちます。
func withDetails(st *status.Status, details ...protoadapt.MessageV1) error {
	detailed, err := st.WithDetails(details...)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
