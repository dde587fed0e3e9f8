package handler

import (
	"context"

	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PromotionHandler は PromotionService の gRPC 実装です。
type PromotionHandler struct {
	svc promotion.UseCase
}

var _ PromotionServiceServer = (*PromotionHandler)(nil)

// NewPromotionHandler は PromotionHandler を生成します。
func NewPromotionHandler(svc promotion.UseCase) *PromotionHandler {
	return &PromotionHandler{svc: svc}
}

// EvaluateMember は隊員の評点表と昇任要件の判定結果を返します。
func (h *PromotionHandler) EvaluateMember(ctx context.Context, req *EvaluateMemberRequest) (*EvaluateMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	asOf, err := parseOptionalDate(req.AsOf)
	if err != nil {
		return nil, toStatusError(err)
	}

	evaluation, err := h.svc.EvaluateMember(ctx, promotion.EvaluateMemberInput{MemberID: req.MemberID, AsOf: asOf})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &EvaluateMemberResponse{
		Member:     toWireMember(evaluation.Member),
		Sheet:      ScoreSheetToWire(evaluation.Sheet),
		Assessment: AssessmentToWire(evaluation.Assessment),
	}, nil
}

// CheckVacancy は区分・階級の欠員を照会します。
func (h *PromotionHandler) CheckVacancy(ctx context.Context, req *CheckVacancyRequest) (*CheckVacancyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	decision, err := h.svc.CheckVacancy(ctx, promotion.CheckVacancyInput{
		Rank:  rankOf(req.Rank),
		Cadre: cadreOf(req.Cadre),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &CheckVacancyResponse{Vacancy: VacancyToWire(decision)}, nil
}

// PromoteMember は隊員を次の階級へ昇任させます。
func (h *PromotionHandler) PromoteMember(ctx context.Context, req *PromoteMemberRequest) (*PromoteMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	effective, err := parseOptionalDate(req.EffectiveDate)
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.svc.PromoteMember(ctx, promotion.PromoteMemberInput{
		MemberID:        req.MemberID,
		EffectiveDate:   effective,
		AllowOutOfCycle: req.AllowOutOfCycle,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &PromoteMemberResponse{
		Member:     toWireMember(result.Member),
		Promotion:  toWirePromotion(result.Promotion),
		Assessment: AssessmentToWire(result.Assessment),
		Vacancy:    VacancyToWire(result.Vacancy),
	}, nil
}

// ActivateMember は休職中の隊員を復帰させます。
func (h *PromotionHandler) ActivateMember(ctx context.Context, req *ActivateMemberRequest) (*ActivateMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.svc.ActivateMember(ctx, promotion.ActivateMemberInput{MemberID: req.MemberID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ActivateMemberResponse{
		Member:  toWireMember(result.Member),
		Vacancy: VacancyToWire(result.Vacancy),
	}, nil
}

// BuildAccessList は昇任名簿を作成します。
func (h *PromotionHandler) BuildAccessList(ctx context.Context, req *BuildAccessListRequest) (*BuildAccessListResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	asOf, err := parseOptionalDate(req.AsOf)
	if err != nil {
		return nil, toStatusError(err)
	}

	list, err := h.svc.BuildAccessList(ctx, promotion.BuildAccessListInput{
		Rank:         rankOf(req.Rank),
		Cadre:        cadreOf(req.Cadre),
		Criterion:    promotion.RankingCriterion(req.Criterion),
		AsOf:         asOf,
		EligibleOnly: req.EligibleOnly,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &BuildAccessListResponse{
		Rank:          string(list.Rank),
		Cadre:         string(list.Cadre),
		Criterion:     string(list.Criterion),
		AsOf:          formatDate(list.AsOf),
		WindowOpen:    list.WindowOpen,
		NextAdmission: formatDate(list.NextAdmission),
		Entries:       make([]AccessListEntry, 0, len(list.Entries)),
	}
	for _, e := range list.Entries {
		resp.Entries = append(resp.Entries, AccessListEntry{
			Position:     e.Position,
			MemberID:     e.MemberID,
			Name:         e.Name,
			MonthsInRank: e.MonthsInRank,
			TotalScore:   formatPoints(e.TotalScore),
			EntryDate:    formatDate(e.EntryDate),
			Verdict:      string(e.Verdict),
			Note:         e.Note,
		})
	}
	return resp, nil
}

// ListPromotions は隊員の昇任履歴を取得します。
func (h *PromotionHandler) ListPromotions(ctx context.Context, req *ListPromotionsRequest) (*ListPromotionsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.ListPromotions(ctx, promotion.ListPromotionsInput{MemberID: req.MemberID})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &ListPromotionsResponse{Promotions: make([]*Promotion, 0, len(found))}
	for _, p := range found {
		resp.Promotions = append(resp.Promotions, toWirePromotion(p))
	}
	return resp, nil
}
