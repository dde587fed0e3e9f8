package handler

import (
	"context"
	"strings"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MemberHandler は MemberService の gRPC 実装です。
type MemberHandler struct {
	svc member.UseCase
}

var _ MemberServiceServer = (*MemberHandler)(nil)

// NewMemberHandler は MemberHandler を生成します。
func NewMemberHandler(svc member.UseCase) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// CreateMember は隊員を登録します。
func (h *MemberHandler) CreateMember(ctx context.Context, req *CreateMemberRequest) (*CreateMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := member.CreateMemberInput{
		RegistrationNumber: req.RegistrationNumber,
		Name:               req.Name,
		Rank:               rankOf(req.Rank),
		Cadre:              cadreOf(req.Cadre),
	}
	if req.Situation != "" {
		situation := member.Situation(req.Situation)
		in.Situation = &situation
	}

	entry, err := parseOptionalDate(req.EntryDate)
	if err != nil {
		return nil, toStatusError(err)
	}
	if entry == nil {
		return nil, toStatusError(member.ErrInvalidEntryDate)
	}
	in.EntryDate = *entry

	if in.BirthDate, err = parseOptionalDate(req.BirthDate); err != nil {
		return nil, toStatusError(err)
	}
	if in.LastPromotionDate, err = parseOptionalDate(req.LastPromotionDate); err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateMember(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &CreateMemberResponse{Member: toWireMember(created)}, nil
}

// UpdateMember は隊員情報を更新します。
func (h *MemberHandler) UpdateMember(ctx context.Context, req *UpdateMemberRequest) (*UpdateMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := member.UpdateMemberInput{ID: req.ID, Name: req.Name}
	if req.Cadre != nil {
		cadre := cadreOf(*req.Cadre)
		in.Cadre = &cadre
	}
	if req.BirthDate != nil {
		birth, err := parseOptionalDate(*req.BirthDate)
		if err != nil {
			return nil, toStatusError(err)
		}
		in.BirthDate = birth
		in.BirthDateSet = true
	}

	updated, err := h.svc.UpdateMember(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &UpdateMemberResponse{Member: toWireMember(updated)}, nil
}

// GetMember は隊員を取得します。
func (h *MemberHandler) GetMember(ctx context.Context, req *GetMemberRequest) (*GetMemberResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetMember(ctx, member.GetMemberInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &GetMemberResponse{Member: toWireMember(found)}, nil
}

// ListMembers は隊員の一覧を取得します。
func (h *MemberHandler) ListMembers(ctx context.Context, req *ListMembersRequest) (*ListMembersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := member.ListMembersInput{
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	}
	if v := strings.TrimSpace(req.Rank); v != "" {
		rank := rankOf(v)
		in.Rank = &rank
	}
	if v := strings.TrimSpace(req.Cadre); v != "" {
		cadre := cadreOf(v)
		in.Cadre = &cadre
	}
	if v := strings.TrimSpace(req.Situation); v != "" {
		situation := member.Situation(v)
		in.Situation = &situation
	}

	result, err := h.svc.ListMembers(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &ListMembersResponse{
		Members:       make([]*Member, 0, len(result.Members)),
		NextPageToken: result.NextPageToken,
	}
	for _, m := range result.Members {
		resp.Members = append(resp.Members, toWireMember(m))
	}

	return resp, nil
}
