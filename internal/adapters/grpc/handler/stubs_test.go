package handler

import (
	"context"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
)

type stubMemberUseCase struct {
	createInput member.CreateMemberInput
	createOut   *member.Member
	createErr   error

	updateInput member.UpdateMemberInput
	updateOut   *member.Member
	updateErr   error

	getOut *member.Member
	getErr error

	listInput member.ListMembersInput
	listOut   *member.ListMembersResult
	listErr   error
}

func (s *stubMemberUseCase) CreateMember(ctx context.Context, in member.CreateMemberInput) (*member.Member, error) {
	s.createInput = in
	return s.createOut, s.createErr
}

func (s *stubMemberUseCase) UpdateMember(ctx context.Context, in member.UpdateMemberInput) (*member.Member, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubMemberUseCase) GetMember(ctx context.Context, in member.GetMemberInput) (*member.Member, error) {
	return s.getOut, s.getErr
}

func (s *stubMemberUseCase) ListMembers(ctx context.Context, in member.ListMembersInput) (*member.ListMembersResult, error) {
	s.listInput = in
	return s.listOut, s.listErr
}

type stubRecordUseCase struct {
	addInput record.AddRecordInput
	addOut   *record.Record
	addErr   error

	deleteInput record.DeleteRecordInput
	deleteErr   error

	listOut []*record.Record
	listErr error
}

func (s *stubRecordUseCase) AddRecord(ctx context.Context, in record.AddRecordInput) (*record.Record, error) {
	s.addInput = in
	return s.addOut, s.addErr
}

func (s *stubRecordUseCase) DeleteRecord(ctx context.Context, in record.DeleteRecordInput) error {
	s.deleteInput = in
	return s.deleteErr
}

func (s *stubRecordUseCase) ListRecords(ctx context.Context, in record.ListRecordsInput) ([]*record.Record, error) {
	return s.listOut, s.listErr
}

type stubPromotionUseCase struct {
	evaluateInput promotion.EvaluateMemberInput
	evaluateOut   *promotion.Evaluation
	evaluateErr   error

	vacancyInput promotion.CheckVacancyInput
	vacancyOut   promotion.VacancyDecision
	vacancyErr   error

	promoteInput promotion.PromoteMemberInput
	promoteOut   *promotion.PromoteMemberResult
	promoteErr   error

	activateOut *promotion.ActivateMemberResult
	activateErr error

	accessInput promotion.BuildAccessListInput
	accessOut   *promotion.AccessList
	accessErr   error

	historyOut []*promotion.Promotion
	historyErr error
}

func (s *stubPromotionUseCase) EvaluateMember(ctx context.Context, in promotion.EvaluateMemberInput) (*promotion.Evaluation, error) {
	s.evaluateInput = in
	return s.evaluateOut, s.evaluateErr
}

func (s *stubPromotionUseCase) CheckVacancy(ctx context.Context, in promotion.CheckVacancyInput) (promotion.VacancyDecision, error) {
	s.vacancyInput = in
	return s.vacancyOut, s.vacancyErr
}

func (s *stubPromotionUseCase) PromoteMember(ctx context.Context, in promotion.PromoteMemberInput) (*promotion.PromoteMemberResult, error) {
	s.promoteInput = in
	return s.promoteOut, s.promoteErr
}

func (s *stubPromotionUseCase) ActivateMember(ctx context.Context, in promotion.ActivateMemberInput) (*promotion.ActivateMemberResult, error) {
	return s.activateOut, s.activateErr
}

func (s *stubPromotionUseCase) BuildAccessList(ctx context.Context, in promotion.BuildAccessListInput) (*promotion.AccessList, error) {
	s.accessInput = in
	return s.accessOut, s.accessErr
}

func (s *stubPromotionUseCase) ListPromotions(ctx context.Context, in promotion.ListPromotionsInput) ([]*promotion.Promotion, error) {
	return s.historyOut, s.historyErr
}
