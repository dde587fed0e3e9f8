package handler

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMemberHandler_CreateMember(t *testing.T) {
	t.Parallel()

	entry := time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)
	stub := &stubMemberUseCase{
		createOut: &member.Member{
			ID:                 "4f1f0d8e-8a55-4a39-9b52-0f4f0c7e1a11",
			RegistrationNumber: "BM-1001",
			Name:               "Ana Souza",
			Rank:               member.RankCabo,
			Cadre:              member.CadreQPBM,
			Situation:          member.SituationActive,
			EntryDate:          entry,
		},
	}

	resp, err := NewMemberHandler(stub).CreateMember(context.Background(), &CreateMemberRequest{
		RegistrationNumber: "BM-1001",
		Name:               "Ana Souza",
		Rank:               "cabo",
		Cadre:              "QPBM",
		EntryDate:          "2015-03-02",
		BirthDate:          "1990-07-14",
	})
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}

	if !stub.createInput.EntryDate.Equal(entry) {
		t.Fatalf("unexpected entry date passed to use case: %v", stub.createInput.EntryDate)
	}
	if stub.createInput.BirthDate == nil || stub.createInput.BirthDate.Year() != 1990 {
		t.Fatalf("expected birth date to be parsed, got %v", stub.createInput.BirthDate)
	}
	if stub.createInput.Situation != nil {
		t.Fatalf("expected situation to be left to the use case default")
	}
	if resp.Member.EntryDate != "2015-03-02" || resp.Member.Rank != "cabo" {
		t.Fatalf("unexpected response member: %+v", resp.Member)
	}
	if resp.Member.LastPromotionDate != "" {
		t.Fatalf("expected empty last promotion date, got %q", resp.Member.LastPromotionDate)
	}
}

func TestMemberHandler_CreateMemberInvalidDates(t *testing.T) {
	t.Parallel()

	handler := NewMemberHandler(&stubMemberUseCase{})

	for _, req := range []*CreateMemberRequest{
		{Name: "x", EntryDate: ""},
		{Name: "x", EntryDate: "02/03/2015"},
		{Name: "x", EntryDate: "2015-03-02", BirthDate: "1990-13-01"},
	} {
		_, err := handler.CreateMember(context.Background(), req)
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("expected InvalidArgument for %+v, got %v", req, err)
		}
	}

	if _, err := handler.CreateMember(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nil request, got %v", err)
	}
}

func TestMemberHandler_UpdateMemberClearsBirthDate(t *testing.T) {
	t.Parallel()

	stub := &stubMemberUseCase{updateOut: &member.Member{ID: "m-1"}}
	empty := ""

	if _, err := NewMemberHandler(stub).UpdateMember(context.Background(), &UpdateMemberRequest{
		ID:        "m-1",
		BirthDate: &empty,
	}); err != nil {
		t.Fatalf("UpdateMember returned error: %v", err)
	}

	if !stub.updateInput.BirthDateSet || stub.updateInput.BirthDate != nil {
		t.Fatalf("expected birth date to be cleared, got %+v", stub.updateInput)
	}
	if stub.updateInput.Cadre != nil {
		t.Fatalf("expected cadre to be untouched")
	}
}

func TestMemberHandler_UpdateMemberParsesCadre(t *testing.T) {
	t.Parallel()

	stub := &stubMemberUseCase{updateOut: &member.Member{ID: "m-1"}}
	cadre := " qprr "

	if _, err := NewMemberHandler(stub).UpdateMember(context.Background(), &UpdateMemberRequest{
		ID:    "m-1",
		Cadre: &cadre,
	}); err != nil {
		t.Fatalf("UpdateMember returned error: %v", err)
	}

	if stub.updateInput.Cadre == nil || *stub.updateInput.Cadre != member.CadreQPRR {
		t.Fatalf("expected canonical cadre, got %v", stub.updateInput.Cadre)
	}
}

func TestMemberHandler_CreateMemberAcceptsDisplayRank(t *testing.T) {
	t.Parallel()

	stub := &stubMemberUseCase{createOut: &member.Member{ID: "m-1"}}

	if _, err := NewMemberHandler(stub).CreateMember(context.Background(), &CreateMemberRequest{
		RegistrationNumber: "BM-2001",
		Name:               "Rui Lima",
		Rank:               "Tenente-Coronel",
		Cadre:              "qobm",
		EntryDate:          "2001-02-01",
	}); err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}

	if stub.createInput.Rank != member.RankTenenteCoronel || stub.createInput.Cadre != member.CadreQOBM {
		t.Fatalf("expected canonical rank and cadre, got %s/%s", stub.createInput.Rank, stub.createInput.Cadre)
	}
}

func TestMemberHandler_ListMembers(t *testing.T) {
	t.Parallel()

	stub := &stubMemberUseCase{listOut: &member.ListMembersResult{
		Members:       []*member.Member{{ID: "m-1"}, {ID: "m-2"}},
		NextPageToken: "2",
	}}

	resp, err := NewMemberHandler(stub).ListMembers(context.Background(), &ListMembersRequest{
		PageSize: 2,
		Rank:     " capitao ",
		Cadre:    "QOBM",
	})
	if err != nil {
		t.Fatalf("ListMembers returned error: %v", err)
	}

	if stub.listInput.Rank == nil || *stub.listInput.Rank != member.RankCapitao {
		t.Fatalf("expected rank filter, got %v", stub.listInput.Rank)
	}
	if stub.listInput.Situation != nil {
		t.Fatalf("expected no situation filter")
	}
	if len(resp.Members) != 2 || resp.NextPageToken != "2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMemberHandler_GetMemberNotFound(t *testing.T) {
	t.Parallel()

	stub := &stubMemberUseCase{getErr: member.ErrMemberNotFound}
	_, err := NewMemberHandler(stub).GetMember(context.Background(), &GetMemberRequest{ID: "m-1"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
