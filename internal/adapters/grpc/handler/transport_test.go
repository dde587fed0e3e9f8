package handler

import (
	"context"
	"net"
	"testing"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type testServices struct {
	members    *stubMemberUseCase
	records    *stubRecordUseCase
	promotions *stubPromotionUseCase
}

func startServer(t *testing.T, svc testServices) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterMemberServiceServer(srv, NewMemberHandler(svc.members))
	RegisterRecordServiceServer(srv, NewRecordHandler(svc.records))
	RegisterPromotionServiceServer(srv, NewPromotionHandler(svc.promotions))

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func TestTransport_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := testServices{
		members: &stubMemberUseCase{getOut: &member.Member{
			ID:        "m-1",
			Name:      "João Pereira",
			Rank:      member.RankSoldado,
			Cadre:     member.CadreQPBM,
			Situation: member.SituationActive,
			EntryDate: day(2019, 7, 2),
		}},
		records: &stubRecordUseCase{listOut: []*record.Record{
			{ID: "r-1", MemberID: "m-1", Kind: record.KindCommendation, Subtype: "individual", Points: "0.5"},
		}},
		promotions: &stubPromotionUseCase{vacancyOut: promotion.VacancyDecision{
			Rank:      member.RankCabo,
			Cadre:     member.CadreQPBM,
			Available: true,
			Quota:     1500,
			Occupied:  1499,
			Remaining: 1,
			Message:   "1 of 1500 slots remaining",
		}},
	}
	client := startServer(t, svc)
	ctx := context.Background()

	got, err := client.GetMember(ctx, &GetMemberRequest{ID: "m-1"})
	if err != nil {
		t.Fatalf("GetMember returned error: %v", err)
	}
	if got.Member.Name != "João Pereira" || got.Member.EntryDate != "2019-07-02" {
		t.Fatalf("unexpected member: %+v", got.Member)
	}

	records, err := client.ListRecords(ctx, &ListRecordsRequest{MemberID: "m-1"})
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(records.Records) != 1 || records.Records[0].Points != "0.5" {
		t.Fatalf("unexpected records: %+v", records.Records)
	}

	vacancy, err := client.CheckVacancy(ctx, &CheckVacancyRequest{Rank: "cabo", Cadre: "QPBM"})
	if err != nil {
		t.Fatalf("CheckVacancy returned error: %v", err)
	}
	if !vacancy.Vacancy.Available || vacancy.Vacancy.Message != "1 of 1500 slots remaining" {
		t.Fatalf("unexpected vacancy: %+v", vacancy.Vacancy)
	}
}

func TestTransport_StatusDetailsSurvive(t *testing.T) {
	t.Parallel()

	svc := testServices{
		members:    &stubMemberUseCase{},
		records:    &stubRecordUseCase{},
		promotions: &stubPromotionUseCase{promoteErr: promotion.ErrVacancyCheckUnavailable},
	}
	client := startServer(t, svc)

	_, err := client.PromoteMember(context.Background(), &PromoteMemberRequest{MemberID: "m-1", AllowOutOfCycle: true})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}

	st, _ := status.FromError(err)
	var found bool
	for _, d := range st.Details() {
		if _, ok := d.(*errdetails.RetryInfo); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected RetryInfo detail on %v", err)
	}
}
