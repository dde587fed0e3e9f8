package handler

import (
	"context"

	"google.golang.org/grpc"
)

// gRPC のサービス名です。
const (
	MemberServiceName    = "personnel.v1.MemberService"
	RecordServiceName    = "personnel.v1.RecordService"
	PromotionServiceName = "personnel.v1.PromotionService"
)

// MemberServiceServer は MemberService のサーバー側インターフェースです。
type MemberServiceServer interface {
	CreateMember(context.Context, *CreateMemberRequest) (*CreateMemberResponse, error)
	UpdateMember(context.Context, *UpdateMemberRequest) (*UpdateMemberResponse, error)
	GetMember(context.Context, *GetMemberRequest) (*GetMemberResponse, error)
	ListMembers(context.Context, *ListMembersRequest) (*ListMembersResponse, error)
}

// RecordServiceServer は RecordService のサーバー側インターフェースです。
type RecordServiceServer interface {
	AddRecord(context.Context, *AddRecordRequest) (*AddRecordResponse, error)
	DeleteRecord(context.Context, *DeleteRecordRequest) (*DeleteRecordResponse, error)
	ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error)
}

// PromotionServiceServer は PromotionService のサーバー側インターフェースです。
type PromotionServiceServer interface {
	EvaluateMember(context.Context, *EvaluateMemberRequest) (*EvaluateMemberResponse, error)
	CheckVacancy(context.Context, *CheckVacancyRequest) (*CheckVacancyResponse, error)
	PromoteMember(context.Context, *PromoteMemberRequest) (*PromoteMemberResponse, error)
	ActivateMember(context.Context, *ActivateMemberRequest) (*ActivateMemberResponse, error)
	BuildAccessList(context.Context, *BuildAccessListRequest) (*BuildAccessListResponse, error)
	ListPromotions(context.Context, *ListPromotionsRequest) (*ListPromotionsResponse, error)
}

func fullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// unary はメソッド式から grpc.MethodDesc を組み立てます。
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	name := fullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// MemberServiceDesc は MemberService のサービス記述子です。
var MemberServiceDesc = grpc.ServiceDesc{
	ServiceName: MemberServiceName,
	HandlerType: (*MemberServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MemberServiceName, "CreateMember", MemberServiceServer.CreateMember),
		unary(MemberServiceName, "UpdateMember", MemberServiceServer.UpdateMember),
		unary(MemberServiceName, "GetMember", MemberServiceServer.GetMember),
		unary(MemberServiceName, "ListMembers", MemberServiceServer.ListMembers),
	},
	Metadata: "personnel/v1/member.json",
}

// RecordServiceDesc は RecordService のサービス記述子です。
var RecordServiceDesc = grpc.ServiceDesc{
	ServiceName: RecordServiceName,
	HandlerType: (*RecordServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RecordServiceName, "AddRecord", RecordServiceServer.AddRecord),
		unary(RecordServiceName, "DeleteRecord", RecordServiceServer.DeleteRecord),
		unary(RecordServiceName, "ListRecords", RecordServiceServer.ListRecords),
	},
	Metadata: "personnel/v1/record.json",
}

// PromotionServiceDesc は PromotionService のサービス記述子です。
var PromotionServiceDesc = grpc.ServiceDesc{
	ServiceName: PromotionServiceName,
	HandlerType: (*PromotionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PromotionServiceName, "EvaluateMember", PromotionServiceServer.EvaluateMember),
		unary(PromotionServiceName, "CheckVacancy", PromotionServiceServer.CheckVacancy),
		unary(PromotionServiceName, "PromoteMember", PromotionServiceServer.PromoteMember),
		unary(PromotionServiceName, "ActivateMember", PromotionServiceServer.ActivateMember),
		unary(PromotionServiceName, "BuildAccessList", PromotionServiceServer.BuildAccessList),
		unary(PromotionServiceName, "ListPromotions", PromotionServiceServer.ListPromotions),
	},
	Metadata: "personnel/v1/promotion.json",
}

// RegisterMemberServiceServer は MemberService を登録します。
func RegisterMemberServiceServer(s grpc.ServiceRegistrar, srv MemberServiceServer) {
	s.RegisterService(&MemberServiceDesc, srv)
}

// RegisterRecordServiceServer は RecordService を登録します。
func RegisterRecordServiceServer(s grpc.ServiceRegistrar, srv RecordServiceServer) {
	s.RegisterService(&RecordServiceDesc, srv)
}

// RegisterPromotionServiceServer は PromotionService を登録します。
func RegisterPromotionServiceServer(s grpc.ServiceRegistrar, srv PromotionServiceServer) {
	s.RegisterService(&PromotionServiceDesc, srv)
}
