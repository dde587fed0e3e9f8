package handler

import (
	"context"

	"github.com/ogurasousui/personnel-promotion/internal/adapters/grpc/codec"
	"google.golang.org/grpc"
)

// Client は JSON コーデックで各サービスを呼び出すクライアントです。
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient は Client を生成します。
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMember(ctx context.Context, req *CreateMemberRequest, opts ...grpc.CallOption) (*CreateMemberResponse, error) {
	return invoke[CreateMemberRequest, CreateMemberResponse](ctx, c.cc, fullMethod(MemberServiceName, "CreateMember"), req, opts)
}

func (c *Client) UpdateMember(ctx context.Context, req *UpdateMemberRequest, opts ...grpc.CallOption) (*UpdateMemberResponse, error) {
	return invoke[UpdateMemberRequest, UpdateMemberResponse](ctx, c.cc, fullMethod(MemberServiceName, "UpdateMember"), req, opts)
}

func (c *Client) GetMember(ctx context.Context, req *GetMemberRequest, opts ...grpc.CallOption) (*GetMemberResponse, error) {
	return invoke[GetMemberRequest, GetMemberResponse](ctx, c.cc, fullMethod(MemberServiceName, "GetMember"), req, opts)
}

func (c *Client) ListMembers(ctx context.Context, req *ListMembersRequest, opts ...grpc.CallOption) (*ListMembersResponse, error) {
	return invoke[ListMembersRequest, ListMembersResponse](ctx, c.cc, fullMethod(MemberServiceName, "ListMembers"), req, opts)
}

func (c *Client) AddRecord(ctx context.Context, req *AddRecordRequest, opts ...grpc.CallOption) (*AddRecordResponse, error) {
	return invoke[AddRecordRequest, AddRecordResponse](ctx, c.cc, fullMethod(RecordServiceName, "AddRecord"), req, opts)
}

func (c *Client) DeleteRecord(ctx context.Context, req *DeleteRecordRequest, opts ...grpc.CallOption) (*DeleteRecordResponse, error) {
	return invoke[DeleteRecordRequest, DeleteRecordResponse](ctx, c.cc, fullMethod(RecordServiceName, "DeleteRecord"), req, opts)
}

func (c *Client) ListRecords(ctx context.Context, req *ListRecordsRequest, opts ...grpc.CallOption) (*ListRecordsResponse, error) {
	return invoke[ListRecordsRequest, ListRecordsResponse](ctx, c.cc, fullMethod(RecordServiceName, "ListRecords"), req, opts)
}

func (c *Client) EvaluateMember(ctx context.Context, req *EvaluateMemberRequest, opts ...grpc.CallOption) (*EvaluateMemberResponse, error) {
	return invoke[EvaluateMemberRequest, EvaluateMemberResponse](ctx, c.cc, fullMethod(PromotionServiceName, "EvaluateMember"), req, opts)
}

func (c *Client) CheckVacancy(ctx context.Context, req *CheckVacancyRequest, opts ...grpc.CallOption) (*CheckVacancyResponse, error) {
	return invoke[CheckVacancyRequest, CheckVacancyResponse](ctx, c.cc, fullMethod(PromotionServiceName, "CheckVacancy"), req, opts)
}

func (c *Client) PromoteMember(ctx context.Context, req *PromoteMemberRequest, opts ...grpc.CallOption) (*PromoteMemberResponse, error) {
	return invoke[PromoteMemberRequest, PromoteMemberResponse](ctx, c.cc, fullMethod(PromotionServiceName, "PromoteMember"), req, opts)
}

func (c *Client) ActivateMember(ctx context.Context, req *ActivateMemberRequest, opts ...grpc.CallOption) (*ActivateMemberResponse, error) {
	return invoke[ActivateMemberRequest, ActivateMemberResponse](ctx, c.cc, fullMethod(PromotionServiceName, "ActivateMember"), req, opts)
}

func (c *Client) BuildAccessList(ctx context.Context, req *BuildAccessListRequest, opts ...grpc.CallOption) (*BuildAccessListResponse, error) {
	return invoke[BuildAccessListRequest, BuildAccessListResponse](ctx, c.cc, fullMethod(PromotionServiceName, "BuildAccessList"), req, opts)
}

func (c *Client) ListPromotions(ctx context.Context, req *ListPromotionsRequest, opts ...grpc.CallOption) (*ListPromotionsResponse, error) {
	return invoke[ListPromotionsRequest, ListPromotionsResponse](ctx, c.cc, fullMethod(PromotionServiceName, "ListPromotions"), req, opts)
}
