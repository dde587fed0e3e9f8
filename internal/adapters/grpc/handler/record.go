package handler

import (
	"context"

	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecordHandler は RecordService の gRPC 実装です。
type RecordHandler struct {
	svc record.UseCase
}

var _ RecordServiceServer = (*RecordHandler)(nil)

// NewRecordHandler は RecordHandler を生成します。
func NewRecordHandler(svc record.UseCase) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// AddRecord は経歴記録を追加します。
func (h *RecordHandler) AddRecord(ctx context.Context, req *AddRecordRequest) (*AddRecordResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	received, err := parseOptionalDate(req.ReceivedAt)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.AddRecord(ctx, record.AddRecordInput{
		MemberID:    req.MemberID,
		Kind:        record.Kind(req.Kind),
		Subtype:     req.Subtype,
		Points:      req.Points,
		ReceivedAt:  received,
		Dropped:     req.Dropped,
		Description: req.Description,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &AddRecordResponse{Record: toWireRecord(created)}, nil
}

// DeleteRecord は経歴記録を削除します。
func (h *RecordHandler) DeleteRecord(ctx context.Context, req *DeleteRecordRequest) (*DeleteRecordResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteRecord(ctx, record.DeleteRecordInput{ID: req.ID}); err != nil {
		return nil, toStatusError(err)
	}

	return &DeleteRecordResponse{}, nil
}

// ListRecords は隊員の経歴記録を取得します。
func (h *RecordHandler) ListRecords(ctx context.Context, req *ListRecordsRequest) (*ListRecordsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.ListRecords(ctx, record.ListRecordsInput{MemberID: req.MemberID})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &ListRecordsResponse{Records: make([]*Record, 0, len(found))}
	for _, r := range found {
		resp.Records = append(resp.Records, toWireRecord(r))
	}
	return resp, nil
}
