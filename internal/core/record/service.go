package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const maxSubtypeLength = 64

// Service は経歴記録に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は経歴記録ユースケースの公開インターフェースです。
type UseCase interface {
	AddRecord(ctx context.Context, in AddRecordInput) (*Record, error)
	DeleteRecord(ctx context.Context, in DeleteRecordInput) error
	ListRecords(ctx context.Context, in ListRecordsInput) ([]*Record, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// AddRecordInput は経歴記録登録時の入力です。
type AddRecordInput struct {
	MemberID    string
	Kind        Kind
	Subtype     string
	Points      string
	ReceivedAt  *time.Time
	Dropped     bool
	Description string
}

// DeleteRecordInput は経歴記録削除時の入力です。
type DeleteRecordInput struct {
	ID string
}

// ListRecordsInput は隊員ごとの一覧取得時の入力です。
type ListRecordsInput struct {
	MemberID string
}

// AddRecord は経歴記録を登録します。
func (s *Service) AddRecord(ctx context.Context, in AddRecordInput) (*Record, error) {
	memberID, err := normalizeUUID(in.MemberID, ErrInvalidMemberID)
	if err != nil {
		return nil, err
	}

	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	subtype := strings.TrimSpace(in.Subtype)
	if subtype == "" || len(subtype) > maxSubtypeLength {
		return nil, ErrInvalidSubtype
	}

	if in.Dropped && !in.Kind.Course() {
		return nil, ErrDroppedNotCourse
	}

	rec := &Record{
		MemberID:    memberID,
		Kind:        in.Kind,
		Subtype:     subtype,
		Points:      strings.TrimSpace(in.Points),
		Dropped:     in.Dropped,
		Description: strings.TrimSpace(in.Description),
	}

	if _, err := rec.PointValue(); err != nil {
		return nil, fmt.Errorf("points %q: %w", in.Points, err)
	}

	now := s.clock.Now()
	if in.ReceivedAt != nil && !in.ReceivedAt.IsZero() {
		received := time.Date(in.ReceivedAt.Year(), in.ReceivedAt.Month(), in.ReceivedAt.Day(), 0, 0, 0, 0, time.UTC)
		if received.After(now) {
			return nil, ErrInvalidReceivedAt
		}
		rec.ReceivedAt = &received
	}
	if in.Kind.TimeBound() && rec.ReceivedAt == nil {
		return nil, ErrMissingReceivedAt
	}

	rec.CreatedAt = now
	rec.UpdatedAt = now

	var created *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.MemberExists(txCtx, memberID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMemberNotFound
		}

		result, err := s.repo.Create(txCtx, rec)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// DeleteRecord は経歴記録を削除します。
func (s *Service) DeleteRecord(ctx context.Context, in DeleteRecordInput) error {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return err
	}
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// ListRecords は隊員の経歴記録を取得します。
func (s *Service) ListRecords(ctx context.Context, in ListRecordsInput) ([]*Record, error) {
	memberID, err := normalizeUUID(in.MemberID, ErrInvalidMemberID)
	if err != nil {
		return nil, err
	}

	var records []*Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListByMember(txCtx, memberID)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

func normalizeUUID(raw string, invalid error) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return parsed.String(), nil
}
