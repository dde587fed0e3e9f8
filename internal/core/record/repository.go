package record

import "context"

// Repository は経歴記録の永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, r *Record) (*Record, error)
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]*Record, error)
	// MemberExists は隊員が存在するかを返します。トランザクション内では隊員行を共有ロックします。
	MemberExists(ctx context.Context, memberID string) (bool, error)
}
