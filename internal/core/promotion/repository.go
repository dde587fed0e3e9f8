package promotion

import (
	"context"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
)

// Repository は昇任履歴の永続化の抽象です。
type Repository interface {
	// LockQuota は区分・階級の定員を現在のトランザクションの終了まで排他ロックします。
	LockQuota(ctx context.Context, cadre member.Cadre, rank member.Rank) error
	Create(ctx context.Context, p *Promotion) (*Promotion, error)
	ListByMember(ctx context.Context, memberID string) ([]*Promotion, error)
}

// MemberRegistry は昇任処理が使う隊員名簿の操作です。
type MemberRegistry interface {
	FindByID(ctx context.Context, id string) (*member.Member, error)
	Update(ctx context.Context, m *member.Member) (*member.Member, error)
	List(ctx context.Context, filter member.ListMembersFilter) ([]*member.Member, string, error)
	CountActive(ctx context.Context, rank member.Rank, cadre member.Cadre) (int, error)
}

// RecordStore は昇任処理が使う経歴記録の読み取り操作です。
type RecordStore interface {
	ListByMember(ctx context.Context, memberID string) ([]*record.Record, error)
}
