package member

import "context"

// Repository は隊員名簿の永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	Update(ctx context.Context, m *Member) (*Member, error)
	FindByID(ctx context.Context, id string) (*Member, error)
	FindByRegistration(ctx context.Context, registration string) (*Member, error)
	List(ctx context.Context, filter ListMembersFilter) ([]*Member, string, error)
	// CountActive は階級・区分ごとの在職者数を返します。
	CountActive(ctx context.Context, rank Rank, cadre Cadre) (int, error)
}

// ListMembersFilter は一覧取得用フィルタです。
type ListMembersFilter struct {
	Rank      *Rank
	Cadre     *Cadre
	Situation *Situation
	Limit     int
	Offset    int
}
