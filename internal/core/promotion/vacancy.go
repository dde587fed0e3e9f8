package promotion

import (
	"fmt"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
)

type quotaKey struct {
	cadre member.Cadre
	rank  member.Rank
}

// VacancyDecision は定員判定の結果です。
type VacancyDecision struct {
	Rank      member.Rank
	Cadre     member.Cadre
	Available bool
	Unbounded bool
	Quota     int
	Occupied  int
	Remaining int
	Message   string
}

// VacancyGate は法定定員と在職者数から昇任・復帰の可否を判定します。
// 在職者数は呼び出し側が渡し、ゲート自体はデータを取得しません。
type VacancyGate struct {
	quotas    map[quotaKey]int
	unbounded map[member.Cadre]bool
}

// NewVacancyGate は VacancyGate を生成します。nil なら組み込みテーブルを使います。
func NewVacancyGate(st *Statutes) *VacancyGate {
	if st == nil {
		st = DefaultStatutes()
	}
	g := &VacancyGate{
		quotas:    make(map[quotaKey]int, len(st.Quotas)),
		unbounded: make(map[member.Cadre]bool, len(st.UnboundedCadres)),
	}
	for _, q := range st.Quotas {
		g.quotas[quotaKey{cadre: q.Cadre, rank: q.Rank}] = q.Limit
	}
	for _, c := range st.UnboundedCadres {
		g.unbounded[c] = true
	}
	return g
}

// Quota は区分・階級の法定定員を返します。定員の制限がない区分では false です。
func (g *VacancyGate) Quota(cadre member.Cadre, rank member.Rank) (int, bool) {
	limit, ok := g.quotas[quotaKey{cadre: cadre, rank: rank}]
	return limit, ok
}

// Unbounded は定員の制限がない区分かどうかを返します。
func (g *VacancyGate) Unbounded(cadre member.Cadre) bool {
	return g.unbounded[cadre]
}

// Check は欠員の有無を判定します。
func (g *VacancyGate) Check(rank member.Rank, cadre member.Cadre, occupied int) (VacancyDecision, error) {
	if !rank.Valid() {
		return VacancyDecision{}, fmt.Errorf("%w: %w %q", ErrUnknownQuotaEntry, ErrInvalidRank, rank)
	}
	if !cadre.Valid() {
		return VacancyDecision{}, fmt.Errorf("%w: %w %q", ErrUnknownQuotaEntry, ErrInvalidCadre, cadre)
	}
	if occupied < 0 {
		return VacancyDecision{}, fmt.Errorf("%d: %w", occupied, ErrInvalidOccupancy)
	}

	decision := VacancyDecision{Rank: rank, Cadre: cadre, Occupied: occupied}

	if g.unbounded[cadre] {
		decision.Available = true
		decision.Unbounded = true
		decision.Message = "unbounded reserve cadre"
		return decision, nil
	}

	limit, ok := g.Quota(cadre, rank)
	if !ok {
		return VacancyDecision{}, fmt.Errorf("%s/%s: %w", cadre, rank, ErrUnknownQuotaEntry)
	}

	decision.Quota = limit
	decision.Remaining = max(limit-occupied, 0)
	decision.Available = limit-occupied > 0
	if decision.Available {
		decision.Message = fmt.Sprintf("%d of %d slots remaining", decision.Remaining, limit)
	} else {
		decision.Message = fmt.Sprintf("quota reached (%d of %d occupied)", occupied, limit)
	}
	return decision, nil
}
