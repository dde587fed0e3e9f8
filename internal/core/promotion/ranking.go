package promotion

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/shopspring/decimal"
)

// RankingCriterion は昇任名簿の序列基準です。
type RankingCriterion string

const (
	CriterionSeniority RankingCriterion = "seniority"
	CriterionMerit     RankingCriterion = "merit"
)

// ParseRankingCriterion は文字列から序列基準を引きます。
func ParseRankingCriterion(raw string) (RankingCriterion, error) {
	switch c := RankingCriterion(strings.ToLower(strings.TrimSpace(raw))); c {
	case CriterionSeniority, CriterionMerit:
		return c, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidCriterion)
	}
}

// RankingEntry は名簿作成の入力となる 1 名分の値です。Position は BuildRanking が 1 から振ります。
type RankingEntry struct {
	MemberID     string
	Name         string
	Rank         member.Rank
	Cadre        member.Cadre
	MonthsInRank int
	TotalScore   decimal.Decimal
	EntryDate    time.Time
	Verdict      Verdict
	Note         string
	Position     int
}

// BuildRanking は序列基準で並べた新しい名簿を返します。入力は変更しません。
// 適格性による絞り込みは呼び出し側の責務です。
func BuildRanking(entries []RankingEntry, criterion RankingCriterion) ([]RankingEntry, error) {
	var primary func(a, b RankingEntry) int
	switch criterion {
	case CriterionSeniority:
		primary = func(a, b RankingEntry) int { return cmp.Compare(b.MonthsInRank, a.MonthsInRank) }
	case CriterionMerit:
		primary = func(a, b RankingEntry) int { return b.TotalScore.Cmp(a.TotalScore) }
	default:
		return nil, fmt.Errorf("%q: %w", criterion, ErrInvalidCriterion)
	}

	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b RankingEntry) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		if c := a.EntryDate.Compare(b.EntryDate); c != 0 {
			return c
		}
		return strings.Compare(a.MemberID, b.MemberID)
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}
