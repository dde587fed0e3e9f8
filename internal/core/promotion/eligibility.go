package promotion

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/shopspring/decimal"
)

// Verdict は昇任要件の総合判定です。
type Verdict string

const (
	VerdictEligible          Verdict = "eligible"
	VerdictPartiallyEligible Verdict = "partially_eligible"
	VerdictIneligible        Verdict = "ineligible"
)

// CriterionID は判定基準の識別子です。
type CriterionID string

const (
	CriterionTimeInRank  CriterionID = "time_in_rank"
	CriterionRankCeiling CriterionID = "rank_ceiling"
	CriterionMinScore    CriterionID = "min_score"
	CriterionActive      CriterionID = "active_situation"
)

// CeilingNote は最上位階級に付く注記です。
const CeilingNote = "no further promotion exists"

// CriterionResult は基準ごとの判定結果です。
type CriterionResult struct {
	ID          CriterionID
	Description string
	Satisfied   bool
	Note        string
}

// Assessment は昇任要件の判定結果です。評価のたびに新しく作られます。
type Assessment struct {
	MemberID       string
	Rank           member.Rank
	NextRank       member.Rank
	AsOf           time.Time
	MonthsInRank   int
	TotalScore     decimal.Decimal
	Criteria       []CriterionResult
	SatisfiedCount int
	TotalCount     int
	Verdict        Verdict
	BlockingReason string
}

// Eligible は全基準を満たしたかどうかを返します。
func (a *Assessment) Eligible() bool {
	return a != nil && a.Verdict == VerdictEligible
}

// Criterion は ID に対応する判定結果を返します。
func (a *Assessment) Criterion(id CriterionID) (CriterionResult, bool) {
	if a == nil {
		return CriterionResult{}, false
	}
	for _, c := range a.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return CriterionResult{}, false
}

// Evaluator は隊員・評点表・評価日から昇任要件を判定します。
type Evaluator struct {
	statutes *Statutes
}

// NewEvaluator は Evaluator を生成します。nil なら組み込みテーブルを使います。
func NewEvaluator(st *Statutes) *Evaluator {
	if st == nil {
		st = DefaultStatutes()
	}
	return &Evaluator{statutes: st}
}

// Evaluate は昇任要件を判定します。
// 点数基準を持つ階級で評点表が nil の場合は総合点 0 として扱います。
func (e *Evaluator) Evaluate(m *member.Member, sheet *ScoreSheet, asOf time.Time) (*Assessment, error) {
	if m == nil {
		return nil, ErrMemberRequired
	}
	if asOf.IsZero() {
		return nil, fmt.Errorf("as of: %w", ErrInvalidDate)
	}
	asOf = truncateDate(asOf)

	rule, ok := e.statutes.Rule(m.Rank)
	if !ok {
		return nil, fmt.Errorf("%s: %w", m.Rank, ErrUnknownRankRule)
	}

	since := m.RankSince()
	if since.IsZero() {
		return nil, fmt.Errorf("rank start date: %w", ErrInvalidDate)
	}
	months, err := MonthsBetween(since, asOf)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		MemberID:     m.ID,
		Rank:         m.Rank,
		AsOf:         asOf,
		MonthsInRank: months,
		TotalScore:   sheet.TotalScore(),
	}

	if rule.Ceiling {
		a.Criteria = append(a.Criteria, CriterionResult{
			ID:          CriterionRankCeiling,
			Description: fmt.Sprintf("rank %s admits further promotion", m.Rank),
			Satisfied:   false,
			Note:        CeilingNote,
		})
	} else {
		a.NextRank = rule.Next
		a.Criteria = append(a.Criteria, CriterionResult{
			ID:          CriterionTimeInRank,
			Description: fmt.Sprintf("at least %d months in rank %s", rule.MinMonths, m.Rank),
			Satisfied:   months >= rule.MinMonths,
			Note:        fmt.Sprintf("%d months since %s", months, since.Format(DateLayout)),
		})
		if rule.MinScore != nil {
			a.Criteria = append(a.Criteria, CriterionResult{
				ID:          CriterionMinScore,
				Description: fmt.Sprintf("total score of at least %s", rule.MinScore.StringFixed(2)),
				Satisfied:   a.TotalScore.GreaterThanOrEqual(*rule.MinScore),
				Note:        fmt.Sprintf("total score %s", a.TotalScore.StringFixed(2)),
			})
		}
	}

	a.Criteria = append(a.Criteria, CriterionResult{
		ID:          CriterionActive,
		Description: "active situation",
		Satisfied:   m.Situation == member.SituationActive,
		Note:        fmt.Sprintf("situation %s", m.Situation),
	})

	var failed []string
	for _, c := range a.Criteria {
		a.TotalCount++
		if c.Satisfied {
			a.SatisfiedCount++
			continue
		}
		failed = append(failed, c.Description)
	}

	switch {
	case rule.Ceiling:
		a.Verdict = VerdictIneligible
	case a.TotalCount > 0 && a.SatisfiedCount == a.TotalCount:
		a.Verdict = VerdictEligible
	case a.SatisfiedCount > 0:
		a.Verdict = VerdictPartiallyEligible
	default:
		a.Verdict = VerdictIneligible
	}
	if a.Verdict != VerdictEligible {
		a.BlockingReason = joinReasons(failed)
	}

	return a, nil
}

// DateLayout は日付の入出力形式です。
const DateLayout = "2006-01-02"

// ParseDate は "YYYY-MM-DD" 形式の日付を解釈します。
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, ErrInvalidDate)
	}
	return t, nil
}

// MonthsBetween は from から to までの満月数を返します。to の日が from の日より前なら 1 か月少なく数えます。
func MonthsBetween(from, to time.Time) (int, error) {
	from, to = truncateDate(from), truncateDate(to)
	if to.Before(from) {
		return 0, fmt.Errorf("%s precedes %s: %w", to.Format(DateLayout), from.Format(DateLayout), ErrInvalidDate)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months, nil
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
