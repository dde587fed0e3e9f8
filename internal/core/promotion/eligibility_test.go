package promotion

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func scoreSheet(t *testing.T, records ...record.Record) *ScoreSheet {
	t.Helper()
	sheet, err := NewAggregator(nil).Compute(records)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	return sheet
}

func TestEvaluator_CaptainWithThirtySixMonths(t *testing.T) {
	t.Parallel()

	captain := &member.Member{
		ID:                "m-1",
		Rank:              member.RankCapitao,
		Cadre:             member.CadreQOBM,
		Situation:         member.SituationActive,
		EntryDate:         date(2010, 1, 10),
		LastPromotionDate: datePtr(2022, 12, 23),
	}

	a, err := NewEvaluator(nil).Evaluate(captain, nil, date(2025, 12, 23))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if a.MonthsInRank != 36 {
		t.Fatalf("expected 36 months, got %d", a.MonthsInRank)
	}
	tir, ok := a.Criterion(CriterionTimeInRank)
	if !ok || tir.Satisfied {
		t.Fatalf("expected failed time in rank criterion, got %+v", tir)
	}
	if a.Verdict != VerdictPartiallyEligible {
		t.Fatalf("expected partially eligible, got %s", a.Verdict)
	}
	if a.SatisfiedCount != 1 || a.TotalCount != 3 {
		t.Fatalf("expected 1 of 3 criteria, got %d of %d", a.SatisfiedCount, a.TotalCount)
	}
	if !strings.Contains(a.BlockingReason, "48 months") || !strings.Contains(a.BlockingReason, "total score") {
		t.Fatalf("expected blocking reason to name failed criteria, got %q", a.BlockingReason)
	}

	inactive := captain.Clone()
	inactive.Situation = member.SituationInactive
	a, err = NewEvaluator(nil).Evaluate(inactive, nil, date(2025, 12, 23))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if a.Verdict != VerdictIneligible {
		t.Fatalf("expected ineligible, got %s", a.Verdict)
	}
}

func TestEvaluator_Eligible(t *testing.T) {
	t.Parallel()

	lieutenant := &member.Member{
		Rank:              member.RankPrimeiroTenente,
		Cadre:             member.CadreQOBM,
		Situation:         member.SituationActive,
		EntryDate:         date(2005, 1, 10),
		LastPromotionDate: datePtr(2020, 12, 23),
	}
	sheet := scoreSheet(t,
		rec("1", record.KindMilitaryCourse, "cfo", "4"),
		rec("2", record.KindMilitaryCourse, "cao", "3"),
		rec("3", record.KindMilitaryCourse, "csbm", "5"),
		rec("4", record.KindMilitaryCourse, "cho", "3"),
		rec("5", record.KindCivilianCourse, "doctorate", "3"),
		rec("6", record.KindCivilianCourse, "masters", "2"),
		rec("7", record.KindDecoration, "order", "2"),
		rec("8", record.KindDecoration, "merit_medal", "3"),
		rec("9", record.KindCommendation, "individual", "3"),
		rec("10", record.KindCommendation, "collective", "1"),
	)

	a, err := NewEvaluator(nil).Evaluate(lieutenant, sheet, date(2025, 12, 23))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !a.TotalScore.Equal(mustDecimal(t, "28.5")) {
		t.Fatalf("expected total 28.5, got %s", a.TotalScore)
	}
	if a.Verdict != VerdictEligible || !a.Eligible() {
		t.Fatalf("expected eligible, got %s (%s)", a.Verdict, a.BlockingReason)
	}
	if a.BlockingReason != "" {
		t.Fatalf("expected no blocking reason, got %q", a.BlockingReason)
	}
	if a.NextRank != member.RankCapitao {
		t.Fatalf("expected next rank capitao, got %s", a.NextRank)
	}
}

func TestEvaluator_RankCeiling(t *testing.T) {
	t.Parallel()

	for _, rank := range []member.Rank{member.RankCoronel, member.RankSubtenente} {
		cadre := member.CadreQOBM
		if rank.Track() == member.TrackEnlisted {
			cadre = member.CadreQPBM
		}
		m := &member.Member{
			Rank:              rank,
			Cadre:             cadre,
			Situation:         member.SituationActive,
			EntryDate:         date(1990, 1, 1),
			LastPromotionDate: datePtr(2000, 1, 1),
		}
		sheet := scoreSheet(t, rec("1", record.KindMilitaryCourse, "csbm", "5"))

		a, err := NewEvaluator(nil).Evaluate(m, sheet, date(2025, 7, 2))
		if err != nil {
			t.Fatalf("Evaluate returned error: %v", err)
		}
		if a.Verdict != VerdictIneligible {
			t.Fatalf("%s: expected ineligible, got %s", rank, a.Verdict)
		}
		ceiling, ok := a.Criterion(CriterionRankCeiling)
		if !ok || ceiling.Satisfied || ceiling.Note != CeilingNote {
			t.Fatalf("%s: expected rank ceiling criterion, got %+v", rank, ceiling)
		}
		if _, ok := a.Criterion(CriterionMinScore); ok {
			t.Fatalf("%s: ceiling rank must not carry a score criterion", rank)
		}
	}
}

func TestEvaluator_SeniorityOnlyRankSkipsScore(t *testing.T) {
	t.Parallel()

	soldier := &member.Member{
		Rank:      member.RankSoldado,
		Cadre:     member.CadreQPBM,
		Situation: member.SituationActive,
		EntryDate: date(2019, 7, 2),
	}

	a, err := NewEvaluator(nil).Evaluate(soldier, nil, date(2025, 7, 2))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if _, ok := a.Criterion(CriterionMinScore); ok {
		t.Fatal("expected no score criterion for a seniority-only rank")
	}
	if a.TotalCount != 2 || a.Verdict != VerdictEligible {
		t.Fatalf("expected eligible on 2 criteria, got %s on %d", a.Verdict, a.TotalCount)
	}
	if a.MonthsInRank != 72 {
		t.Fatalf("expected months counted from entry date, got %d", a.MonthsInRank)
	}
}

func TestEvaluator_Errors(t *testing.T) {
	t.Parallel()

	m := &member.Member{
		Rank:      member.RankCabo,
		Cadre:     member.CadreQPBM,
		Situation: member.SituationActive,
		EntryDate: date(2020, 1, 1),
	}

	if _, err := NewEvaluator(nil).Evaluate(nil, nil, date(2025, 1, 1)); !errors.Is(err, ErrMemberRequired) {
		t.Fatalf("expected ErrMemberRequired, got %v", err)
	}
	if _, err := NewEvaluator(nil).Evaluate(m, nil, time.Time{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for zero date, got %v", err)
	}
	if _, err := NewEvaluator(nil).Evaluate(m, nil, date(2019, 12, 31)); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for date before rank start, got %v", err)
	}

	empty := DefaultStatutes()
	empty.Ranks = nil
	if _, err := NewEvaluator(empty).Evaluate(m, nil, date(2025, 1, 1)); !errors.Is(err, ErrUnknownRankRule) {
		t.Fatalf("expected ErrUnknownRankRule, got %v", err)
	}
}

func TestMonthsBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to time.Time
		want     int
	}{
		{date(2022, 12, 23), date(2025, 12, 23), 36},
		{date(2022, 12, 23), date(2025, 12, 22), 35},
		{date(2024, 1, 31), date(2024, 2, 29), 0},
		{date(2024, 1, 31), date(2024, 3, 31), 2},
		{date(2025, 5, 5), date(2025, 5, 5), 0},
	}
	for _, tt := range tests {
		got, err := MonthsBetween(tt.from, tt.to)
		if err != nil {
			t.Fatalf("MonthsBetween returned error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("MonthsBetween(%s, %s) = %d, want %d", tt.from.Format(DateLayout), tt.to.Format(DateLayout), got, tt.want)
		}
	}

	if _, err := MonthsBetween(date(2025, 1, 2), date(2025, 1, 1)); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate(" 2025-12-23 ")
	if err != nil || !got.Equal(date(2025, 12, 23)) {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
	for _, raw := range []string{"2025-02-30", "23/12/2025", ""} {
		if _, err := ParseDate(raw); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", raw, err)
		}
	}
}
