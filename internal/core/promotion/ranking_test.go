package promotion

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func rankingFixture() []RankingEntry {
	return []RankingEntry{
		{MemberID: "d", MonthsInRank: 60, TotalScore: decimal.RequireFromString("20"), EntryDate: date(2012, 1, 1)},
		{MemberID: "b", MonthsInRank: 72, TotalScore: decimal.RequireFromString("18.5"), EntryDate: date(2010, 6, 1)},
		{MemberID: "c", MonthsInRank: 60, TotalScore: decimal.RequireFromString("18.50"), EntryDate: date(2010, 6, 1)},
		{MemberID: "a", MonthsInRank: 60, TotalScore: decimal.RequireFromString("25"), EntryDate: date(2012, 1, 1)},
		{MemberID: "e", MonthsInRank: 48, TotalScore: decimal.RequireFromString("18.5"), EntryDate: date(2009, 1, 1)},
	}
}

func memberIDs(entries []RankingEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.MemberID
	}
	return ids
}

func TestBuildRanking_Seniority(t *testing.T) {
	t.Parallel()

	ranked, err := BuildRanking(rankingFixture(), CriterionSeniority)
	if err != nil {
		t.Fatalf("BuildRanking returned error: %v", err)
	}
	want := []string{"b", "c", "a", "d", "e"}
	if got := memberIDs(ranked); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, e := range ranked {
		if e.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, e.Position)
		}
	}
}

func TestBuildRanking_Merit(t *testing.T) {
	t.Parallel()

	ranked, err := BuildRanking(rankingFixture(), CriterionMerit)
	if err != nil {
		t.Fatalf("BuildRanking returned error: %v", err)
	}
	want := []string{"a", "d", "e", "b", "c"}
	if got := memberIDs(ranked); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBuildRanking_DeterministicAndNonMutating(t *testing.T) {
	t.Parallel()

	input := rankingFixture()
	before := memberIDs(input)

	first, err := BuildRanking(input, CriterionMerit)
	if err != nil {
		t.Fatalf("BuildRanking returned error: %v", err)
	}
	second, err := BuildRanking(input, CriterionMerit)
	if err != nil {
		t.Fatalf("BuildRanking returned error: %v", err)
	}
	if !reflect.DeepEqual(memberIDs(first), memberIDs(second)) {
		t.Fatalf("expected identical ordering, got %v and %v", memberIDs(first), memberIDs(second))
	}
	again, err := BuildRanking(first, CriterionMerit)
	if err != nil {
		t.Fatalf("BuildRanking returned error: %v", err)
	}
	if !reflect.DeepEqual(memberIDs(first), memberIDs(again)) {
		t.Fatalf("expected re-ranking to be stable, got %v and %v", memberIDs(first), memberIDs(again))
	}
	if !reflect.DeepEqual(memberIDs(input), before) || input[0].Position != 0 {
		t.Fatal("expected input to be left untouched")
	}
}

func TestBuildRanking_Empty(t *testing.T) {
	t.Parallel()

	ranked, err := BuildRanking(nil, CriterionSeniority)
	if err != nil || len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %v, %v", ranked, err)
	}
}

func TestBuildRanking_InvalidCriterion(t *testing.T) {
	t.Parallel()

	if _, err := BuildRanking(rankingFixture(), "alphabetical"); !errors.Is(err, ErrInvalidCriterion) {
		t.Fatalf("expected ErrInvalidCriterion, got %v", err)
	}
	if _, err := ParseRankingCriterion("alphabetical"); !errors.Is(err, ErrInvalidCriterion) {
		t.Fatalf("expected ErrInvalidCriterion, got %v", err)
	}
	if c, err := ParseRankingCriterion(" Merit "); err != nil || c != CriterionMerit {
		t.Fatalf("expected merit, got %q, %v", c, err)
	}
}
