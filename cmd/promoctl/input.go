package main

import (
	"fmt"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"github.com/shopspring/decimal"
)

type recordInput struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Subtype string `json:"subtype"`
	Points  string `json:"points"`
	Dropped bool   `json:"dropped"`
}

type memberInput struct {
	ID                string `json:"id"`
	Rank              string `json:"rank"`
	Cadre             string `json:"cadre"`
	Situation         string `json:"situation"`
	EntryDate         string `json:"entry_date"`
	LastPromotionDate string `json:"last_promotion_date"`
}

type rankingInput struct {
	MemberID     string          `json:"member_id"`
	Name         string          `json:"name"`
	MonthsInRank int             `json:"months_in_rank"`
	TotalScore   decimal.Decimal `json:"total_score"`
	EntryDate    string          `json:"entry_date"`
}

func loadRecords(path string) ([]record.Record, error) {
	var in []recordInput
	if err := readJSONFile(path, &in); err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(in))
	for _, r := range in {
		out = append(out, record.Record{
			ID:      r.ID,
			Kind:    record.Kind(r.Kind),
			Subtype: r.Subtype,
			Points:  r.Points,
			Dropped: r.Dropped,
		})
	}
	return out, nil
}

func loadMember(path string) (*member.Member, error) {
	var in memberInput
	if err := readJSONFile(path, &in); err != nil {
		return nil, err
	}
	entry, err := promotion.ParseDate(in.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("entry_date: %w", err)
	}
	rank, err := member.ParseRank(in.Rank)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	cadre, err := member.ParseCadre(in.Cadre)
	if err != nil {
		return nil, fmt.Errorf("cadre: %w", err)
	}
	m := &member.Member{
		ID:        in.ID,
		Rank:      rank,
		Cadre:     cadre,
		Situation: member.Situation(in.Situation),
		EntryDate: entry,
	}
	if m.Situation == "" {
		m.Situation = member.SituationActive
	}
	if in.LastPromotionDate != "" {
		last, err := promotion.ParseDate(in.LastPromotionDate)
		if err != nil {
			return nil, fmt.Errorf("last_promotion_date: %w", err)
		}
		m.LastPromotionDate = &last
	}
	return m, nil
}

func loadRankingEntries(path string) ([]promotion.RankingEntry, error) {
	var in []rankingInput
	if err := readJSONFile(path, &in); err != nil {
		return nil, err
	}
	out := make([]promotion.RankingEntry, 0, len(in))
	for _, e := range in {
		entry, err := promotion.ParseDate(e.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("member %s entry_date: %w", e.MemberID, err)
		}
		out = append(out, promotion.RankingEntry{
			MemberID:     e.MemberID,
			Name:         e.Name,
			MonthsInRank: e.MonthsInRank,
			TotalScore:   e.TotalScore,
			EntryDate:    entry,
		})
	}
	return out, nil
}

// parseDateFlag は空文字なら当日を返します。
func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return promotion.ParseDate(raw)
}
