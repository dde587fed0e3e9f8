package main

import (
	"fmt"

	"github.com/ogurasousui/personnel-promotion/internal/adapters/grpc/handler"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"github.com/spf13/cobra"
)

func newScoreCmd(a *app) *cobra.Command {
	var recordsPath, entryDate, asOf string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute a score sheet from a JSON list of career records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(recordsPath)
			if err != nil {
				return err
			}

			var sheet *promotion.ScoreSheet
			if entryDate == "" {
				sheet, err = a.engine.Aggregator.Compute(records)
			} else {
				entry, perr := promotion.ParseDate(entryDate)
				if perr != nil {
					return perr
				}
				day, perr := parseDateFlag(asOf)
				if perr != nil {
					return perr
				}
				sheet, err = a.engine.Aggregator.ComputeForMember(&member.Member{EntryDate: entry}, records, day)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, handler.ScoreSheetToWire(sheet))
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "JSON file with career records")
	cmd.Flags().StringVar(&entryDate, "entry-date", "", "entry date (YYYY-MM-DD) to add time-in-cadre points")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("records")

	return cmd
}

func newEvaluateCmd(a *app) *cobra.Command {
	var memberPath, recordsPath, asOf string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate promotion eligibility for one member",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMember(memberPath)
			if err != nil {
				return err
			}
			day, err := parseDateFlag(asOf)
			if err != nil {
				return err
			}

			var records []record.Record
			if recordsPath != "" {
				if records, err = loadRecords(recordsPath); err != nil {
					return err
				}
			}
			sheet, err := a.engine.Aggregator.ComputeForMember(m, records, day)
			if err != nil {
				return err
			}

			assessment, err := a.engine.Evaluator.Evaluate(m, sheet, day)
			if err != nil {
				return err
			}
			return writeJSON(cmd, handler.EvaluateMemberResponse{
				Sheet:      handler.ScoreSheetToWire(sheet),
				Assessment: handler.AssessmentToWire(assessment),
			})
		},
	}

	cmd.Flags().StringVar(&memberPath, "member", "", "JSON file with the member")
	cmd.Flags().StringVar(&recordsPath, "records", "", "JSON file with career records")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

type windowOutput struct {
	Date            string `json:"date"`
	July            string `json:"july"`
	December        string `json:"december"`
	InWindow        bool   `json:"in_window"`
	WindowFor       string `json:"window_for,omitempty"`
	IsAdmissionDate bool   `json:"is_admission_date"`
	NextAdmission   string `json:"next_admission"`
}

func newWindowCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Report admission dates and whether a date falls in an admission window",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			cal := a.engine.Calendar
			july, december := cal.AdmissionDates(day.Year())
			out := windowOutput{
				Date:            day.Format(promotion.DateLayout),
				July:            july.Format(promotion.DateLayout),
				December:        december.Format(promotion.DateLayout),
				InWindow:        cal.InAdmissionWindow(day),
				IsAdmissionDate: cal.IsAdmissionDate(day),
				NextAdmission:   cal.NextAdmissionDate(day).Format(promotion.DateLayout),
			}
			if admission, ok := cal.CurrentWindow(day); ok {
				out.WindowFor = admission.Format(promotion.DateLayout)
			}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")

	return cmd
}

func newVacancyCmd(a *app) *cobra.Command {
	var rank, cadre string
	var occupied int

	cmd := &cobra.Command{
		Use:   "vacancy",
		Short: "Check a (cadre, rank) quota against an occupancy count",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := member.ParseRank(rank)
			if err != nil {
				return err
			}
			c, err := member.ParseCadre(cadre)
			if err != nil {
				return err
			}
			decision, err := a.engine.Gate.Check(r, c, occupied)
			if err != nil {
				return err
			}
			return writeJSON(cmd, handler.VacancyToWire(decision))
		},
	}

	cmd.Flags().StringVar(&rank, "rank", "", "rank, e.g. capitao or Capitão")
	cmd.Flags().StringVar(&cadre, "cadre", "", "cadre code, e.g. QOBM")
	cmd.Flags().IntVar(&occupied, "occupied", 0, "current occupancy")
	_ = cmd.MarkFlagRequired("rank")
	_ = cmd.MarkFlagRequired("cadre")

	return cmd
}

func newRankCmd(_ *app) *cobra.Command {
	var entriesPath, criterion string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Order candidates by seniority or merit",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := promotion.ParseRankingCriterion(criterion)
			if err != nil {
				return err
			}
			entries, err := loadRankingEntries(entriesPath)
			if err != nil {
				return err
			}
			ranked, err := promotion.BuildRanking(entries, c)
			if err != nil {
				return err
			}

			out := make([]handler.AccessListEntry, 0, len(ranked))
			for _, e := range ranked {
				out = append(out, handler.AccessListEntry{
					Position:     e.Position,
					MemberID:     e.MemberID,
					Name:         e.Name,
					MonthsInRank: e.MonthsInRank,
					TotalScore:   e.TotalScore.StringFixed(2),
					EntryDate:    e.EntryDate.Format(promotion.DateLayout),
					Verdict:      string(e.Verdict),
					Note:         e.Note,
				})
			}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&entriesPath, "entries", "", "JSON file with ranking entries")
	cmd.Flags().StringVar(&criterion, "criterion", string(promotion.CriterionSeniority), fmt.Sprintf("%s or %s", promotion.CriterionSeniority, promotion.CriterionMerit))
	_ = cmd.MarkFlagRequired("entries")

	return cmd
}
