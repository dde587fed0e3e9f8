package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/platform/config"
	"github.com/spf13/cobra"
)

// app はサブコマンドが共有する判定エンジンです。
type app struct {
	statutesPath string
	engine       *promotion.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "promoctl",
		Short:         "Offline access to the promotion rules engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st, err := config.LoadStatutes(a.statutesPath)
			if err != nil {
				return err
			}
			engine, err := promotion.NewEngine(st)
			if err != nil {
				return err
			}
			a.engine = engine
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.statutesPath, "statutes", "", "statutes YAML file (defaults to the built-in tables)")

	cmd.AddCommand(
		newScoreCmd(a),
		newEvaluateCmd(a),
		newWindowCmd(a),
		newVacancyCmd(a),
		newRankCmd(a),
	)

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
