package promotion

import "fmt"

// Engine は法定テーブルから組み立てた判定部品一式です。
type Engine struct {
	statutes   *Statutes
	Aggregator *Aggregator
	Evaluator  *Evaluator
	Calendar   Calendar
	Gate       *VacancyGate
}

// NewEngine は法定テーブルを検証して Engine を生成します。nil なら組み込みテーブルを使います。
func NewEngine(st *Statutes) (*Engine, error) {
	if st == nil {
		st = DefaultStatutes()
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return &Engine{
		statutes:   st,
		Aggregator: NewAggregator(st),
		Evaluator:  NewEvaluator(st),
		Calendar:   NewCalendar(st.Calendar),
		Gate:       NewVacancyGate(st),
	}, nil
}

// Statutes は Engine が使う法定テーブルを返します。
func (e *Engine) Statutes() *Statutes {
	return e.statutes
}
