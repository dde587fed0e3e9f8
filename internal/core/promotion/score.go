package promotion

import (
	"errors"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"github.com/shopspring/decimal"
)

// Accumulator は細目ごとの集計値です。
type Accumulator struct {
	Slot         Slot
	Count        int
	UnitValue    decimal.Decimal
	PointsEarned decimal.Decimal
	Cap          *decimal.Decimal
	Clipped      bool
}

// CategoryTotal は区分ごとの集計値です。Points は区分上限を適用した後の値です。
type CategoryTotal struct {
	Category Category
	Count    int
	Raw      decimal.Decimal
	Points   decimal.Decimal
	Cap      *decimal.Decimal
	Clipped  bool
}

// Fallback は細目コードが照合できず既定細目に振り分けた記録です。
type Fallback struct {
	RecordID string
	Kind     record.Kind
	Subtype  string
	Slot     Slot
}

// ScoreSheet は評点表です。集計のたびに新しく作られ、呼び出し間で共有されません。
type ScoreSheet struct {
	Entries    []Accumulator
	Categories []CategoryTotal
	Positive   decimal.Decimal
	Negative   decimal.Decimal
	Total      decimal.Decimal
	Fallbacks  []Fallback
}

// Slot は細目の集計値を返します。
func (s *ScoreSheet) Slot(slot Slot) Accumulator {
	if s != nil {
		for _, e := range s.Entries {
			if e.Slot == slot {
				return e
			}
		}
	}
	return Accumulator{Slot: slot}
}

// Category は区分の集計値を返します。
func (s *ScoreSheet) Category(c Category) CategoryTotal {
	if s != nil {
		for _, t := range s.Categories {
			if t.Category == c {
				return t
			}
		}
	}
	return CategoryTotal{Category: c}
}

// TotalScore は総合点を返します。評点表がなければ 0 です。
func (s *ScoreSheet) TotalScore() decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return s.Total
}

type slotScoring struct {
	unit decimal.Decimal
	cap  *decimal.Decimal
}

// Aggregator は経歴記録を評点表に集計します。
type Aggregator struct {
	slots      map[Slot]slotScoring
	categories map[Category]*decimal.Decimal
}

// NewAggregator は法定テーブルから Aggregator を生成します。nil なら組み込みテーブルを使います。
func NewAggregator(st *Statutes) *Aggregator {
	if st == nil {
		st = DefaultStatutes()
	}
	a := &Aggregator{
		slots:      make(map[Slot]slotScoring, len(st.Scoring.Slots)),
		categories: make(map[Category]*decimal.Decimal, len(st.Scoring.Categories)),
	}
	for _, rule := range st.Scoring.Slots {
		slot, ok := ParseSlot(rule.Slot)
		if !ok {
			continue
		}
		a.slots[slot] = slotScoring{unit: rule.UnitValue, cap: copyDecimal(rule.Cap)}
	}
	for _, rule := range st.Scoring.Categories {
		c, ok := ParseCategory(rule.Category)
		if !ok {
			continue
		}
		a.categories[c] = copyDecimal(rule.Cap)
	}
	return a
}

// Compute は経歴記録を評点表に集計します。
// 評点値が数値でない、または負の記録があれば RecordValueError を返し、部分的な評点表は返しません。
func (a *Aggregator) Compute(records []record.Record) (*ScoreSheet, error) {
	return a.compute(records, 0)
}

// ComputeForMember は Compute に加え、入隊日から asOf までの満年数を在籍期間点として加算します。
func (a *Aggregator) ComputeForMember(m *member.Member, records []record.Record, asOf time.Time) (*ScoreSheet, error) {
	if m == nil {
		return nil, ErrMemberRequired
	}
	if asOf.IsZero() || m.EntryDate.IsZero() {
		return nil, ErrInvalidDate
	}
	months, err := MonthsBetween(m.EntryDate, asOf)
	if err != nil {
		return nil, err
	}
	return a.compute(records, months/12)
}

func (a *Aggregator) compute(records []record.Record, years int) (*ScoreSheet, error) {
	acc := make(map[Slot]*Accumulator, len(slots))
	for _, slot := range Slots() {
		rule := a.slots[slot]
		acc[slot] = &Accumulator{Slot: slot, UnitValue: rule.unit, PointsEarned: decimal.Zero, Cap: copyDecimal(rule.cap)}
	}

	sheet := &ScoreSheet{}

	if years > 0 {
		e := acc[SlotTimeInCadre]
		e.Count = years
		e.PointsEarned = e.UnitValue.Mul(decimal.NewFromInt(int64(years)))
	}

	for _, rec := range records {
		if !rec.Kind.Valid() {
			return nil, &RecordValueError{RecordID: rec.ID, Raw: string(rec.Kind), Cause: record.ErrInvalidKind}
		}
		value, err := rec.PointValue()
		if err != nil {
			return nil, &RecordValueError{RecordID: rec.ID, Raw: rec.Points, Cause: err}
		}

		if rec.Dropped && rec.Kind.Course() {
			e := acc[SlotNonCompletion]
			e.Count++
			e.PointsEarned = e.PointsEarned.Add(e.UnitValue)
			continue
		}

		slot, matched, err := Classify(rec.Kind, rec.Subtype)
		if err != nil {
			return nil, &RecordValueError{RecordID: rec.ID, Raw: rec.Subtype, Cause: err}
		}
		if !matched {
			sheet.Fallbacks = append(sheet.Fallbacks, Fallback{RecordID: rec.ID, Kind: rec.Kind, Subtype: rec.Subtype, Slot: slot})
		}

		e := acc[slot]
		e.Count++
		e.PointsEarned = e.PointsEarned.Add(value)
	}

	totals := make(map[Category]*CategoryTotal, len(categoryNames))
	for _, c := range Categories() {
		totals[c] = &CategoryTotal{Category: c, Raw: decimal.Zero, Points: decimal.Zero, Cap: copyDecimal(a.categories[c])}
	}

	for _, slot := range Slots() {
		e := acc[slot]
		if e.Cap != nil && e.PointsEarned.GreaterThan(*e.Cap) {
			e.PointsEarned = *e.Cap
			e.Clipped = true
		}
		t := totals[slot.Category()]
		t.Count += e.Count
		t.Raw = t.Raw.Add(e.PointsEarned)
		sheet.Entries = append(sheet.Entries, *e)
	}

	sheet.Positive = decimal.Zero
	sheet.Negative = decimal.Zero
	for _, c := range Categories() {
		t := totals[c]
		t.Points = t.Raw
		if t.Cap != nil && t.Points.GreaterThan(*t.Cap) {
			t.Points = *t.Cap
			t.Clipped = true
		}
		if c.Negative() {
			sheet.Negative = sheet.Negative.Add(t.Points)
		} else {
			sheet.Positive = sheet.Positive.Add(t.Points)
		}
		sheet.Categories = append(sheet.Categories, *t)
	}
	sheet.Total = sheet.Positive.Sub(sheet.Negative).Round(2)

	return sheet, nil
}

// IsRecordValueError は err が評点値の不正によるものかを判定し、該当する記録を返します。
func IsRecordValueError(err error) (*RecordValueError, bool) {
	var target *RecordValueError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
