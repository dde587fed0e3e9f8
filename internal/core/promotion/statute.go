package promotion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/shopspring/decimal"
)

// Statutes は昇任判定に用いる法定テーブル一式です。
// エンジンの各部品はこの値を明示的に受け取り、グローバル状態を持ちません。
type Statutes struct {
	Calendar        CalendarRule   `yaml:"calendar"`
	Ranks           []RankRule     `yaml:"ranks"`
	Quotas          []QuotaRule    `yaml:"quotas"`
	UnboundedCadres []member.Cadre `yaml:"unbounded_cadres"`
	Scoring         ScoringRule    `yaml:"scoring"`
}

// CalendarRule は年 2 回の昇任日と受付期間の日数です。
type CalendarRule struct {
	July       MonthDay `yaml:"july"`
	December   MonthDay `yaml:"december"`
	WindowDays int      `yaml:"window_days"`
}

// RankRule は階級ごとの在級期間・最低点・次階級です。
// MinScore が nil の階級は先任順のみで、点数基準を持ちません。
type RankRule struct {
	Rank      member.Rank      `yaml:"rank"`
	MinMonths int              `yaml:"min_months"`
	MinScore  *decimal.Decimal `yaml:"min_score,omitempty"`
	Ceiling   bool             `yaml:"ceiling"`
	Next      member.Rank      `yaml:"next,omitempty"`
}

// QuotaRule は現役区分・階級ごとの法定定員です。
type QuotaRule struct {
	Cadre member.Cadre `yaml:"cadre"`
	Rank  member.Rank  `yaml:"rank"`
	Limit int          `yaml:"limit"`
}

// ScoringRule は評点の単価と上限です。
type ScoringRule struct {
	Slots      []SlotRule     `yaml:"slots"`
	Categories []CategoryRule `yaml:"categories"`
}

// SlotRule は細目ごとの単価と上限です。Cap が nil なら上限なしです。
type SlotRule struct {
	Slot      string           `yaml:"slot"`
	UnitValue decimal.Decimal  `yaml:"unit_value"`
	Cap       *decimal.Decimal `yaml:"cap,omitempty"`
}

// CategoryRule は区分全体の上限です。
type CategoryRule struct {
	Category string           `yaml:"category"`
	Cap      *decimal.Decimal `yaml:"cap,omitempty"`
}

// MonthDay は年に依存しない月日です。YAML では "MM-DD" 形式で記述します。
type MonthDay struct {
	Month time.Month
	Day   int
}

// In は指定年の日付を返します。
func (md MonthDay) In(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

// String は "MM-DD" 形式を返します。
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// MarshalText は encoding.TextMarshaler の実装です。
func (md MonthDay) MarshalText() ([]byte, error) {
	return []byte(md.String()), nil
}

// UnmarshalText は "MM-DD" 形式を解釈します。
func (md *MonthDay) UnmarshalText(text []byte) error {
	parts := strings.Split(strings.TrimSpace(string(text)), "-")
	if len(parts) != 2 {
		return fmt.Errorf("month-day %q: %w", text, ErrInvalidDate)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("month-day %q: %w", text, ErrInvalidDate)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("month-day %q: %w", text, ErrInvalidDate)
	}
	candidate := MonthDay{Month: time.Month(month), Day: day}
	if !candidate.valid() {
		return fmt.Errorf("month-day %q: %w", text, ErrInvalidDate)
	}
	*md = candidate
	return nil
}

// 2 月 29 日は平年に存在しないため受け付けません。
func (md MonthDay) valid() bool {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return false
	}
	d := md.In(2023)
	return d.Month() == md.Month && d.Day() == md.Day
}

// Rule は階級の規則を返します。
func (s *Statutes) Rule(rank member.Rank) (RankRule, bool) {
	for _, r := range s.Ranks {
		if r.Rank == rank {
			return r, true
		}
	}
	return RankRule{}, false
}

// NextRank は昇任先の階級を返します。最上位階級では false です。
func (s *Statutes) NextRank(rank member.Rank) (member.Rank, bool) {
	rule, ok := s.Rule(rank)
	if !ok || rule.Ceiling || rule.Next == "" {
		return "", false
	}
	return rule.Next, true
}

// CanonicalizeNames は表示名で書かれた階級・区分 ("Capitão", "qobm" など) を正規のコードに置き換えます。
func (s *Statutes) CanonicalizeNames() error {
	rank := func(r *member.Rank) error {
		if *r == "" {
			return nil
		}
		parsed, err := member.ParseRank(string(*r))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStatutes, err)
		}
		*r = parsed
		return nil
	}
	cadre := func(c *member.Cadre) error {
		parsed, err := member.ParseCadre(string(*c))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStatutes, err)
		}
		*c = parsed
		return nil
	}

	for i := range s.Ranks {
		if err := rank(&s.Ranks[i].Rank); err != nil {
			return err
		}
		if err := rank(&s.Ranks[i].Next); err != nil {
			return err
		}
	}
	for i := range s.Quotas {
		if err := cadre(&s.Quotas[i].Cadre); err != nil {
			return err
		}
		if err := rank(&s.Quotas[i].Rank); err != nil {
			return err
		}
	}
	for i := range s.UnboundedCadres {
		if err := cadre(&s.UnboundedCadres[i]); err != nil {
			return err
		}
	}
	return nil
}

// Validate は法定テーブルの整合性を検証します。
func (s *Statutes) Validate() error {
	if !s.Calendar.July.valid() || !s.Calendar.December.valid() {
		return fmt.Errorf("%w: calendar dates", ErrInvalidStatutes)
	}
	if s.Calendar.WindowDays <= 0 {
		return fmt.Errorf("%w: calendar.window_days must be positive", ErrInvalidStatutes)
	}
	if !s.Calendar.July.In(2023).Before(s.Calendar.December.In(2023)) {
		return fmt.Errorf("%w: july date must precede december date", ErrInvalidStatutes)
	}

	seenRanks := make(map[member.Rank]bool, len(s.Ranks))
	for _, r := range s.Ranks {
		if !r.Rank.Valid() {
			return fmt.Errorf("%w: unknown rank %q", ErrInvalidStatutes, r.Rank)
		}
		if seenRanks[r.Rank] {
			return fmt.Errorf("%w: duplicate rank %q", ErrInvalidStatutes, r.Rank)
		}
		seenRanks[r.Rank] = true
		if r.MinMonths < 0 {
			return fmt.Errorf("%w: negative min_months for %q", ErrInvalidStatutes, r.Rank)
		}
		if r.Ceiling && r.Next != "" {
			return fmt.Errorf("%w: ceiling rank %q has a next rank", ErrInvalidStatutes, r.Rank)
		}
		if !r.Ceiling {
			if !r.Next.Valid() || r.Next.Track() != r.Rank.Track() {
				return fmt.Errorf("%w: invalid next rank for %q", ErrInvalidStatutes, r.Rank)
			}
		}
		if r.MinScore != nil && r.MinScore.IsNegative() {
			return fmt.Errorf("%w: negative min_score for %q", ErrInvalidStatutes, r.Rank)
		}
	}

	seenQuotas := make(map[quotaKey]bool, len(s.Quotas))
	for _, q := range s.Quotas {
		if !q.Cadre.Valid() || !q.Rank.Valid() {
			return fmt.Errorf("%w: unknown quota entry %s/%s", ErrInvalidStatutes, q.Cadre, q.Rank)
		}
		if q.Limit < 0 {
			return fmt.Errorf("%w: negative quota for %s/%s", ErrInvalidStatutes, q.Cadre, q.Rank)
		}
		key := quotaKey{cadre: q.Cadre, rank: q.Rank}
		if seenQuotas[key] {
			return fmt.Errorf("%w: duplicate quota %s/%s", ErrInvalidStatutes, q.Cadre, q.Rank)
		}
		seenQuotas[key] = true
	}
	for _, c := range s.UnboundedCadres {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown unbounded cadre %q", ErrInvalidStatutes, c)
		}
	}

	for _, rule := range s.Scoring.Slots {
		if _, ok := ParseSlot(rule.Slot); !ok {
			return fmt.Errorf("%w: unknown scoring slot %q", ErrInvalidStatutes, rule.Slot)
		}
		if rule.UnitValue.IsNegative() || (rule.Cap != nil && rule.Cap.IsNegative()) {
			return fmt.Errorf("%w: negative value for slot %q", ErrInvalidStatutes, rule.Slot)
		}
	}
	for _, rule := range s.Scoring.Categories {
		if _, ok := ParseCategory(rule.Category); !ok {
			return fmt.Errorf("%w: unknown scoring category %q", ErrInvalidStatutes, rule.Category)
		}
		if rule.Cap != nil && rule.Cap.IsNegative() {
			return fmt.Errorf("%w: negative cap for category %q", ErrInvalidStatutes, rule.Category)
		}
	}

	return nil
}

func points(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pointsPtr(s string) *decimal.Decimal {
	d := points(s)
	return &d
}

// DefaultStatutes は組み込みの法定テーブルを返します。呼び出しごとに新しい値を返します。
func DefaultStatutes() *Statutes {
	return &Statutes{
		Calendar: CalendarRule{
			July:       MonthDay{Month: time.July, Day: 2},
			December:   MonthDay{Month: time.December, Day: 23},
			WindowDays: 15,
		},
		Ranks: []RankRule{
			{Rank: member.RankCoronel, Ceiling: true},
			{Rank: member.RankTenenteCoronel, MinMonths: 36, MinScore: pointsPtr("40"), Next: member.RankCoronel},
			{Rank: member.RankMajor, MinMonths: 36, MinScore: pointsPtr("35"), Next: member.RankTenenteCoronel},
			{Rank: member.RankCapitao, MinMonths: 48, MinScore: pointsPtr("30"), Next: member.RankMajor},
			{Rank: member.RankPrimeiroTenente, MinMonths: 48, MinScore: pointsPtr("25"), Next: member.RankCapitao},
			{Rank: member.RankSegundoTenente, MinMonths: 36, MinScore: pointsPtr("20"), Next: member.RankPrimeiroTenente},
			{Rank: member.RankAspirante, MinMonths: 6, Next: member.RankSegundoTenente},
			{Rank: member.RankSubtenente, Ceiling: true},
			{Rank: member.RankPrimeiroSargento, MinMonths: 36, MinScore: pointsPtr("15"), Next: member.RankSubtenente},
			{Rank: member.RankSegundoSargento, MinMonths: 48, MinScore: pointsPtr("12"), Next: member.RankPrimeiroSargento},
			{Rank: member.RankTerceiroSargento, MinMonths: 48, Next: member.RankSegundoSargento},
			{Rank: member.RankCabo, MinMonths: 48, Next: member.RankTerceiroSargento},
			{Rank: member.RankSoldado, MinMonths: 60, Next: member.RankCabo},
		},
		Quotas: []QuotaRule{
			{Cadre: member.CadreQOBM, Rank: member.RankCoronel, Limit: 12},
			{Cadre: member.CadreQOBM, Rank: member.RankTenenteCoronel, Limit: 30},
			{Cadre: member.CadreQOBM, Rank: member.RankMajor, Limit: 60},
			{Cadre: member.CadreQOBM, Rank: member.RankCapitao, Limit: 120},
			{Cadre: member.CadreQOBM, Rank: member.RankPrimeiroTenente, Limit: 180},
			{Cadre: member.CadreQOBM, Rank: member.RankSegundoTenente, Limit: 200},
			{Cadre: member.CadreQOBM, Rank: member.RankAspirante, Limit: 80},
			{Cadre: member.CadreQOABM, Rank: member.RankMajor, Limit: 10},
			{Cadre: member.CadreQOABM, Rank: member.RankCapitao, Limit: 30},
			{Cadre: member.CadreQOABM, Rank: member.RankPrimeiroTenente, Limit: 40},
			{Cadre: member.CadreQOABM, Rank: member.RankSegundoTenente, Limit: 50},
			{Cadre: member.CadreQPBM, Rank: member.RankSubtenente, Limit: 150},
			{Cadre: member.CadreQPBM, Rank: member.RankPrimeiroSargento, Limit: 300},
			{Cadre: member.CadreQPBM, Rank: member.RankSegundoSargento, Limit: 500},
			{Cadre: member.CadreQPBM, Rank: member.RankTerceiroSargento, Limit: 800},
			{Cadre: member.CadreQPBM, Rank: member.RankCabo, Limit: 1500},
			{Cadre: member.CadreQPBM, Rank: member.RankSoldado, Limit: 3000},
		},
		UnboundedCadres: []member.Cadre{member.CadreQORR, member.CadreQPRR},
		Scoring: ScoringRule{
			Slots: []SlotRule{
				{Slot: SlotTimeInCadre.String(), UnitValue: points("0.2"), Cap: pointsPtr("6")},
				{Slot: SlotCFO.String(), UnitValue: points("4"), Cap: pointsPtr("4")},
				{Slot: SlotCAO.String(), UnitValue: points("3"), Cap: pointsPtr("3")},
				{Slot: SlotCSBM.String(), UnitValue: points("5"), Cap: pointsPtr("5")},
				{Slot: SlotCHO.String(), UnitValue: points("3"), Cap: pointsPtr("3")},
				{Slot: SlotCFSd.String(), UnitValue: points("1"), Cap: pointsPtr("1")},
				{Slot: SlotCFC.String(), UnitValue: points("1.5"), Cap: pointsPtr("1.5")},
				{Slot: SlotCFS.String(), UnitValue: points("2"), Cap: pointsPtr("2")},
				{Slot: SlotCAS.String(), UnitValue: points("2.5"), Cap: pointsPtr("2.5")},
				{Slot: SlotExtension.String(), UnitValue: points("0.5"), Cap: pointsPtr("2")},
				{Slot: SlotSpecialization.String(), UnitValue: points("1"), Cap: pointsPtr("3")},
				{Slot: SlotDoctorate.String(), UnitValue: points("3"), Cap: pointsPtr("3")},
				{Slot: SlotMasters.String(), UnitValue: points("2"), Cap: pointsPtr("2")},
				{Slot: SlotPostgraduate.String(), UnitValue: points("1"), Cap: pointsPtr("2")},
				{Slot: SlotUndergraduate.String(), UnitValue: points("1"), Cap: pointsPtr("1")},
				{Slot: SlotMeritMedal.String(), UnitValue: points("1"), Cap: pointsPtr("3")},
				{Slot: SlotServiceMedal.String(), UnitValue: points("0.5"), Cap: pointsPtr("1.5")},
				{Slot: SlotOrder.String(), UnitValue: points("2"), Cap: pointsPtr("2")},
				{Slot: SlotIndividualCommendation.String(), UnitValue: points("0.5"), Cap: pointsPtr("3")},
				{Slot: SlotCollectiveCommendation.String(), UnitValue: points("0.25"), Cap: pointsPtr("1")},
				{Slot: SlotWarning.String(), UnitValue: points("0.5")},
				{Slot: SlotDetention.String(), UnitValue: points("1")},
				{Slot: SlotImprisonment.String(), UnitValue: points("2")},
				{Slot: SlotNonCompletion.String(), UnitValue: points("1")},
			},
			Categories: []CategoryRule{
				{Category: CategoryMilitaryCourse.String(), Cap: pointsPtr("15")},
				{Category: CategoryCivilianCourse.String(), Cap: pointsPtr("5")},
				{Category: CategoryDecoration.String(), Cap: pointsPtr("5")},
				{Category: CategoryCommendation.String(), Cap: pointsPtr("3.5")},
			},
		},
	}
}
