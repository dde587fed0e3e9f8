package record

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind は経歴記録の種別です。
type Kind string

const (
	KindMilitaryCourse Kind = "military_course"
	KindCivilianCourse Kind = "civilian_course"
	KindDecoration     Kind = "decoration"
	KindCommendation   Kind = "commendation"
	KindReprimand      Kind = "reprimand"
)

// Valid は既知の種別かどうかを返します。
func (k Kind) Valid() bool {
	switch k {
	case KindMilitaryCourse, KindCivilianCourse, KindDecoration, KindCommendation, KindReprimand:
		return true
	default:
		return false
	}
}

// Course は課程系の種別かどうかを返します。
func (k Kind) Course() bool {
	return k == KindMilitaryCourse || k == KindCivilianCourse
}

// TimeBound は受領日を必要とする種別かどうかを返します。
func (k Kind) TimeBound() bool {
	switch k {
	case KindDecoration, KindCommendation, KindReprimand:
		return true
	default:
		return false
	}
}

// Record は隊員の経歴記録 (課程・勲章・表彰・懲戒) です。
// Points は入力されたままの文字列で保持し、評価時に数値として解釈します。
type Record struct {
	ID          string
	MemberID    string
	Kind        Kind
	Subtype     string
	Points      string
	ReceivedAt  *time.Time
	Dropped     bool
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PointValue は Points を非負の小数として解釈します。
func (r Record) PointValue() (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(r.Points))
	if err != nil {
		return decimal.Zero, ErrInvalidPoints
	}
	if value.IsNegative() {
		return decimal.Zero, ErrNegativePoints
	}
	return value, nil
}
