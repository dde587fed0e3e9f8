package promotion

import (
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/shopspring/decimal"
)

// Promotion は昇任履歴です。
type Promotion struct {
	ID            string
	MemberID      string
	FromRank      member.Rank
	ToRank        member.Rank
	Cadre         member.Cadre
	EffectiveDate time.Time
	TotalScore    decimal.Decimal
	MonthsInRank  int
	CreatedAt     time.Time
}
