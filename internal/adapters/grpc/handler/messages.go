package handler

import (
	"strings"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"github.com/shopspring/decimal"
)

// Member は隊員のワイヤ表現です。日付は YYYY-MM-DD 形式です。
type Member struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	Name               string    `json:"name"`
	Rank               string    `json:"rank"`
	Cadre              string    `json:"cadre"`
	Situation          string    `json:"situation"`
	BirthDate          string    `json:"birth_date,omitempty"`
	EntryDate          string    `json:"entry_date"`
	LastPromotionDate  string    `json:"last_promotion_date,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CreateMemberRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`
	Rank               string `json:"rank"`
	Cadre              string `json:"cadre"`
	Situation          string `json:"situation,omitempty"`
	BirthDate          string `json:"birth_date,omitempty"`
	EntryDate          string `json:"entry_date"`
	LastPromotionDate  string `json:"last_promotion_date,omitempty"`
}

type CreateMemberResponse struct {
	Member *Member `json:"member"`
}

// UpdateMemberRequest は nil の項目を更新しません。BirthDate に空文字を渡すと生年月日を消去します。
type UpdateMemberRequest struct {
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	Cadre     *string `json:"cadre,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type GetMemberRequest struct {
	ID string `json:"id"`
}

type GetMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMembersRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Cadre     string `json:"cadre,omitempty"`
	Situation string `json:"situation,omitempty"`
}

type ListMembersResponse struct {
	Members       []*Member `json:"members"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

// Record は経歴記録のワイヤ表現です。
type Record struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Kind        string    `json:"kind"`
	Subtype     string    `json:"subtype"`
	Points      string    `json:"points"`
	ReceivedAt  string    `json:"received_at,omitempty"`
	Dropped     bool      `json:"dropped,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AddRecordRequest struct {
	MemberID    string `json:"member_id"`
	Kind        string `json:"kind"`
	Subtype     string `json:"subtype"`
	Points      string `json:"points"`
	ReceivedAt  string `json:"received_at,omitempty"`
	Dropped     bool   `json:"dropped,omitempty"`
	Description string `json:"description,omitempty"`
}

type AddRecordResponse struct {
	Record *Record `json:"record"`
}

type DeleteRecordRequest struct {
	ID string `json:"id"`
}

type DeleteRecordResponse struct{}

type ListRecordsRequest struct {
	MemberID string `json:"member_id"`
}

type ListRecordsResponse struct {
	Records []*Record `json:"records"`
}

// SlotScore は細目ごとの集計値です。点数は小数 2 桁の文字列です。
type SlotScore struct {
	Slot     string `json:"slot"`
	Category string `json:"category"`
	Count    int    `json:"count"`
	Points   string `json:"points"`
	Cap      string `json:"cap,omitempty"`
	Clipped  bool   `json:"clipped,omitempty"`
}

type CategoryScore struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Raw      string `json:"raw"`
	Points   string `json:"points"`
	Cap      string `json:"cap,omitempty"`
	Clipped  bool   `json:"clipped,omitempty"`
}

type ScoreFallback struct {
	RecordID string `json:"record_id"`
	Kind     string `json:"kind"`
	Subtype  string `json:"subtype"`
	Slot     string `json:"slot"`
}

type ScoreSheet struct {
	Slots      []SlotScore     `json:"slots"`
	Categories []CategoryScore `json:"categories"`
	Positive   string          `json:"positive"`
	Negative   string          `json:"negative"`
	Total      string          `json:"total"`
	Fallbacks  []ScoreFallback `json:"fallbacks,omitempty"`
}

type Criterion struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Satisfied   bool   `json:"satisfied"`
	Note        string `json:"note,omitempty"`
}

type Assessment struct {
	MemberID       string      `json:"member_id"`
	Rank           string      `json:"rank"`
	NextRank       string      `json:"next_rank,omitempty"`
	AsOf           string      `json:"as_of"`
	MonthsInRank   int         `json:"months_in_rank"`
	TotalScore     string      `json:"total_score"`
	Criteria       []Criterion `json:"criteria"`
	SatisfiedCount int         `json:"satisfied_count"`
	TotalCount     int         `json:"total_count"`
	Verdict        string      `json:"verdict"`
	BlockingReason string      `json:"blocking_reason,omitempty"`
}

type Vacancy struct {
	Rank      string `json:"rank"`
	Cadre     string `json:"cadre"`
	Available bool   `json:"available"`
	Unbounded bool   `json:"unbounded,omitempty"`
	Quota     int    `json:"quota"`
	Occupied  int    `json:"occupied"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

type Promotion struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"member_id"`
	FromRank      string    `json:"from_rank"`
	ToRank        string    `json:"to_rank"`
	Cadre         string    `json:"cadre"`
	EffectiveDate string    `json:"effective_date"`
	TotalScore    string    `json:"total_score"`
	MonthsInRank  int       `json:"months_in_rank"`
	CreatedAt     time.Time `json:"created_at"`
}

type EvaluateMemberRequest struct {
	MemberID string `json:"member_id"`
	AsOf     string `json:"as_of,omitempty"`
}

type EvaluateMemberResponse struct {
	Member     *Member     `json:"member"`
	Sheet      *ScoreSheet `json:"sheet"`
	Assessment *Assessment `json:"assessment"`
}

type CheckVacancyRequest struct {
	Rank  string `json:"rank"`
	Cadre string `json:"cadre"`
}

type CheckVacancyResponse struct {
	Vacancy *Vacancy `json:"vacancy"`
}

type PromoteMemberRequest struct {
	MemberID        string `json:"member_id"`
	EffectiveDate   string `json:"effective_date,omitempty"`
	AllowOutOfCycle bool   `json:"allow_out_of_cycle,omitempty"`
}

type PromoteMemberResponse struct {
	Member     *Member     `json:"member"`
	Promotion  *Promotion  `json:"promotion"`
	Assessment *Assessment `json:"assessment"`
	Vacancy    *Vacancy    `json:"vacancy"`
}

type ActivateMemberRequest struct {
	MemberID string `json:"member_id"`
}

type ActivateMemberResponse struct {
	Member  *Member  `json:"member"`
	Vacancy *Vacancy `json:"vacancy"`
}

type BuildAccessListRequest struct {
	Rank         string `json:"rank"`
	Cadre        string `json:"cadre"`
	Criterion    string `json:"criterion"`
	AsOf         string `json:"as_of,omitempty"`
	EligibleOnly bool   `json:"eligible_only,omitempty"`
}

type AccessListEntry struct {
	Position     int    `json:"position"`
	MemberID     string `json:"member_id"`
	Name         string `json:"name"`
	MonthsInRank int    `json:"months_in_rank"`
	TotalScore   string `json:"total_score"`
	EntryDate    string `json:"entry_date"`
	Verdict      string `json:"verdict"`
	Note         string `json:"note,omitempty"`
}

type BuildAccessListResponse struct {
	Rank          string            `json:"rank"`
	Cadre         string            `json:"cadre"`
	Criterion     string            `json:"criterion"`
	AsOf          string            `json:"as_of"`
	WindowOpen    bool              `json:"window_open"`
	NextAdmission string            `json:"next_admission"`
	Entries       []AccessListEntry `json:"entries"`
}

type ListPromotionsRequest struct {
	MemberID string `json:"member_id"`
}

type ListPromotionsResponse struct {
	Promotions []*Promotion `json:"promotions"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(promotion.DateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatPoints(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatCap(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return formatPoints(*d)
}

// parseOptionalDate は空文字を nil として扱います。
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := promotion.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toWireMember(m *member.Member) *Member {
	if m == nil {
		return nil
	}
	return &Member{
		ID:                 m.ID,
		RegistrationNumber: m.RegistrationNumber,
		Name:               m.Name,
		Rank:               string(m.Rank),
		Cadre:              string(m.Cadre),
		Situation:          string(m.Situation),
		BirthDate:          formatDatePtr(m.BirthDate),
		EntryDate:          formatDate(m.EntryDate),
		LastPromotionDate:  formatDatePtr(m.LastPromotionDate),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toWireRecord(r *record.Record) *Record {
	if r == nil {
		return nil
	}
	return &Record{
		ID:          r.ID,
		MemberID:    r.MemberID,
		Kind:        string(r.Kind),
		Subtype:     r.Subtype,
		Points:      r.Points,
		ReceivedAt:  formatDatePtr(r.ReceivedAt),
		Dropped:     r.Dropped,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ScoreSheetToWire は評点表をワイヤ表現に変換します。
func ScoreSheetToWire(s *promotion.ScoreSheet) *ScoreSheet {
	if s == nil {
		return nil
	}
	out := &ScoreSheet{
		Slots:      make([]SlotScore, 0, len(s.Entries)),
		Categories: make([]CategoryScore, 0, len(s.Categories)),
		Positive:   formatPoints(s.Positive),
		Negative:   formatPoints(s.Negative),
		Total:      formatPoints(s.Total),
	}
	for _, e := range s.Entries {
		out.Slots = append(out.Slots, SlotScore{
			Slot:     e.Slot.String(),
			Category: e.Slot.Category().String(),
			Count:    e.Count,
			Points:   formatPoints(e.PointsEarned),
			Cap:      formatCap(e.Cap),
			Clipped:  e.Clipped,
		})
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, CategoryScore{
			Category: c.Category.String(),
			Count:    c.Count,
			Raw:      formatPoints(c.Raw),
			Points:   formatPoints(c.Points),
			Cap:      formatCap(c.Cap),
			Clipped:  c.Clipped,
		})
	}
	for _, f := range s.Fallbacks {
		out.Fallbacks = append(out.Fallbacks, ScoreFallback{
			RecordID: f.RecordID,
			Kind:     string(f.Kind),
			Subtype:  f.Subtype,
			Slot:     f.Slot.String(),
		})
	}
	return out
}

// AssessmentToWire は判定結果をワイヤ表現に変換します。
func AssessmentToWire(a *promotion.Assessment) *Assessment {
	if a == nil {
		return nil
	}
	out := &Assessment{
		MemberID:       a.MemberID,
		Rank:           string(a.Rank),
		NextRank:       string(a.NextRank),
		AsOf:           formatDate(a.AsOf),
		MonthsInRank:   a.MonthsInRank,
		TotalScore:     formatPoints(a.TotalScore),
		Criteria:       make([]Criterion, 0, len(a.Criteria)),
		SatisfiedCount: a.SatisfiedCount,
		TotalCount:     a.TotalCount,
		Verdict:        string(a.Verdict),
		BlockingReason: a.BlockingReason,
	}
	for _, c := range a.Criteria {
		out.Criteria = append(out.Criteria, Criterion{
			ID:          string(c.ID),
			Description: c.Description,
			Satisfied:   c.Satisfied,
			Note:        c.Note,
		})
	}
	return out
}

// VacancyToWire は欠員判定をワイヤ表現に変換します。
func VacancyToWire(d promotion.VacancyDecision) *Vacancy {
	return &Vacancy{
		Rank:      string(d.Rank),
		Cadre:     string(d.Cadre),
		Available: d.Available,
		Unbounded: d.Unbounded,
		Quota:     d.Quota,
		Occupied:  d.Occupied,
		Remaining: d.Remaining,
		Message:   d.Message,
	}
}

func toWirePromotion(p *promotion.Promotion) *Promotion {
	if p == nil {
		return nil
	}
	return &Promotion{
		ID:            p.ID,
		MemberID:      p.MemberID,
		FromRank:      string(p.FromRank),
		ToRank:        string(p.ToRank),
		Cadre:         string(p.Cadre),
		EffectiveDate: formatDate(p.EffectiveDate),
		TotalScore:    formatPoints(p.TotalScore),
		MonthsInRank:  p.MonthsInRank,
		CreatedAt:     p.CreatedAt,
	}
}

// rankOf は表記ゆれを吸収した階級を返します。解釈できない値はそのまま渡し、検証はユースケースに任せます。
func rankOf(raw string) member.Rank {
	if r, err := member.ParseRank(raw); err == nil {
		return r
	}
	return member.Rank(raw)
}

// cadreOf は rankOf の区分版です。
func cadreOf(raw string) member.Cadre {
	if c, err := member.ParseCadre(raw); err == nil {
		return c
	}
	return member.Cadre(raw)
}
