package member

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Admission は在職者が増える変更を定員と照合します。書き込みトランザクション内で呼ばれ、
// 欠員がなければエラーを返します。
type Admission interface {
	Admit(ctx context.Context, rank Rank, cadre Cadre) error
}

// reserveOnlyAdmission は定員照合先が設定されていない場合の既定です。予備役区分のみ通します。
type reserveOnlyAdmission struct{}

func (reserveOnlyAdmission) Admit(_ context.Context, rank Rank, cadre Cadre) error {
	if cadre.Reserve() {
		return nil
	}
	return fmt.Errorf("%s/%s: %w", cadre, rank, ErrAdmissionUnavailable)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithAdmission は現役配置時の定員照合先を設定します。
func WithAdmission(a Admission) Option {
	return func(s *Service) {
		if a != nil {
			s.admission = a
		}
	}
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

var registrationPattern = regexp.MustCompile(`^[0-9][0-9.-]{2,19}$`)

// Service は隊員名簿に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	clock     Clock
	tx        TransactionManager
	admission Admission
}

// UseCase は隊員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateMember(ctx context.Context, in CreateMemberInput) (*Member, error)
	GetMember(ctx context.Context, in GetMemberInput) (*Member, error)
	ListMembers(ctx context.Context, in ListMembersInput) (*ListMembersResult, error)
	UpdateMember(ctx context.Context, in UpdateMemberInput) (*Member, error)
}

// NewService は Service を生成します。
// 現役で登録する隊員と、現役隊員の区分変更は Admission を通します。
func NewService(repo Repository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{repo: repo, clock: clock, tx: tx, admission: reserveOnlyAdmission{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMemberInput は隊員登録時の入力です。
type CreateMemberInput struct {
	RegistrationNumber string
	Name               string
	Rank               Rank
	Cadre              Cadre
	Situation          *Situation
	BirthDate          *time.Time
	EntryDate          time.Time
	LastPromotionDate  *time.Time
}

// UpdateMemberInput は隊員更新時の入力です。昇任・復帰は promotion パッケージが扱います。
type UpdateMemberInput struct {
	ID           string
	Name         *string
	Cadre        *Cadre
	BirthDate    *time.Time
	BirthDateSet bool
}

// GetMemberInput は隊員取得時の入力です。
type GetMemberInput struct {
	ID string
}

// ListMembersInput は一覧取得時の入力です。
type ListMembersInput struct {
	PageSize  int
	PageToken string
	Rank      *Rank
	Cadre     *Cadre
	Situation *Situation
}

// ListMembersResult は一覧取得結果を表します。
type ListMembersResult struct {
	Members       []*Member
	NextPageToken string
}

// CreateMember は新しい隊員を登録します。
func (s *Service) CreateMember(ctx context.Context, in CreateMemberInput) (*Member, error) {
	registration, err := normalizeRegistration(in.RegistrationNumber)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if err := validateRankCadre(in.Rank, in.Cadre); err != nil {
		return nil, err
	}

	situation := SituationActive
	if in.Situation != nil {
		if !isValidSituation(*in.Situation) {
			return nil, ErrInvalidSituation
		}
		situation = *in.Situation
	}

	if in.EntryDate.IsZero() {
		return nil, ErrInvalidEntryDate
	}
	entry := NormalizeDate(in.EntryDate)
	birth := normalizeDatePtr(in.BirthDate)
	lastPromotion := normalizeDatePtr(in.LastPromotionDate)

	now := s.clock.Now()
	if entry.After(now) {
		return nil, fmt.Errorf("entry date after today: %w", ErrInvalidEntryDate)
	}
	if lastPromotion != nil && lastPromotion.After(now) {
		return nil, fmt.Errorf("last promotion after today: %w", ErrInvalidDateRange)
	}
	if err := validateDateSequence(birth, entry, lastPromotion); err != nil {
		return nil, err
	}

	var created *Member
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureRegistrationNotExists(txCtx, registration); err != nil {
			return err
		}
		if situation == SituationActive {
			if err := s.admission.Admit(txCtx, in.Rank, in.Cadre); err != nil {
				return err
			}
		}

		m := &Member{
			RegistrationNumber: registration,
			Name:               name,
			Rank:               in.Rank,
			Cadre:              in.Cadre,
			Situation:          situation,
			BirthDate:          birth,
			EntryDate:          entry,
			LastPromotionDate:  lastPromotion,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		result, err := s.repo.Create(txCtx, m)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateMember は隊員情報を更新します。
func (s *Service) UpdateMember(ctx context.Context, in UpdateMemberInput) (*Member, error) {
	id, err := NormalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Member
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.Cadre != nil && *in.Cadre != existing.Cadre {
			if err := validateRankCadre(existing.Rank, *in.Cadre); err != nil {
				return err
			}
			if existing.Situation == SituationActive {
				if err := s.admission.Admit(txCtx, existing.Rank, *in.Cadre); err != nil {
					return err
				}
			}
			existing.Cadre = *in.Cadre
		}

		if in.BirthDateSet {
			existing.BirthDate = normalizeDatePtr(in.BirthDate)
		}

		if err := validateDateSequence(existing.BirthDate, existing.EntryDate, existing.LastPromotionDate); err != nil {
			return err
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetMember は隊員を取得します。
func (s *Service) GetMember(ctx context.Context, in GetMemberInput) (*Member, error) {
	id, err := NormalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Member
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListMembers は隊員の一覧を取得します。
func (s *Service) ListMembers(ctx context.Context, in ListMembersInput) (*ListMembersResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ListMembersFilter{Limit: limit, Offset: offset}
	if in.Rank != nil {
		if !in.Rank.Valid() {
			return nil, ErrInvalidRank
		}
		rank := *in.Rank
		filter.Rank = &rank
	}
	if in.Cadre != nil {
		if !in.Cadre.Valid() {
			return nil, ErrInvalidCadre
		}
		cadre := *in.Cadre
		filter.Cadre = &cadre
	}
	if in.Situation != nil {
		if !isValidSituation(*in.Situation) {
			return nil, ErrInvalidSituation
		}
		situation := *in.Situation
		filter.Situation = &situation
	}

	var (
		members   []*Member
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, token, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		members = found
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListMembersResult{Members: members, NextPageToken: nextToken}, nil
}

func (s *Service) ensureRegistrationNotExists(ctx context.Context, registration string) error {
	m, err := s.repo.FindByRegistration(ctx, registration)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return err
	}
	if m != nil {
		return ErrRegistrationAlreadyExists
	}
	return nil
}

// NormalizeID は隊員 ID を検証し正規化します。
func NormalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("id %q: %w", trimmed, ErrInvalidID)
	}
	return parsed.String(), nil
}

// NormalizeDate は日付を UTC の 0 時に丸めます。
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeDatePtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	normalized := NormalizeDate(*t)
	return &normalized
}

func normalizeRegistration(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !registrationPattern.MatchString(trimmed) {
		return "", ErrInvalidRegistration
	}
	return trimmed, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > 255 {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func validateRankCadre(rank Rank, cadre Cadre) error {
	if !rank.Valid() {
		return ErrInvalidRank
	}
	if !cadre.Valid() {
		return ErrInvalidCadre
	}
	if rank.Track() != cadre.Track() {
		return fmt.Errorf("%s in %s: %w", rank, cadre, ErrRankCadreMismatch)
	}
	return nil
}

func validateDateSequence(birth *time.Time, entry time.Time, lastPromotion *time.Time) error {
	if birth != nil && !birth.Before(entry) {
		return fmt.Errorf("birth date not before entry date: %w", ErrInvalidDateRange)
	}
	if lastPromotion != nil && lastPromotion.Before(entry) {
		return fmt.Errorf("last promotion before entry date: %w", ErrInvalidDateRange)
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func isValidSituation(situation Situation) bool {
	switch situation {
	case SituationActive, SituationInactive:
		return true
	default:
		return false
	}
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
