package promotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
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
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// 判定結果の集計区分です。
const (
	OutcomeGranted     = "granted"
	OutcomeIneligible  = "ineligible"
	OutcomeNoVacancy   = "no_vacancy"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

// 集計対象の操作名です。
const (
	OperationPromote  = "promote"
	OperationActivate = "activate"
	OperationAdmit    = "admit"
	OperationVacancy  = "check_vacancy"
)

// Recorder は判定結果を計測基盤へ送ります。
type Recorder interface {
	RecordEvaluation(verdict Verdict)
	RecordDecision(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordEvaluation(Verdict)       {}
func (noopRecorder) RecordDecision(string, string) {}

// Option は Service の任意設定です。
type Option func(*Service)

// WithRecorder は計測の送り先を設定します。
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service は昇任判定・昇任・復帰・昇任名簿のユースケースをまとめます。
type Service struct {
	engine   *Engine
	members  MemberRegistry
	records  RecordStore
	repo     Repository
	clock    Clock
	tx       TransactionManager
	locks    *quotaLocks
	recorder Recorder
	logger   *slog.Logger
}

// UseCase は昇任ユースケースの公開インターフェースです。
type UseCase interface {
	EvaluateMember(ctx context.Context, in EvaluateMemberInput) (*Evaluation, error)
	CheckVacancy(ctx context.Context, in CheckVacancyInput) (VacancyDecision, error)
	PromoteMember(ctx context.Context, in PromoteMemberInput) (*PromoteMemberResult, error)
	ActivateMember(ctx context.Context, in ActivateMemberInput) (*ActivateMemberResult, error)
	BuildAccessList(ctx context.Context, in BuildAccessListInput) (*AccessList, error)
	ListPromotions(ctx context.Context, in ListPromotionsInput) ([]*Promotion, error)
}

var _ member.Admission = (*Service)(nil)

// NewService は Service を生成します。
func NewService(engine *Engine, members MemberRegistry, records RecordStore, repo Repository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		engine:   engine,
		members:  members,
		records:  records,
		repo:     repo,
		clock:    clock,
		tx:       tx,
		locks:    newQuotaLocks(),
		recorder: noopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine は Service が使う判定部品を返します。
func (s *Service) Engine() *Engine {
	return s.engine
}

// EvaluateMemberInput は昇任要件判定の入力です。AsOf が nil なら当日です。
type EvaluateMemberInput struct {
	MemberID string
	AsOf     *time.Time
}

// Evaluation は判定対象の隊員・評点表・判定結果です。
type Evaluation struct {
	Member     *member.Member
	Sheet      *ScoreSheet
	Assessment *Assessment
}

// CheckVacancyInput は欠員照会の入力です。
type CheckVacancyInput struct {
	Rank  member.Rank
	Cadre member.Cadre
}

// PromoteMemberInput は昇任の入力です。EffectiveDate が nil なら当日です。
// AllowOutOfCycle が false の場合、発令日は昇任日でなければなりません。
type PromoteMemberInput struct {
	MemberID        string
	EffectiveDate   *time.Time
	AllowOutOfCycle bool
}

// PromoteMemberResult は昇任の結果です。
type PromoteMemberResult struct {
	Member     *member.Member
	Promotion  *Promotion
	Assessment *Assessment
	Vacancy    VacancyDecision
}

// ActivateMemberInput は復帰の入力です。
type ActivateMemberInput struct {
	MemberID string
}

// ActivateMemberResult は復帰の結果です。
type ActivateMemberResult struct {
	Member  *member.Member
	Vacancy VacancyDecision
}

// BuildAccessListInput は昇任名簿作成の入力です。
type BuildAccessListInput struct {
	Rank         member.Rank
	Cadre        member.Cadre
	Criterion    RankingCriterion
	AsOf         *time.Time
	EligibleOnly bool
}

// AccessList は昇任名簿です。
type AccessList struct {
	Rank          member.Rank
	Cadre         member.Cadre
	Criterion     RankingCriterion
	AsOf          time.Time
	WindowOpen    bool
	NextAdmission time.Time
	Entries       []RankingEntry
}

// ListPromotionsInput は昇任履歴取得の入力です。
type ListPromotionsInput struct {
	MemberID string
}

// EvaluateMember は隊員の評点表を作り、昇任要件を判定します。
func (s *Service) EvaluateMember(ctx context.Context, in EvaluateMemberInput) (*Evaluation, error) {
	id, err := member.NormalizeID(in.MemberID)
	if err != nil {
		return nil, err
	}
	asOf := s.dateOrToday(in.AsOf)

	var result *Evaluation
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result, err = s.evaluate(txCtx, m, asOf)
		return err
	}); err != nil {
		return nil, err
	}

	s.recorder.RecordEvaluation(result.Assessment.Verdict)
	return result, nil
}

// CheckVacancy は名簿の在職者数を読み、欠員の有無を判定します。
// 名簿を読めない場合は ErrVacancyCheckUnavailable を返し、呼び出し側は拒否として扱います。
func (s *Service) CheckVacancy(ctx context.Context, in CheckVacancyInput) (VacancyDecision, error) {
	var decision VacancyDecision
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		decision, err = s.checkVacancy(txCtx, in.Rank, in.Cadre)
		return err
	})
	if err != nil && !isVacancyError(err) {
		err = fmt.Errorf("%w: %w", ErrVacancyCheckUnavailable, err)
	}
	s.recordDecision(OperationVacancy, decision, err)
	if err != nil {
		return VacancyDecision{}, err
	}
	return decision, nil
}

// PromoteMember は隊員を次の階級へ昇任させます。
// 定員の確認と在職者数を増やす更新は、区分・階級ごとのロックを保持した 1 つのトランザクション内で行います。
func (s *Service) PromoteMember(ctx context.Context, in PromoteMemberInput) (*PromoteMemberResult, error) {
	result, err := s.promote(ctx, in)
	s.recordDecision(OperationPromote, vacancyOf(result), err)
	if err != nil {
		s.logger.WarnContext(ctx, "promotion denied",
			slog.String("member_id", in.MemberID),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}
	s.logger.InfoContext(ctx, "promotion granted",
		slog.String("member_id", result.Member.ID),
		slog.String("from_rank", string(result.Promotion.FromRank)),
		slog.String("to_rank", string(result.Promotion.ToRank)),
		slog.String("cadre", string(result.Member.Cadre)),
		slog.String("effective_date", result.Promotion.EffectiveDate.Format(DateLayout)),
	)
	return result, nil
}

func (s *Service) promote(ctx context.Context, in PromoteMemberInput) (*PromoteMemberResult, error) {
	id, err := member.NormalizeID(in.MemberID)
	if err != nil {
		return nil, err
	}
	effective := s.dateOrToday(in.EffectiveDate)
	if !in.AllowOutOfCycle && !s.engine.Calendar.IsAdmissionDate(effective) {
		return nil, fmt.Errorf("%s (next %s): %w", effective.Format(DateLayout),
			s.engine.Calendar.NextAdmissionDate(effective).Format(DateLayout), ErrNotAdmissionDate)
	}

	var snapshot *member.Member
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.members.FindByID(txCtx, id)
		snapshot = found
		return err
	}); err != nil {
		return nil, err
	}

	target, ok := s.engine.Statutes().NextRank(snapshot.Rank)
	if !ok {
		return nil, fmt.Errorf("%s: %w", snapshot.Rank, ErrRankCeiling)
	}

	unlock := s.locks.lock(quotaKey{cadre: snapshot.Cadre, rank: target})
	defer unlock()

	var result *PromoteMemberResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockQuota(txCtx, snapshot.Cadre, target); err != nil {
			return fmt.Errorf("%w: lock quota: %w", ErrVacancyCheckUnavailable, err)
		}

		current, err := s.members.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if current.Rank != snapshot.Rank || current.Cadre != snapshot.Cadre {
			return ErrConcurrentChange
		}

		evaluation, err := s.evaluate(txCtx, current, effective)
		if err != nil {
			return err
		}
		if !evaluation.Assessment.Eligible() {
			return &IneligibleError{Assessment: evaluation.Assessment}
		}

		decision, err := s.checkVacancy(txCtx, target, current.Cadre)
		if err != nil {
			return err
		}
		if !decision.Available {
			return &VacancyDeniedError{Decision: decision}
		}

		now := s.clock.Now()
		from := current.Rank
		current.Rank = target
		current.LastPromotionDate = &effective
		current.UpdatedAt = now
		updated, err := s.members.Update(txCtx, current)
		if err != nil {
			return err
		}

		p, err := s.repo.Create(txCtx, &Promotion{
			MemberID:      updated.ID,
			FromRank:      from,
			ToRank:        target,
			Cadre:         updated.Cadre,
			EffectiveDate: effective,
			TotalScore:    evaluation.Assessment.TotalScore,
			MonthsInRank:  evaluation.Assessment.MonthsInRank,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		result = &PromoteMemberResult{Member: updated, Promotion: p, Assessment: evaluation.Assessment, Vacancy: decision}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ActivateMember は休職中の隊員を復帰させます。現階級・区分の定員に空きが必要です。
func (s *Service) ActivateMember(ctx context.Context, in ActivateMemberInput) (*ActivateMemberResult, error) {
	result, err := s.activate(ctx, in)
	var decision VacancyDecision
	if result != nil {
		decision = result.Vacancy
	}
	s.recordDecision(OperationActivate, decision, err)
	if err != nil {
		s.logger.WarnContext(ctx, "activation denied",
			slog.String("member_id", in.MemberID),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}
	s.logger.InfoContext(ctx, "member activated",
		slog.String("member_id", result.Member.ID),
		slog.String("rank", string(result.Member.Rank)),
		slog.String("cadre", string(result.Member.Cadre)),
	)
	return result, nil
}

func (s *Service) activate(ctx context.Context, in ActivateMemberInput) (*ActivateMemberResult, error) {
	id, err := member.NormalizeID(in.MemberID)
	if err != nil {
		return nil, err
	}

	var snapshot *member.Member
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.members.FindByID(txCtx, id)
		snapshot = found
		return err
	}); err != nil {
		return nil, err
	}
	if snapshot.Situation == member.SituationActive {
		return nil, ErrAlreadyActive
	}

	unlock := s.locks.lock(quotaKey{cadre: snapshot.Cadre, rank: snapshot.Rank})
	defer unlock()

	var result *ActivateMemberResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockQuota(txCtx, snapshot.Cadre, snapshot.Rank); err != nil {
			return fmt.Errorf("%w: lock quota: %w", ErrVacancyCheckUnavailable, err)
		}

		current, err := s.members.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if current.Situation == member.SituationActive {
			return ErrAlreadyActive
		}
		if current.Rank != snapshot.Rank || current.Cadre != snapshot.Cadre {
			return ErrConcurrentChange
		}

		decision, err := s.checkVacancy(txCtx, current.Rank, current.Cadre)
		if err != nil {
			return err
		}
		if !decision.Available {
			return &VacancyDeniedError{Decision: decision}
		}

		current.Situation = member.SituationActive
		current.UpdatedAt = s.clock.Now()
		updated, err := s.members.Update(txCtx, current)
		if err != nil {
			return err
		}
		result = &ActivateMemberResult{Member: updated, Vacancy: decision}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Admit は隊員の現役登録や区分変更の前に欠員を確認します。呼び出し側の書き込みトランザクションに参加し、
// 区分・階級の定員ロックはそのトランザクションの終了まで保持されます。
func (s *Service) Admit(ctx context.Context, rank member.Rank, cadre member.Cadre) error {
	decision, err := s.admit(ctx, rank, cadre)
	s.recordDecision(OperationAdmit, decision, err)
	if err != nil {
		s.logger.WarnContext(ctx, "active placement denied",
			slog.String("rank", string(rank)),
			slog.String("cadre", string(cadre)),
			slog.String("reason", err.Error()),
		)
	}
	return err
}

func (s *Service) admit(ctx context.Context, rank member.Rank, cadre member.Cadre) (VacancyDecision, error) {
	unlock := s.locks.lock(quotaKey{cadre: cadre, rank: rank})
	defer unlock()

	var decision VacancyDecision
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockQuota(txCtx, cadre, rank); err != nil {
			return fmt.Errorf("%w: lock quota: %w", ErrVacancyCheckUnavailable, err)
		}
		d, err := s.checkVacancy(txCtx, rank, cadre)
		if err != nil {
			return err
		}
		decision = d
		if !d.Available {
			return &VacancyDeniedError{Decision: d}
		}
		return nil
	})
	return decision, err
}

const accessListPageSize = 200

// BuildAccessList は階級・区分の在職者を判定し、序列基準で並べた昇任名簿を作ります。
func (s *Service) BuildAccessList(ctx context.Context, in BuildAccessListInput) (*AccessList, error) {
	if !in.Rank.Valid() {
		return nil, ErrInvalidRank
	}
	if !in.Cadre.Valid() {
		return nil, ErrInvalidCadre
	}
	criterion, err := ParseRankingCriterion(string(in.Criterion))
	if err != nil {
		return nil, err
	}
	asOf := s.dateOrToday(in.AsOf)

	var entries []RankingEntry
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		rank, cadre, situation := in.Rank, in.Cadre, member.SituationActive
		filter := member.ListMembersFilter{Rank: &rank, Cadre: &cadre, Situation: &situation, Limit: accessListPageSize}
		for {
			page, next, err := s.members.List(txCtx, filter)
			if err != nil {
				return err
			}
			for _, m := range page {
				evaluation, err := s.evaluate(txCtx, m, asOf)
				if errors.Is(err, ErrInvalidDate) {
					s.logger.WarnContext(ctx, "member cannot be evaluated at access list date",
						slog.String("member_id", m.ID),
						slog.String("as_of", asOf.Format(DateLayout)),
						slog.String("reason", err.Error()),
					)
					if in.EligibleOnly {
						continue
					}
					entries = append(entries, RankingEntry{
						MemberID:  m.ID,
						Name:      m.Name,
						Rank:      m.Rank,
						Cadre:     m.Cadre,
						EntryDate: m.EntryDate,
						Verdict:   VerdictIneligible,
						Note:      fmt.Sprintf("rank start %s is after %s", m.RankSince().Format(DateLayout), asOf.Format(DateLayout)),
					})
					continue
				}
				if err != nil {
					return fmt.Errorf("member %s: %w", m.ID, err)
				}
				if in.EligibleOnly && !evaluation.Assessment.Eligible() {
					continue
				}
				entries = append(entries, RankingEntry{
					MemberID:     m.ID,
					Name:         m.Name,
					Rank:         m.Rank,
					Cadre:        m.Cadre,
					MonthsInRank: evaluation.Assessment.MonthsInRank,
					TotalScore:   evaluation.Assessment.TotalScore,
					EntryDate:    m.EntryDate,
					Verdict:      evaluation.Assessment.Verdict,
				})
			}
			if next == "" || len(page) == 0 {
				return nil
			}
			filter.Offset += len(page)
		}
	}); err != nil {
		return nil, err
	}

	ranked, err := BuildRanking(entries, criterion)
	if err != nil {
		return nil, err
	}

	return &AccessList{
		Rank:          in.Rank,
		Cadre:         in.Cadre,
		Criterion:     criterion,
		AsOf:          asOf,
		WindowOpen:    s.engine.Calendar.InAdmissionWindow(asOf),
		NextAdmission: s.engine.Calendar.NextAdmissionDate(asOf),
		Entries:       ranked,
	}, nil
}

// ListPromotions は隊員の昇任履歴を取得します。
func (s *Service) ListPromotions(ctx context.Context, in ListPromotionsInput) ([]*Promotion, error) {
	id, err := member.NormalizeID(in.MemberID)
	if err != nil {
		return nil, err
	}
	var result []*Promotion
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListByMember(txCtx, id)
		result = found
		return err
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) evaluate(ctx context.Context, m *member.Member, asOf time.Time) (*Evaluation, error) {
	recs, err := s.records.ListByMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	values := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			values = append(values, *r)
		}
	}

	sheet, err := s.engine.Aggregator.ComputeForMember(m, values, asOf)
	if err != nil {
		return nil, err
	}
	assessment, err := s.engine.Evaluator.Evaluate(m, sheet, asOf)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Member: m, Sheet: sheet, Assessment: assessment}, nil
}

// checkVacancy は在職者数を読み取れない場合に ErrVacancyCheckUnavailable を返します。
func (s *Service) checkVacancy(ctx context.Context, rank member.Rank, cadre member.Cadre) (VacancyDecision, error) {
	if s.engine.Gate.Unbounded(cadre) {
		return s.engine.Gate.Check(rank, cadre, 0)
	}
	if _, err := s.engine.Gate.Check(rank, cadre, 0); err != nil {
		return VacancyDecision{}, err
	}
	occupied, err := s.members.CountActive(ctx, rank, cadre)
	if err != nil {
		s.logger.WarnContext(ctx, "vacancy check unavailable",
			slog.String("rank", string(rank)),
			slog.String("cadre", string(cadre)),
			slog.String("error", err.Error()),
		)
		return VacancyDecision{}, fmt.Errorf("%w: count active %s/%s: %w", ErrVacancyCheckUnavailable, cadre, rank, err)
	}
	return s.engine.Gate.Check(rank, cadre, occupied)
}

func (s *Service) dateOrToday(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return truncateDate(s.clock.Now())
	}
	return truncateDate(*t)
}

func (s *Service) recordDecision(operation string, decision VacancyDecision, err error) {
	var (
		ineligible *IneligibleError
		denied     *VacancyDeniedError
	)
	switch {
	case err == nil && operation == OperationVacancy && !decision.Available:
		s.recorder.RecordDecision(operation, OutcomeNoVacancy)
	case err == nil:
		s.recorder.RecordDecision(operation, OutcomeGranted)
	case errors.Is(err, ErrVacancyCheckUnavailable):
		s.recorder.RecordDecision(operation, OutcomeUnavailable)
	case errors.As(err, &ineligible):
		s.recorder.RecordDecision(operation, OutcomeIneligible)
	case errors.As(err, &denied):
		s.recorder.RecordDecision(operation, OutcomeNoVacancy)
	case errors.Is(err, ErrNotAdmissionDate), errors.Is(err, ErrRankCeiling), errors.Is(err, ErrAlreadyActive):
		s.recorder.RecordDecision(operation, OutcomeRejected)
	default:
		s.recorder.RecordDecision(operation, OutcomeError)
	}
}

func vacancyOf(r *PromoteMemberResult) VacancyDecision {
	if r == nil {
		return VacancyDecision{}
	}
	return r.Vacancy
}

func isVacancyError(err error) bool {
	return errors.Is(err, ErrVacancyCheckUnavailable) ||
		errors.Is(err, ErrUnknownQuotaEntry) ||
		errors.Is(err, ErrInvalidOccupancy)
}

// quotaLocks はプロセス内で区分・階級ごとの確認と更新を直列化します。
type quotaLocks struct {
	mu    sync.Mutex
	locks map[quotaKey]*sync.Mutex
}

func newQuotaLocks() *quotaLocks {
	return &quotaLocks{locks: make(map[quotaKey]*sync.Mutex)}
}

func (l *quotaLocks) lock(key quotaKey) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
