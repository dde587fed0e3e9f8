package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	"github.com/ogurasousui/personnel-promotion/internal/core/promotion"
	pgdb "github.com/ogurasousui/personnel-promotion/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

// ErrLockOutsideTransaction はトランザクション外で定員ロックを取ろうとした場合のエラーです。
var ErrLockOutsideTransaction = errors.New("postgres: quota lock requires a transaction")

const promotionColumns = `id, member_id, from_rank, to_rank, cadre, effective_date, total_score::text, months_in_rank, created_at`

// PromotionRepository は PostgreSQL を利用した昇任履歴の実装です。
type PromotionRepository struct {
	pool pgdb.Queryer
}

// NewPromotionRepository は PromotionRepository を生成します。
func NewPromotionRepository(pool pgdb.Queryer) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// LockQuota は区分・階級の定員をトランザクション単位の advisory lock で排他します。
func (r *PromotionRepository) LockQuota(ctx context.Context, cadre member.Cadre, rank member.Rank) error {
	if !pgdb.InTransaction(ctx) {
		return ErrLockOutsideTransaction
	}
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, quotaLockKey(cadre, rank)); err != nil {
		return fmt.Errorf("postgres: lock quota %s/%s: %w", cadre, rank, err)
	}
	return nil
}

// Create は昇任履歴を追加します。
func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) (*promotion.Promotion, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO promotions (member_id, from_rank, to_rank, cadre, effective_date, total_score, months_in_rank, created_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
        RETURNING `+promotionColumns,
		p.MemberID,
		string(p.FromRank),
		string(p.ToRank),
		string(p.Cadre),
		dateOnly(p.EffectiveDate),
		p.TotalScore.StringFixed(2),
		p.MonthsInRank,
		p.CreatedAt,
	)

	created, err := scanPromotion(row)
	if err != nil {
		return nil, translatePromotionPgError(err)
	}
	return created, nil
}

// ListByMember は隊員の昇任履歴を発令日順に返します。
func (r *PromotionRepository) ListByMember(ctx context.Context, memberID string) ([]*promotion.Promotion, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+promotionColumns+`
          FROM promotions
         WHERE member_id = $1
         ORDER BY effective_date ASC, created_at ASC
    `, memberID)
	if err != nil {
		return nil, translatePromotionPgError(err)
	}
	defer rows.Close()

	var out []*promotion.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, translatePromotionPgError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePromotionPgError(err)
	}
	return out, nil
}

func scanPromotion(row pgx.Row) (*promotion.Promotion, error) {
	var (
		id            string
		memberID      string
		fromRank      string
		toRank        string
		cadre         string
		effectiveDate time.Time
		totalScore    string
		monthsInRank  int32
		createdAt     time.Time
	)

	if err := row.Scan(&id, &memberID, &fromRank, &toRank, &cadre, &effectiveDate, &totalScore, &monthsInRank, &createdAt); err != nil {
		return nil, err
	}

	score, err := decimal.NewFromString(totalScore)
	if err != nil {
		return nil, fmt.Errorf("postgres: total_score %q: %w", totalScore, err)
	}

	return &promotion.Promotion{
		ID:            id,
		MemberID:      memberID,
		FromRank:      member.Rank(fromRank),
		ToRank:        member.Rank(toRank),
		Cadre:         member.Cadre(cadre),
		EffectiveDate: dateOnly(effectiveDate),
		TotalScore:    score,
		MonthsInRank:  int(monthsInRank),
		CreatedAt:     createdAt,
	}, nil
}

func translatePromotionPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return promotion.ErrConcurrentChange
		case foreignKeyViolationCode:
			return member.ErrMemberNotFound
		}
	}

	return err
}

func quotaLockKey(cadre member.Cadre, rank member.Rank) string {
	return "quota:" + string(cadre) + "/" + string(rank)
}
