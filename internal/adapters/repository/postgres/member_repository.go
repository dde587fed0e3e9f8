package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	pgdb "github.com/ogurasousui/personnel-promotion/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

const memberColumns = `id, registration_number, name, rank, cadre, situation, birth_date, entry_date, last_promotion_date, created_at, updated_at`

// MemberRepository は PostgreSQL を利用した隊員名簿の実装です。
type MemberRepository struct {
	pool pgdb.Queryer
}

// NewMemberRepository は MemberRepository を生成します。
func NewMemberRepository(pool pgdb.Queryer) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create は隊員を新規登録します。
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO members (registration_number, name, rank, cadre, situation, birth_date, entry_date, last_promotion_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+memberColumns,
		m.RegistrationNumber,
		m.Name,
		string(m.Rank),
		string(m.Cadre),
		string(m.Situation),
		nullableDate(m.BirthDate),
		dateOnly(m.EntryDate),
		nullableDate(m.LastPromotionDate),
		m.CreatedAt,
		m.UpdatedAt,
	)

	created, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return created, nil
}

// Update は隊員情報を更新します。
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE members
           SET name = $1,
               rank = $2,
               cadre = $3,
               situation = $4,
               birth_date = $5,
               last_promotion_date = $6,
               updated_at = $7
         WHERE id = $8
        RETURNING `+memberColumns,
		m.Name,
		string(m.Rank),
		string(m.Cadre),
		string(m.Situation),
		nullableDate(m.BirthDate),
		nullableDate(m.LastPromotionDate),
		m.UpdatedAt,
		m.ID,
	)

	updated, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return updated, nil
}

// FindByID は ID で隊員を取得します。
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1 LIMIT 1`, id)

	found, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return found, nil
}

// FindByRegistration は認識番号で隊員を取得します。
func (r *MemberRepository) FindByRegistration(ctx context.Context, registration string) (*member.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE registration_number = $1 LIMIT 1`, registration)

	found, err := scanMember(row)
	if err != nil {
		return nil, translateMemberPgError(err)
	}
	return found, nil
}

// List は隊員の一覧を取得します。
func (r *MemberRepository) List(ctx context.Context, filter member.ListMembersFilter) ([]*member.Member, string, error) {
	if filter.Limit <= 0 {
		return nil, "", member.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", member.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 5)
	conditions := make([]string, 0, 3)

	if filter.Rank != nil {
		args = append(args, string(*filter.Rank))
		conditions = append(conditions, "rank = $"+strconv.Itoa(len(args)))
	}
	if filter.Cadre != nil {
		args = append(args, string(*filter.Cadre))
		conditions = append(conditions, "cadre = $"+strconv.Itoa(len(args)))
	}
	if filter.Situation != nil {
		args = append(args, string(*filter.Situation))
		conditions = append(conditions, "situation = $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limitWithBuffer)
	limitPlaceholder := "$" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPlaceholder := "$" + strconv.Itoa(len(args))

	query := `SELECT ` + memberColumns + ` FROM members` + whereClause + `
         ORDER BY entry_date ASC, id ASC
         LIMIT ` + limitPlaceholder + ` OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateMemberPgError(err)
	}
	defer rows.Close()

	members := make([]*member.Member, 0, filter.Limit)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, "", translateMemberPgError(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateMemberPgError(err)
	}

	var nextToken string
	if len(members) == limitWithBuffer {
		members = members[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return members, nextToken, nil
}

// CountActive は階級・区分ごとの在職者数を返します。
func (r *MemberRepository) CountActive(ctx context.Context, rank member.Rank, cadre member.Cadre) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var count int64
	if err := exec.QueryRow(ctx, `
        SELECT count(*)
          FROM members
         WHERE rank = $1 AND cadre = $2 AND situation = $3
    `, string(rank), string(cadre), string(member.SituationActive)).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func scanMember(row pgx.Row) (*member.Member, error) {
	var (
		id            string
		registration  string
		name          string
		rank          string
		cadre         string
		situation     string
		birthDate     sql.NullTime
		entryDate     time.Time
		lastPromotion sql.NullTime
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(
		&id,
		&registration,
		&name,
		&rank,
		&cadre,
		&situation,
		&birthDate,
		&entryDate,
		&lastPromotion,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, member.ErrMemberNotFound
		}
		return nil, err
	}

	return &member.Member{
		ID:                 id,
		RegistrationNumber: registration,
		Name:               name,
		Rank:               member.Rank(rank),
		Cadre:              member.Cadre(cadre),
		Situation:          member.Situation(situation),
		BirthDate:          datePtr(birthDate),
		EntryDate:          dateOnly(entryDate),
		LastPromotionDate:  datePtr(lastPromotion),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func translateMemberPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return member.ErrMemberNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return member.ErrRegistrationAlreadyExists
		case checkViolationCode:
			if pgErr.ConstraintName == "members_situation_check" {
				return member.ErrInvalidSituation
			}
			return member.ErrInvalidDateRange
		}
	}

	return err
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func datePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	d := dateOnly(value.Time)
	return &d
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return dateOnly(*value)
}
