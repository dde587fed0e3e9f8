package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	pgdb "github.com/ogurasousui/personnel-promotion/internal/platform/db/postgres"
)

const recordColumns = `id, member_id, kind, subtype, points, received_at, dropped, description, created_at, updated_at`

// RecordRepository は PostgreSQL を利用した経歴記録の実装です。
type RecordRepository struct {
	pool pgdb.Queryer
}

// NewRecordRepository は RecordRepository を生成します。
func NewRecordRepository(pool pgdb.Queryer) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Create は経歴記録を登録します。
func (r *RecordRepository) Create(ctx context.Context, rec *record.Record) (*record.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO career_records (member_id, kind, subtype, points, received_at, dropped, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+recordColumns,
		rec.MemberID,
		string(rec.Kind),
		rec.Subtype,
		rec.Points,
		nullableDate(rec.ReceivedAt),
		rec.Dropped,
		rec.Description,
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	created, err := scanRecord(row)
	if err != nil {
		return nil, translateRecordPgError(err)
	}
	return created, nil
}

// Delete は経歴記録を削除します。
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM career_records WHERE id = $1`, id)
	if err != nil {
		return translateRecordPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

// ListByMember は隊員の経歴記録を登録順に返します。
func (r *RecordRepository) ListByMember(ctx context.Context, memberID string) ([]*record.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+recordColumns+`
          FROM career_records
         WHERE member_id = $1
         ORDER BY created_at ASC, id ASC
    `, memberID)
	if err != nil {
		return nil, translateRecordPgError(err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, translateRecordPgError(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translateRecordPgError(err)
	}
	return records, nil
}

// MemberExists は隊員行を FOR KEY SHARE で確認します。記録の登録が終わるまで隊員は削除できません。
func (r *RecordRepository) MemberExists(ctx context.Context, memberID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var one int
	err := exec.QueryRow(ctx, `SELECT 1 FROM members WHERE id = $1 FOR KEY SHARE`, memberID).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, translateRecordPgError(err)
	}
}

func scanRecord(row pgx.Row) (*record.Record, error) {
	var (
		id          string
		memberID    string
		kind        string
		subtype     string
		points      string
		receivedAt  sql.NullTime
		dropped     bool
		description string
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&id, &memberID, &kind, &subtype, &points, &receivedAt, &dropped, &description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound
		}
		return nil, err
	}

	return &record.Record{
		ID:          id,
		MemberID:    memberID,
		Kind:        record.Kind(kind),
		Subtype:     subtype,
		Points:      points,
		ReceivedAt:  datePtr(receivedAt),
		Dropped:     dropped,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func translateRecordPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return record.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return record.ErrMemberNotFound
		case checkViolationCode:
			return record.ErrInvalidKind
		}
	}

	return err
}
