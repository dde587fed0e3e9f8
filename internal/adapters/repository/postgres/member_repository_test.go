package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/personnel-promotion/internal/core/member"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

var memberColumnNames = []string{"id", "registration_number", "name", "rank", "cadre", "situation", "birth_date", "entry_date", "last_promotion_date", "created_at", "updated_at"}

func TestScanMember_Success(t *testing.T) {
	t.Parallel()

	birth := time.Date(1990, 4, 1, 12, 0, 0, 0, time.UTC)
	entry := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 11 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "member-1"
		*(dest[1].(*string)) = "100.200"
		*(dest[2].(*string)) = "Joana Lima"
		*(dest[3].(*string)) = string(member.RankCabo)
		*(dest[4].(*string)) = string(member.CadreQPBM)
		*(dest[5].(*string)) = string(member.SituationActive)

		birthDest := dest[6].(*sql.NullTime)
		birthDest.Time = birth
		birthDest.Valid = true

		*(dest[7].(*time.Time)) = entry
		*(dest[9].(*time.Time)) = createdAt
		*(dest[10].(*time.Time)) = createdAt
		return nil
	}}

	m, err := scanMember(row)
	if err != nil {
		t.Fatalf("scanMember returned error: %v", err)
	}
	if m.Rank != member.RankCabo || m.Cadre != member.CadreQPBM {
		t.Fatalf("unexpected member %+v", m)
	}
	if m.BirthDate == nil || !m.BirthDate.Equal(time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected birth date truncated to day, got %+v", m.BirthDate)
	}
	if m.LastPromotionDate != nil {
		t.Fatalf("expected no last promotion date, got %+v", m.LastPromotionDate)
	}
}

func TestScanMember_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanMember(row); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestTranslateMemberPgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateMemberPgError(&pgconn.PgError{Code: uniqueViolationCode}), member.ErrRegistrationAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrRegistrationAlreadyExists")
	}
	if !errors.Is(translateMemberPgError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "members_dates_check"}), member.ErrInvalidDateRange) {
		t.Fatalf("expected dates check to map to ErrInvalidDateRange")
	}
	if !errors.Is(translateMemberPgError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "members_situation_check"}), member.ErrInvalidSituation) {
		t.Fatalf("expected situation check to map to ErrInvalidSituation")
	}

	other := errors.New("other")
	if translateMemberPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestMemberRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewMemberRepository(mock)
	rank := member.RankSoldado
	situation := member.SituationActive

	query := regexp.QuoteMeta(`SELECT ` + memberColumns + ` FROM members WHERE rank = $1 AND situation = $2
         ORDER BY entry_date ASC, id ASC
         LIMIT $3 OFFSET $4`)

	entry := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := pgxmock.NewRows(memberColumnNames).
		AddRow("m-1", "1", "A", "soldado", "QPBM", "active", nil, entry, nil, now, now).
		AddRow("m-2", "2", "B", "soldado", "QPBM", "active", nil, entry, nil, now, now).
		AddRow("m-3", "3", "C", "soldado", "QPRR", "active", nil, entry, nil, now, now)

	mock.ExpectQuery(query).
		WithArgs("soldado", "active", 3, 4).
		WillReturnRows(rows)

	members, next, err := repo.List(context.Background(), member.ListMembersFilter{
		Rank:      &rank,
		Situation: &situation,
		Limit:     2,
		Offset:    4,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if next != "6" {
		t.Fatalf("expected next token '6', got %s", next)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_List_InvalidFilter(t *testing.T) {
	t.Parallel()

	repo := NewMemberRepository(nil)
	if _, _, err := repo.List(context.Background(), member.ListMembersFilter{Limit: 0}); !errors.Is(err, member.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), member.ListMembersFilter{Limit: 1, Offset: -1}); !errors.Is(err, member.ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestMemberRepository_CountActive(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewMemberRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*)`)).
		WithArgs("cabo", "QPBM", "active").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.CountActive(context.Background(), member.RankCabo, member.CadreQPBM)
	if err != nil {
		t.Fatalf("CountActive returned error: %v", err)
	}
	if count != 42 {
		t.Fatalf("expected 42, got %d", count)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*)`)).
		WithArgs("cabo", "QPBM", "active").
		WillReturnError(errors.New("connection reset"))

	if _, err := repo.CountActive(context.Background(), member.RankCabo, member.CadreQPBM); err == nil {
		t.Fatal("expected error from CountActive")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepository_Update(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewMemberRepository(mock)
	entry := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	promoted := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE members`)).
		WithArgs("Joana", "cabo", "QPBM", "active", nil, promoted, now, "m-1").
		WillReturnRows(pgxmock.NewRows(memberColumnNames).
			AddRow("m-1", "100.200", "Joana", "cabo", "QPBM", "active", nil, entry, promoted, now, now))

	updated, err := repo.Update(context.Background(), &member.Member{
		ID:                "m-1",
		Name:              "Joana",
		Rank:              member.RankCabo,
		Cadre:             member.CadreQPBM,
		Situation:         member.SituationActive,
		EntryDate:         entry,
		LastPromotionDate: &promoted,
		UpdatedAt:         now,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.LastPromotionDate == nil || !updated.LastPromotionDate.Equal(promoted) {
		t.Fatalf("unexpected last promotion date %+v", updated.LastPromotionDate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
