package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestTransactionManager_ReadWriteCommit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectCommit()

	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		if _, ok := txFromContext(ctx); !ok {
			t.Fatalf("transaction not injected into context")
		}
		if !InTransaction(ctx) {
			t.Fatalf("InTransaction reported false inside transaction")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_ReadOnlyRollbackOnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectRollback()

	expectedErr := errors.New("usecase error")
	err = tm.WithinReadOnly(context.Background(), func(ctx context.Context) error {
		if _, ok := txFromContext(ctx); !ok {
			t.Fatalf("transaction not injected into context")
		}
		return expectedErr
	})

	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected %v, got %v", expectedErr, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_NestedReuse(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectCommit()

	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return tm.WithinReadOnly(ctx, func(inner context.Context) error {
			if _, ok := txFromContext(inner); !ok {
				t.Fatalf("nested transaction lost context")
			}
			return nil
		})
	})

	if err != nil {
		t.Fatalf("nested transaction returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInTransaction_OutsideTransaction(t *testing.T) {
	t.Parallel()

	if InTransaction(context.Background()) {
		t.Fatal("expected no transaction on a bare context")
	}
}

func TestTransactionManager_LockTimeout(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock, WithLockTimeout(1500*time.Millisecond))
	setLockTimeout := regexp.QuoteMeta("SELECT set_config('lock_timeout', $1, true)")

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(setLockTimeout).WithArgs("1500ms").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	if err := tm.WithinReadWrite(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}

	// 読み取り専用では設定しない
	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectCommit()

	if err := tm.WithinReadOnly(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("WithinReadOnly returned error: %v", err)
	}

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(setLockTimeout).WithArgs("1500ms").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	called := false
	err = tm.WithinReadWrite(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("expected set lock_timeout failure before fn, got err=%v called=%t", err, called)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockTimeoutSetting(t *testing.T) {
	t.Parallel()

	if got := lockTimeoutSetting(5 * time.Second); got != "5000ms" {
		t.Fatalf("expected 5000ms, got %s", got)
	}
	if got := lockTimeoutSetting(time.Microsecond); got != "1ms" {
		t.Fatalf("expected sub-millisecond timeouts to round up to 1ms, got %s", got)
	}
}
