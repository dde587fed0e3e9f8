package promotion

import (
	"errors"
	"strings"
	"testing"

	"github.com/ogurasousui/personnel-promotion/internal/core/member"
)

func TestVacancyGate_QuotaReached(t *testing.T) {
	t.Parallel()

	gate := NewVacancyGate(nil)
	quota, ok := gate.Quota(member.CadreQPBM, member.RankSoldado)
	if !ok {
		t.Fatal("expected quota for soldado in QPBM")
	}

	decision, err := gate.Check(member.RankSoldado, member.CadreQPBM, quota)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if decision.Available || decision.Remaining != 0 {
		t.Fatalf("expected no vacancy, got %+v", decision)
	}
	if !strings.Contains(decision.Message, "quota reached") {
		t.Fatalf("expected quota reached message, got %q", decision.Message)
	}
}

func TestVacancyGate_ReserveIsUnbounded(t *testing.T) {
	t.Parallel()

	decision, err := NewVacancyGate(nil).Check(member.RankCoronel, member.CadreQORR, 999)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !decision.Available || !decision.Unbounded {
		t.Fatalf("expected unbounded vacancy, got %+v", decision)
	}
	if decision.Message != "unbounded reserve cadre" {
		t.Fatalf("unexpected message %q", decision.Message)
	}
}

func TestVacancyGate_Monotonic(t *testing.T) {
	t.Parallel()

	st := DefaultStatutes()
	gate := NewVacancyGate(st)
	for _, q := range st.Quotas {
		for _, occupied := range []int{0, q.Limit - 1, q.Limit, q.Limit + 1, q.Limit * 2} {
			if occupied < 0 {
				continue
			}
			decision, err := gate.Check(q.Rank, q.Cadre, occupied)
			if err != nil {
				t.Fatalf("Check(%s, %s, %d) returned error: %v", q.Rank, q.Cadre, occupied, err)
			}
			if want := occupied < q.Limit; decision.Available != want {
				t.Fatalf("Check(%s, %s, %d).Available = %v, want %v", q.Rank, q.Cadre, occupied, decision.Available, want)
			}
		}
	}
}

func TestVacancyGate_RemainingMessage(t *testing.T) {
	t.Parallel()

	decision, err := NewVacancyGate(nil).Check(member.RankCoronel, member.CadreQOBM, 10)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !decision.Available || decision.Remaining != 2 || decision.Message != "2 of 12 slots remaining" {
		t.Fatalf("unexpected decision %+v", decision)
	}
}

func TestVacancyGate_Errors(t *testing.T) {
	t.Parallel()

	gate := NewVacancyGate(nil)

	if _, err := gate.Check(member.RankCoronel, member.CadreQOABM, 0); !errors.Is(err, ErrUnknownQuotaEntry) {
		t.Fatalf("expected ErrUnknownQuotaEntry, got %v", err)
	}
	if _, err := gate.Check("general", member.CadreQOBM, 0); !errors.Is(err, ErrUnknownQuotaEntry) || !errors.Is(err, ErrInvalidRank) {
		t.Fatalf("expected ErrUnknownQuotaEntry and ErrInvalidRank, got %v", err)
	}
	if _, err := gate.Check(member.RankCabo, "QXYZ", 0); !errors.Is(err, ErrUnknownQuotaEntry) || !errors.Is(err, ErrInvalidCadre) {
		t.Fatalf("expected ErrUnknownQuotaEntry and ErrInvalidCadre, got %v", err)
	}
	if _, err := gate.Check(member.RankCabo, member.CadreQPBM, -1); !errors.Is(err, ErrInvalidOccupancy) {
		t.Fatalf("expected ErrInvalidOccupancy, got %v", err)
	}
}
