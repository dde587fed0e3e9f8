package member

import (
	"errors"
	"testing"
)

func TestParseRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Rank
	}{
		{"Soldado", RankSoldado},
		{"Coronel", RankCoronel},
		{"Capitão", RankCapitao},
		{"  CAPITAO ", RankCapitao},
		{"Tenente-Coronel", RankTenenteCoronel},
		{"tenente coronel", RankTenenteCoronel},
		{"1º Tenente", RankPrimeiroTenente},
		{"3º Sargento", RankTerceiroSargento},
		{"Captain", RankCapitao},
		{"primeiro_sargento", RankPrimeiroSargento},
	}
	for _, tt := range tests {
		got, err := ParseRank(tt.raw)
		if err != nil {
			t.Fatalf("ParseRank(%q) returned error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRank(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "general", "4º Sargento"} {
		if _, err := ParseRank(raw); !errors.Is(err, ErrInvalidRank) {
			t.Fatalf("expected ErrInvalidRank for %q, got %v", raw, err)
		}
	}
}

func TestParseCadre(t *testing.T) {
	t.Parallel()

	if got, err := ParseCadre(" qprr "); err != nil || got != CadreQPRR {
		t.Fatalf("unexpected result %s, %v", got, err)
	}
	if _, err := ParseCadre("QXYZ"); !errors.Is(err, ErrInvalidCadre) {
		t.Fatalf("expected ErrInvalidCadre, got %v", err)
	}
}
