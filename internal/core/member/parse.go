package member

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rankAliases は正規化済みの表記から階級を引く表です。正規の値そのものも含みます。
var rankAliases = map[string]Rank{
	"1o_tenente":         RankPrimeiroTenente,
	"1_tenente":          RankPrimeiroTenente,
	"2o_tenente":         RankSegundoTenente,
	"2_tenente":          RankSegundoTenente,
	"1o_sargento":        RankPrimeiroSargento,
	"1_sargento":         RankPrimeiroSargento,
	"2o_sargento":        RankSegundoSargento,
	"2_sargento":         RankSegundoSargento,
	"3o_sargento":        RankTerceiroSargento,
	"3_sargento":         RankTerceiroSargento,
	"colonel":            RankCoronel,
	"lieutenant_colonel": RankTenenteCoronel,
	"captain":            RankCapitao,
	"first_lieutenant":   RankPrimeiroTenente,
	"second_lieutenant":  RankSegundoTenente,
	"officer_cadet":      RankAspirante,
	"warrant_officer":    RankSubtenente,
	"first_sergeant":     RankPrimeiroSargento,
	"second_sergeant":    RankSegundoSargento,
	"third_sergeant":     RankTerceiroSargento,
	"corporal":           RankCabo,
	"soldier":            RankSoldado,
	"private":            RankSoldado,
}

func init() {
	for r := range rankTracks {
		rankAliases[string(r)] = r
	}
}

// ParseRank は表記ゆれ ("Capitão", "Tenente-Coronel", "1º Tenente", "Soldado" など) を吸収して階級を返します。
func ParseRank(raw string) (Rank, error) {
	if r, ok := rankAliases[foldName(raw)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%q: %w", raw, ErrInvalidRank)
}

// ParseCadre は大文字小文字と前後の空白を無視して区分を返します。
func ParseCadre(raw string) (Cadre, error) {
	c := Cadre(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidCadre)
	}
	return c, nil
}

// foldName は小文字化し、互換分解で序数標識を文字に戻し、発音区別符号を落として区切りを "_" に揃えます。
func foldName(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), lowered); err == nil {
		lowered = folded
	}
	return strings.Join(strings.FieldsFunc(lowered, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.' || r == '\t'
	}), "_")
}
