package promotion

import (
	"strings"
	"unicode"

	"github.com/ogurasousui/personnel-promotion/internal/core/record"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category は評点の区分です。
type Category int

const (
	CategoryTimeInCadre Category = iota + 1
	CategoryMilitaryCourse
	CategoryCivilianCourse
	CategoryDecoration
	CategoryCommendation
	CategoryReprimand
	CategoryNonCompletion
)

var categoryNames = map[Category]string{
	CategoryTimeInCadre:    "time_in_cadre",
	CategoryMilitaryCourse: "military_course",
	CategoryCivilianCourse: "civilian_course",
	CategoryDecoration:     "decoration",
	CategoryCommendation:   "commendation",
	CategoryReprimand:      "reprimand",
	CategoryNonCompletion:  "non_completion",
}

// Categories は全区分を表示順で返します。
func Categories() []Category {
	return []Category{
		CategoryTimeInCadre,
		CategoryMilitaryCourse,
		CategoryCivilianCourse,
		CategoryDecoration,
		CategoryCommendation,
		CategoryReprimand,
		CategoryNonCompletion,
	}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Negative は減点区分かどうかを返します。
func (c Category) Negative() bool {
	return c == CategoryReprimand || c == CategoryNonCompletion
}

// ParseCategory は名前から区分を引きます。
func ParseCategory(name string) (Category, bool) {
	normalized := normalizeSubtype(name)
	for c, n := range categoryNames {
		if n == normalized {
			return c, true
		}
	}
	return 0, false
}

// Slot は区分内の細目です。
type Slot int

const (
	SlotTimeInCadre Slot = iota + 1

	SlotCFO
	SlotCAO
	SlotCSBM
	SlotCHO
	SlotCFSd
	SlotCFC
	SlotCFS
	SlotCAS
	SlotExtension
	SlotSpecialization

	SlotDoctorate
	SlotMasters
	SlotPostgraduate
	SlotUndergraduate

	SlotMeritMedal
	SlotServiceMedal
	SlotOrder

	SlotIndividualCommendation
	SlotCollectiveCommendation

	SlotWarning
	SlotDetention
	SlotImprisonment

	SlotNonCompletion
)

type slotInfo struct {
	name     string
	category Category
	aliases  []string
}

var slots = map[Slot]slotInfo{
	SlotTimeInCadre: {name: "time_in_cadre", category: CategoryTimeInCadre},

	SlotCFO:            {name: "cfo", category: CategoryMilitaryCourse, aliases: []string{"curso_de_formacao_de_oficiais"}},
	SlotCAO:            {name: "cao", category: CategoryMilitaryCourse, aliases: []string{"curso_de_aperfeicoamento_de_oficiais"}},
	SlotCSBM:           {name: "csbm", category: CategoryMilitaryCourse, aliases: []string{"curso_superior"}},
	SlotCHO:            {name: "cho", category: CategoryMilitaryCourse, aliases: []string{"curso_de_habilitacao_de_oficiais"}},
	SlotCFSd:           {name: "cfsd", category: CategoryMilitaryCourse, aliases: []string{"curso_de_formacao_de_soldados"}},
	SlotCFC:            {name: "cfc", category: CategoryMilitaryCourse, aliases: []string{"curso_de_formacao_de_cabos"}},
	SlotCFS:            {name: "cfs", category: CategoryMilitaryCourse, aliases: []string{"curso_de_formacao_de_sargentos"}},
	SlotCAS:            {name: "cas", category: CategoryMilitaryCourse, aliases: []string{"curso_de_aperfeicoamento_de_sargentos"}},
	SlotExtension:      {name: "extension", category: CategoryMilitaryCourse, aliases: []string{"extensao"}},
	SlotSpecialization: {name: "specialization", category: CategoryMilitaryCourse, aliases: []string{"especializacao"}},

	SlotDoctorate:     {name: "doctorate", category: CategoryCivilianCourse, aliases: []string{"doutorado", "phd"}},
	SlotMasters:       {name: "masters", category: CategoryCivilianCourse, aliases: []string{"mestrado"}},
	SlotPostgraduate:  {name: "postgraduate", category: CategoryCivilianCourse, aliases: []string{"pos_graduacao", "lato_sensu"}},
	SlotUndergraduate: {name: "undergraduate", category: CategoryCivilianCourse, aliases: []string{"graduacao", "bachelor"}},

	SlotMeritMedal:   {name: "merit_medal", category: CategoryDecoration, aliases: []string{"medalha_de_merito"}},
	SlotServiceMedal: {name: "service_medal", category: CategoryDecoration, aliases: []string{"medalha_de_tempo_de_servico"}},
	SlotOrder:        {name: "order", category: CategoryDecoration, aliases: []string{"ordem_do_merito"}},

	SlotIndividualCommendation: {name: "individual", category: CategoryCommendation, aliases: []string{"elogio_individual"}},
	SlotCollectiveCommendation: {name: "collective", category: CategoryCommendation, aliases: []string{"elogio_coletivo"}},

	SlotWarning:      {name: "warning", category: CategoryReprimand, aliases: []string{"advertencia", "repreensao"}},
	SlotDetention:    {name: "detention", category: CategoryReprimand, aliases: []string{"detencao"}},
	SlotImprisonment: {name: "imprisonment", category: CategoryReprimand, aliases: []string{"prisao"}},

	SlotNonCompletion: {name: "non_completion", category: CategoryNonCompletion, aliases: []string{"desligamento"}},
}

// 種別ごとの照合表と、照合できなかった場合の既定細目です。
var (
	kindIndex   = map[record.Kind]map[string]Slot{}
	kindDefault = map[record.Kind]Slot{
		record.KindMilitaryCourse: SlotSpecialization,
		record.KindCivilianCourse: SlotUndergraduate,
		record.KindDecoration:     SlotServiceMedal,
		record.KindCommendation:   SlotIndividualCommendation,
		record.KindReprimand:      SlotWarning,
	}
	kindCategory = map[record.Kind]Category{
		record.KindMilitaryCourse: CategoryMilitaryCourse,
		record.KindCivilianCourse: CategoryCivilianCourse,
		record.KindDecoration:     CategoryDecoration,
		record.KindCommendation:   CategoryCommendation,
		record.KindReprimand:      CategoryReprimand,
	}
)

func init() {
	for kind, category := range kindCategory {
		index := make(map[string]Slot)
		for slot, info := range slots {
			if info.category != category {
				continue
			}
			index[info.name] = slot
			for _, alias := range info.aliases {
				index[alias] = slot
			}
		}
		kindIndex[kind] = index
	}
}

// Slots は全細目を定義順で返します。
func Slots() []Slot {
	out := make([]Slot, 0, len(slots))
	for s := SlotTimeInCadre; s <= SlotNonCompletion; s++ {
		out = append(out, s)
	}
	return out
}

func (s Slot) String() string {
	if info, ok := slots[s]; ok {
		return info.name
	}
	return "unknown"
}

// Category は細目が属する区分を返します。
func (s Slot) Category() Category {
	return slots[s].category
}

// ParseSlot は名前から細目を引きます。
func ParseSlot(name string) (Slot, bool) {
	normalized := normalizeSubtype(name)
	for slot, info := range slots {
		if info.name == normalized {
			return slot, true
		}
	}
	return 0, false
}

// Classify は経歴記録の種別と細目コードから評点の細目を決定します。
// 照合できない細目コードは種別の既定細目に振り分け、matched=false を返します。
func Classify(kind record.Kind, subtype string) (slot Slot, matched bool, err error) {
	index, ok := kindIndex[kind]
	if !ok {
		return 0, false, record.ErrInvalidKind
	}
	if slot, ok := index[normalizeSubtype(subtype)]; ok {
		return slot, true, nil
	}
	return kindDefault[kind], false, nil
}

// normalizeSubtype は前後の空白を除き、小文字化し、発音区別符号を落とし、空白とハイフンを "_" に揃えます。
func normalizeSubtype(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), lowered); err == nil {
		lowered = folded
	}
	return strings.Join(strings.FieldsFunc(lowered, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	}), "_")
}
