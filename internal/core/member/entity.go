package member

import "time"

// Situation は隊員の在職状態を表します。
type Situation string

const (
	SituationActive   Situation = "active"
	SituationInactive Situation = "inactive"
)

// Track は士官・下士官兵の系統を表します。
type Track string

const (
	TrackOfficer  Track = "officer"
	TrackEnlisted Track = "enlisted"
)

// Rank は階級を表します。
type Rank string

const (
	RankCoronel          Rank = "coronel"
	RankTenenteCoronel   Rank = "tenente_coronel"
	RankMajor            Rank = "major"
	RankCapitao          Rank = "capitao"
	RankPrimeiroTenente  Rank = "primeiro_tenente"
	RankSegundoTenente   Rank = "segundo_tenente"
	RankAspirante        Rank = "aspirante"
	RankSubtenente       Rank = "subtenente"
	RankPrimeiroSargento Rank = "primeiro_sargento"
	RankSegundoSargento  Rank = "segundo_sargento"
	RankTerceiroSargento Rank = "terceiro_sargento"
	RankCabo             Rank = "cabo"
	RankSoldado          Rank = "soldado"
)

var rankTracks = map[Rank]Track{
	RankCoronel:          TrackOfficer,
	RankTenenteCoronel:   TrackOfficer,
	RankMajor:            TrackOfficer,
	RankCapitao:          TrackOfficer,
	RankPrimeiroTenente:  TrackOfficer,
	RankSegundoTenente:   TrackOfficer,
	RankAspirante:        TrackOfficer,
	RankSubtenente:       TrackEnlisted,
	RankPrimeiroSargento: TrackEnlisted,
	RankSegundoSargento:  TrackEnlisted,
	RankTerceiroSargento: TrackEnlisted,
	RankCabo:             TrackEnlisted,
	RankSoldado:          TrackEnlisted,
}

// Valid は既知の階級かどうかを返します。
func (r Rank) Valid() bool {
	_, ok := rankTracks[r]
	return ok
}

// Track は階級の系統を返します。未知の階級では空文字列になります。
func (r Rank) Track() Track {
	return rankTracks[r]
}

// Cadre は隊員が所属する幹部・兵の区分 (quadro) です。
type Cadre string

const (
	CadreQOBM  Cadre = "QOBM"
	CadreQOABM Cadre = "QOABM"
	CadreQPBM  Cadre = "QPBM"
	CadreQORR  Cadre = "QORR"
	CadreQPRR  Cadre = "QPRR"
)

type cadreInfo struct {
	track   Track
	reserve bool
}

var cadres = map[Cadre]cadreInfo{
	CadreQOBM:  {track: TrackOfficer},
	CadreQOABM: {track: TrackOfficer},
	CadreQPBM:  {track: TrackEnlisted},
	CadreQORR:  {track: TrackOfficer, reserve: true},
	CadreQPRR:  {track: TrackEnlisted, reserve: true},
}

// Valid は既知の区分かどうかを返します。
func (c Cadre) Valid() bool {
	_, ok := cadres[c]
	return ok
}

// Track は区分の系統を返します。
func (c Cadre) Track() Track {
	return cadres[c].track
}

// Reserve は予備役区分かどうかを返します。
func (c Cadre) Reserve() bool {
	return cadres[c].reserve
}

// Member は隊員エンティティです。
type Member struct {
	ID                 string
	RegistrationNumber string
	Name               string
	Rank               Rank
	Cadre              Cadre
	Situation          Situation
	BirthDate          *time.Time
	EntryDate          time.Time
	LastPromotionDate  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RankSince は現階級の起算日を返します。昇任歴がなければ入隊日です。
func (m *Member) RankSince() time.Time {
	if m.LastPromotionDate != nil && !m.LastPromotionDate.IsZero() {
		return *m.LastPromotionDate
	}
	return m.EntryDate
}

// Clone は隊員のディープコピーを返します。
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	c := *m
	c.BirthDate = cloneTime(m.BirthDate)
	c.LastPromotionDate = cloneTime(m.LastPromotionDate)
	return &c
}
