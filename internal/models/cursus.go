package models

import (
	"fmt"
	"strings"
)

type Track string

const (
	TrackInformatiqueGestion Track = "INFORMATIQUE DE GESTION"
	TrackAdministration      Track = "ADMINISTRATION"
	TrackElectromecanique    Track = "ELECTROMECQNIQUE"
)

var Tracks = []Track{TrackInformatiqueGestion, TrackAdministration, TrackElectromecanique}

type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
)

var Levels = []Level{LevelL1, LevelL2, LevelL3}

// PreparatoryLabel is how the preparatory year is stored and displayed. It has no level.
const PreparatoryLabel = "ANNEE PREPARATOIRE"

const cursusSeparator = " - "

// Cursus is either PreparatoryYear or Program.
type Cursus interface {
	// Filiere is the track label shown for the member.
	Filiere() string
	// Niveau is the level, empty for the preparatory year.
	Niveau() string
	// String is the combined form persisted in the membres collection.
	String() string
	isCursus()
}

type PreparatoryYear struct{}

func (PreparatoryYear) Filiere() string { return PreparatoryLabel }
func (PreparatoryYear) Niveau() string  { return "" }
func (PreparatoryYear) String() string  { return PreparatoryLabel }
func (PreparatoryYear) isCursus()       {}

type Program struct {
	Track Track
	Level Level
}

func (p Program) Filiere() string { return string(p.Track) }
func (p Program) Niveau() string  { return string(p.Level) }
func (p Program) String() string  { return string(p.Track) + cursusSeparator + string(p.Level) }
func (Program) isCursus()         {}

// NewCursus validates a filiere/niveau pair coming from a request.
func NewCursus(filiere, niveau string) (Cursus, error) {
	f := strings.ToUpper(strings.TrimSpace(filiere))
	if isPreparatory(f) {
		return PreparatoryYear{}, nil
	}
	track, ok := matchTrack(f)
	if !ok {
		return nil, fmt.Errorf("unknown filiere %q", filiere)
	}
	level, ok := matchLevel(strings.ToUpper(strings.TrimSpace(niveau)))
	if !ok {
		return nil, fmt.Errorf("unknown niveau %q for filiere %s", niveau, track)
	}
	return Program{Track: track, Level: level}, nil
}

// ParseCursus decodes the persisted combined string. Legacy rows are
// accepted leniently: an empty or unrecognised track falls back to the
// preparatory year and an unrecognised level to L1.
func ParseCursus(stored string) Cursus {
	upper := strings.ToUpper(strings.TrimSpace(stored))
	if upper == "" || isPreparatory(upper) {
		return PreparatoryYear{}
	}
	rawTrack, rawLevel, _ := strings.Cut(upper, strings.TrimSpace(cursusSeparator))
	track, ok := matchTrack(strings.TrimSpace(rawTrack))
	if !ok {
		return PreparatoryYear{}
	}
	level, ok := matchLevel(strings.TrimSpace(rawLevel))
	if !ok {
		level = LevelL1
	}
	return Program{Track: track, Level: level}
}

func isPreparatory(upper string) bool {
	return strings.Contains(upper, PreparatoryLabel) || strings.Contains(upper, "ANNÉE PRÉPARATOIRE")
}

func matchTrack(upper string) (Track, bool) {
	for _, t := range Tracks {
		if strings.Contains(upper, string(t)) {
			return t, true
		}
	}
	return "", false
}

func matchLevel(upper string) (Level, bool) {
	for _, l := range Levels {
		if upper == string(l) {
			return l, true
		}
	}
	return "", false
}
