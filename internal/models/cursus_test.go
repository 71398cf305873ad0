package models

import "testing"

func TestNewCursus(t *testing.T) {
	c, err := NewCursus(" administration ", "l3")
	if err != nil {
		t.Fatalf("NewCursus returned error: %v", err)
	}
	if c != (Program{Track: TrackAdministration, Level: LevelL3}) {
		t.Fatalf("unexpected cursus %#v", c)
	}

	prep, err := NewCursus("ANNEE PREPARATOIRE", "")
	if err != nil {
		t.Fatalf("NewCursus returned error: %v", err)
	}
	if _, ok := prep.(PreparatoryYear); !ok {
		t.Fatalf("expected PreparatoryYear, got %#v", prep)
	}

	if _, err := NewCursus("ADMINISTRATION", ""); err == nil {
		t.Fatalf("program without level accepted")
	}
	if _, err := NewCursus("DROIT", "L1"); err == nil {
		t.Fatalf("unknown track accepted")
	}
}

func TestParseCursus(t *testing.T) {
	cases := map[string]Cursus{
		"":                             PreparatoryYear{},
		"ANNEE PREPARATOIRE":           PreparatoryYear{},
		"Année Préparatoire":           PreparatoryYear{},
		"INFORMATIQUE DE GESTION - L2": Program{Track: TrackInformatiqueGestion, Level: LevelL2},
		"electromecqnique - l3":        Program{Track: TrackElectromecanique, Level: LevelL3},
		"ADMINISTRATION":               Program{Track: TrackAdministration, Level: LevelL1},
		"ADMINISTRATION - L9":          Program{Track: TrackAdministration, Level: LevelL1},
		"PHILOSOPHIE - L1":             PreparatoryYear{},
	}
	for stored, want := range cases {
		if got := ParseCursus(stored); got != want {
			t.Fatalf("ParseCursus(%q) = %#v, want %#v", stored, got, want)
		}
	}
}

func TestCursusStringRoundTrip(t *testing.T) {
	for _, track := range Tracks {
		for _, level := range Levels {
			p := Program{Track: track, Level: level}
			if got := ParseCursus(p.String()); got != p {
				t.Fatalf("round trip of %q gave %#v", p.String(), got)
			}
		}
	}
	if got := ParseCursus(PreparatoryYear{}.String()); got != (PreparatoryYear{}) {
		t.Fatalf("preparatory round trip gave %#v", got)
	}
}
