package models

import (
	"testing"
	"time"
)

func TestParsePeriodMonthly(t *testing.T) {
	p, err := ParsePeriod("mensuel", "2024-02", "")
	if err != nil {
		t.Fatalf("ParsePeriod returned error: %v", err)
	}
	monthly, ok := p.(MonthlyPeriod)
	if !ok || monthly.Year != 2024 || monthly.Month != time.February {
		t.Fatalf("unexpected period %#v", p)
	}
	from, to := p.Bounds()
	if from != "2024-02-01" || to != "2024-02-29" {
		t.Fatalf("bounds = %s..%s, want leap-year February", from, to)
	}
	if p.Slug() != "2024-02" || p.Title() != "Rapport Mensuel - février 2024" {
		t.Fatalf("unexpected slug/title %q %q", p.Slug(), p.Title())
	}
}

func TestParsePeriodAnnual(t *testing.T) {
	p, err := ParsePeriod("ANNUEL", "", "2023")
	if err != nil {
		t.Fatalf("ParsePeriod returned error: %v", err)
	}
	from, to := p.Bounds()
	if from != "2023-01-01" || to != "2023-12-31" {
		t.Fatalf("bounds = %s..%s", from, to)
	}
	if p.Kind() != PeriodAnnuel || p.Slug() != "2023" {
		t.Fatalf("unexpected kind/slug %q %q", p.Kind(), p.Slug())
	}
}

func TestParsePeriodInvalid(t *testing.T) {
	cases := [][3]string{
		{"hebdo", "", ""},
		{"mensuel", "2024-13", ""},
		{"mensuel", "", "2024"},
		{"annuel", "", "24x"},
		{"annuel", "", ""},
	}
	for _, c := range cases {
		if _, err := ParsePeriod(c[0], c[1], c[2]); err == nil {
			t.Fatalf("ParsePeriod(%q, %q, %q) accepted", c[0], c[1], c[2])
		}
	}
}
