package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PeriodMensuel = "mensuel"
	PeriodAnnuel  = "annuel"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Period selects the transactions of a report. It is either a MonthlyPeriod
// or an AnnualPeriod.
type Period interface {
	Kind() string
	// Bounds returns the first and last day, inclusive, as YYYY-MM-DD.
	Bounds() (from, to string)
	// Title is the French heading used in printed reports.
	Title() string
	// Slug identifies the period in export file names.
	Slug() string
	isPeriod()
}

type MonthlyPeriod struct {
	Year  int
	Month time.Month
}

func (MonthlyPeriod) Kind() string { return PeriodMensuel }

func (p MonthlyPeriod) Bounds() (string, string) {
	first := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(time.DateOnly), last.Format(time.DateOnly)
}

func (p MonthlyPeriod) Title() string {
	return fmt.Sprintf("Rapport Mensuel - %s %d", frenchMonths[p.Month-1], p.Year)
}

func (p MonthlyPeriod) Slug() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

func (MonthlyPeriod) isPeriod() {}

type AnnualPeriod struct {
	Year int
}

func (AnnualPeriod) Kind() string { return PeriodAnnuel }

func (p AnnualPeriod) Bounds() (string, string) {
	return fmt.Sprintf("%04d-01-01", p.Year), fmt.Sprintf("%04d-12-31", p.Year)
}

func (p AnnualPeriod) Title() string { return fmt.Sprintf("Rapport Annuel - %d", p.Year) }

func (p AnnualPeriod) Slug() string { return fmt.Sprintf("%04d", p.Year) }

func (AnnualPeriod) isPeriod() {}

// ParsePeriod reads a period selector: kind "mensuel" with month "YYYY-MM",
// or kind "annuel" with year "YYYY".
func ParsePeriod(kind, month, year string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case PeriodMensuel:
		t, err := time.Parse("2006-01", strings.TrimSpace(month))
		if err != nil {
			return nil, fmt.Errorf("month must be YYYY-MM")
		}
		return MonthlyPeriod{Year: t.Year(), Month: t.Month()}, nil
	case PeriodAnnuel:
		y, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil || y < 1900 || y > 9999 {
			return nil, fmt.Errorf("year must be YYYY")
		}
		return AnnualPeriod{Year: y}, nil
	default:
		return nil, fmt.Errorf("type must be mensuel or annuel")
	}
}
