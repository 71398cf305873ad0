package models

import "time"

type Sexe string

const (
	SexeM Sexe = "M"
	SexeF Sexe = "F"
)

type Member struct {
	ID            string
	Identifiant   string
	Nom           string
	Prenom        string
	DateNaissance string // YYYY-MM-DD
	Cursus        Cursus
	Sexe          Sexe
	NumeroDossier string
	INE           string
	UserID        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
