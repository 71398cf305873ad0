package dto

import (
	"time"

	"github.com/GregMSThompson/sas-financier/internal/models"
)

type MemberRequest struct {
	Identifiant   string `json:"identifiant"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	DateNaissance string `json:"dateNaissance"`
	Filiere       string `json:"filiere"`
	Niveau        string `json:"niveau,omitempty"`
	Sexe          string `json:"sexe"`
	NumeroDossier string `json:"numeroDossier"`
	INE           string `json:"ine"`
}

type MemberResponse struct {
	ID            string    `json:"id"`
	Identifiant   string    `json:"identifiant"`
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	DateNaissance string    `json:"dateNaissance"`
	Filiere       string    `json:"filiere"`
	Niveau        string    `json:"niveau,omitempty"`
	Cursus        string    `json:"cursus"`
	Sexe          string    `json:"sexe"`
	NumeroDossier string    `json:"numeroDossier"`
	INE           string    `json:"ine"`
	UserID        *string   `json:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewMemberResponse(m *models.Member) *MemberResponse {
	if m == nil {
		return nil
	}
	cursus := m.Cursus
	if cursus == nil {
		cursus = models.PreparatoryYear{}
	}
	return &MemberResponse{
		ID:            m.ID,
		Identifiant:   m.Identifiant,
		Nom:           m.Nom,
		Prenom:        m.Prenom,
		DateNaissance: m.DateNaissance,
		Filiere:       cursus.Filiere(),
		Niveau:        cursus.Niveau(),
		Cursus:        cursus.String(),
		Sexe:          string(m.Sexe),
		NumeroDossier: m.NumeroDossier,
		INE:           m.INE,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
