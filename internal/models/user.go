package models

import (
	"time"
)

// Profile is the profiles/{uid} document created at signup.
type Profile struct {
	UID             string    `firestore:"uid" json:"uid"`
	Email           string    `firestore:"email" json:"email"`
	Nom             string    `firestore:"nom" json:"nom"`
	Prenom          string    `firestore:"prenom" json:"prenom"`
	ProfilePhotoURL string    `firestore:"profilePhotoUrl,omitempty" json:"profilePhotoUrl,omitempty"`
	PhotoPath       string    `firestore:"photoPath,omitempty" json:"-"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type UserWithRole struct {
	Profile
	Role Role `json:"role,omitempty"`
}
