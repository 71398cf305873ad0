package dto

import "github.com/GregMSThompson/sas-financier/internal/models"

type MessageRequest struct {
	Content string `json:"content"`
}

// MessageAuthor is the public part of the author's profile and member record.
type MessageAuthor struct {
	UID             string `json:"uid"`
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	ProfilePhotoURL string `json:"profilePhotoUrl,omitempty"`
	Cursus          string `json:"cursus,omitempty"`
}

type MessageView struct {
	models.CommunityMessage
	Edited bool           `json:"edited"`
	Author *MessageAuthor `json:"author,omitempty"`
}
