package dto

import "github.com/GregMSThompson/sas-financier/internal/models"

type Report struct {
	Type         string                `json:"type"`
	Period       string                `json:"period"`
	Title        string                `json:"title"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	Aggregate    Aggregate             `json:"aggregate"`
	Transactions []*models.Transaction `json:"transactions"`
}

// FileExport is a generated document served as an attachment.
type FileExport struct {
	FileName    string
	ContentType string
	Data        []byte
}
