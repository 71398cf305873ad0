package dto

type UpdateSettingsRequest struct {
	AppName string `json:"appName"`
}
