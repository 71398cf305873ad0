package dto

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
}

type SignupResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	MemberID string `json:"memberId"`
}
