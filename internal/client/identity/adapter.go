package identityclient

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/sas-financier/internal/errs"
)

// Adapter creates and removes Firebase Authentication accounts. Sign-in
// happens client side; the API only ever sees verified ID tokens.
type Adapter struct {
	client *auth.Client
}

func NewAdapter(client *auth.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errs.NewAlreadyExistsError("cet email est déjà utilisé")
		}
		return "", errs.NewExternalServiceError("firebase-auth", "failed to create account", false, err)
	}
	return user.UID, nil
}

// DeleteUser removes the account. An account that no longer exists is not an error.
func (a *Adapter) DeleteUser(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return errs.NewExternalServiceError("firebase-auth", "failed to delete account", false, err)
	}
	return nil
}
