package crypto

import "context"

// Plain stores fields as-is. Used when no KMS key is configured, e.g. against
// the Firestore emulator.
type Plain struct{}

func (Plain) Encrypt(_ context.Context, plaintext string) (string, error)  { return plaintext, nil }
func (Plain) Decrypt(_ context.Context, ciphertext string) (string, error) { return ciphertext, nil }
