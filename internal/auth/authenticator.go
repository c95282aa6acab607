package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers ledger accounts and verifies their credentials.
// The service layer only depends on this interface so the credential type
// can change without touching the handlers.
type Authenticator interface {
	// Register creates an account for email. The credential format is
	// implementation defined.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials the implementation would not accept.
	ValidateCredential(credential string) error
}
