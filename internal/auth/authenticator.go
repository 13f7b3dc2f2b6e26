package auth

import (
	"context"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
)

// Authenticator verifies back-office accounts. Accounts double as the
// participant directory, so Register is also how a new participant joins.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
