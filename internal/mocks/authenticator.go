package mocks

import (
	"context"

	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/domain"
	"github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/service/auth"
)

// MockAuthenticator implements auth.Authenticator for testing
type MockAuthenticator struct {
	// AuthenticateFn allows test cases to mock the Authenticate behavior
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)

	// Default values used when AuthenticateFn isn't explicitly defined
	User *domain.User
	Err  error

	// Invalidated records every email passed to Invalidate, in order
	Invalidated []string
}

// Authenticate implements the auth.Authenticator interface
func (m *MockAuthenticator) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.User == nil {
		return nil, auth.ErrInvalidCredentials
	}
	return m.User, nil
}

// Invalidate implements the auth.Authenticator interface
func (m *MockAuthenticator) Invalidate(email string) {
	m.Invalidated = append(m.Invalidated, email)
}
