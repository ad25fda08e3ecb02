// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// Each mock exposes a function field per interface method (for example
// MockUserStore.GetByIDFn) that a test can set to override behavior. When the
// field is nil the mock falls back to a small in-memory default implementation
// backed by exported maps, which keeps happy-path test setup short.
//
// Usage:
//
//	import "github.com/naeomei/Retro-Video-Game-Exchange-Hypermedia-Rest-API/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    userStore := mocks.NewMockUserStore()
//	    userStore.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	        return nil, store.ErrUserNotFound
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Provide a map-backed default so tests without overrides still work
package mocks
