package session

import (
	"context"

	"edunest/models"
)

// SessionService owns the in-memory session state and the master-data
// caches that are refetched after every successful login.
type SessionService interface {
	Login(ctx context.Context, token, role, userGUID, userID string, studentCtx *models.StudentContext) error
	Logout(ctx context.Context)

	Current() models.Session
	// IsAuthenticated checks token presence only. Route guards use the
	// stricter IsFullyAuthenticated; the two checks are intentionally
	// distinct surfaces.
	IsAuthenticated() bool
	IsFullyAuthenticated() bool
	Role() string

	MasterClasses() []models.ClassRecord
	MasterSubjects() []models.SubjectRecord
}

// PushInitializer is the slice of the push bridge the manager needs:
// a best-effort initialize fired after login.
type PushInitializer interface {
	Initialize(ctx context.Context) error
}
