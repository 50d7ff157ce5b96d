package session

import (
	"context"

	"edunest/backend"
	"edunest/store"

	"go.uber.org/zap"
)

// Validator checks the stored session once at process start. It either
// hands a live session to the manager or collapses storage to the
// unauthenticated state. There is no retry.
type Validator struct {
	State    store.KV
	Backend  *backend.Client
	Sessions *DefaultSessionManager
}

func NewValidator(state store.KV, api *backend.Client, sessions *DefaultSessionManager) *Validator {
	return &Validator{State: state, Backend: api, Sessions: sessions}
}

// Run validates the stored session. A token without a paired user id is
// corrupt; a token the backend rejects is stale. Both fail closed with
// an identical wipe of every session key.
func (v *Validator) Run(ctx context.Context) {
	token, _ := v.State.Get(ctx, store.KeyAuthToken)
	if token == "" {
		// Nothing stored, app starts unauthenticated.
		return
	}

	userID, _ := v.State.Get(ctx, store.KeyAuthUserID)
	if userID == "" {
		zap.L().Warn("stored auth token has no paired user id, discarding session")
		v.State.Del(ctx, store.SessionKeys...)
		return
	}

	// One lightweight authenticated read proves the token is still live.
	if _, err := v.Backend.FetchClasses(ctx); err != nil {
		zap.L().Warn("stored session failed validation, discarding", zap.Error(err))
		v.State.Del(ctx, store.SessionKeys...)
		return
	}

	v.Sessions.hydrate(ctx)
}
