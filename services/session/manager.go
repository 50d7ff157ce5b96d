package session

import (
	"context"
	"encoding/json"
	"sync"

	"edunest/backend"
	"edunest/models"
	"edunest/store"

	"go.uber.org/zap"
)

// DefaultSessionManager is the production implementation.
type DefaultSessionManager struct {
	State   store.KV
	Backend *backend.Client
	Push    PushInitializer

	mu       sync.RWMutex
	session  models.Session
	classes  []models.ClassRecord
	subjects []models.SubjectRecord

	sideEffects sync.WaitGroup
}

func NewDefaultSessionManager(state store.KV, api *backend.Client, push PushInitializer) *DefaultSessionManager {
	return &DefaultSessionManager{State: state, Backend: api, Push: push}
}

// Login persists the credentials, updates the in-memory session and then
// launches the post-login side effects: push-bridge initialization and
// the master-data fetches. The side effects are independent, may race,
// and never block or fail the login; a failed fetch leaves that cache
// empty with its storage key removed. Storage writes always precede
// memory updates.
func (m *DefaultSessionManager) Login(ctx context.Context, token, role, userGUID, userID string, studentCtx *models.StudentContext) error {
	m.State.Set(ctx, store.KeyAuthToken, token)
	m.State.Set(ctx, store.KeyAuthRole, role)
	m.State.Set(ctx, store.KeyAuthUserGUID, userGUID)
	m.State.Set(ctx, store.KeyAuthUserID, userID)
	if studentCtx != nil {
		if data, err := json.Marshal(studentCtx); err == nil {
			m.State.Set(ctx, store.KeyAuthStudentData, string(data))
		}
	}

	m.mu.Lock()
	m.session = models.Session{
		AuthToken:      token,
		Role:           role,
		UserGUID:       userGUID,
		UserID:         userID,
		StudentContext: studentCtx,
	}
	m.mu.Unlock()

	// Detach from the caller's context: the side effects outlive the
	// login request.
	bg := context.WithoutCancel(ctx)
	if m.Push != nil {
		m.sideEffects.Add(1)
		go func() {
			defer m.sideEffects.Done()
			if err := m.Push.Initialize(bg); err != nil {
				zap.L().Warn("push bridge initialization failed", zap.Error(err))
			}
		}()
	}
	m.sideEffects.Add(2)
	go func() {
		defer m.sideEffects.Done()
		m.refreshClasses(bg)
	}()
	go func() {
		defer m.sideEffects.Done()
		m.refreshSubjects(bg)
	}()

	return nil
}

// WaitForSideEffects blocks until any in-flight post-login side effects
// have settled. The shell waits on shutdown so a fetch result is not
// lost mid-write; tests wait before asserting on the caches.
func (m *DefaultSessionManager) WaitForSideEffects() {
	m.sideEffects.Wait()
}

// Logout wipes every session key and resets the in-memory state. There
// is no backend call.
func (m *DefaultSessionManager) Logout(ctx context.Context) {
	m.State.Del(ctx, store.SessionKeys...)

	m.mu.Lock()
	m.session = models.Session{}
	m.classes = nil
	m.subjects = nil
	m.mu.Unlock()
}

func (m *DefaultSessionManager) Current() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *DefaultSessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AuthToken != ""
}

func (m *DefaultSessionManager) IsFullyAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AuthToken != "" && m.session.UserID != ""
}

func (m *DefaultSessionManager) Role() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Role
}

func (m *DefaultSessionManager) MasterClasses() []models.ClassRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.classes
}

func (m *DefaultSessionManager) MasterSubjects() []models.SubjectRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subjects
}

// refreshClasses fetches and normalizes the class listing. On any
// failure the cache degrades to empty and the persisted copy is
// removed; the error never propagates.
func (m *DefaultSessionManager) refreshClasses(ctx context.Context) {
	classes, err := m.Backend.FetchClasses(ctx)
	if err != nil {
		zap.L().Warn("failed to fetch classes, clearing cache", zap.Error(err))
		m.State.Del(ctx, store.KeyMasterClasses)
		m.mu.Lock()
		m.classes = []models.ClassRecord{}
		m.mu.Unlock()
		return
	}

	normalized := NormalizeClassRecords(classes)
	if data, err := json.Marshal(normalized); err == nil {
		m.State.Set(ctx, store.KeyMasterClasses, string(data))
	}
	m.mu.Lock()
	m.classes = normalized
	m.mu.Unlock()
}

func (m *DefaultSessionManager) refreshSubjects(ctx context.Context) {
	subjects, err := m.Backend.FetchSubjects(ctx)
	if err != nil {
		zap.L().Warn("failed to fetch subjects, clearing cache", zap.Error(err))
		m.State.Del(ctx, store.KeyMasterSubjects)
		m.mu.Lock()
		m.subjects = []models.SubjectRecord{}
		m.mu.Unlock()
		return
	}

	if data, err := json.Marshal(subjects); err == nil {
		m.State.Set(ctx, store.KeyMasterSubjects, string(data))
	}
	m.mu.Lock()
	m.subjects = subjects
	m.mu.Unlock()
}

// hydrate rebuilds the in-memory session and master-data caches from
// storage. Cached master data is read back without re-validation;
// staleness is accepted. Class records are re-normalized on the way in.
func (m *DefaultSessionManager) hydrate(ctx context.Context) {
	token, _ := m.State.Get(ctx, store.KeyAuthToken)
	role, _ := m.State.Get(ctx, store.KeyAuthRole)
	userGUID, _ := m.State.Get(ctx, store.KeyAuthUserGUID)
	userID, _ := m.State.Get(ctx, store.KeyAuthUserID)

	var studentCtx *models.StudentContext
	if raw, ok := m.State.Get(ctx, store.KeyAuthStudentData); ok {
		var sc models.StudentContext
		if err := json.Unmarshal([]byte(raw), &sc); err == nil {
			studentCtx = &sc
		} else {
			zap.L().Warn("stored student context is not valid JSON, ignoring", zap.Error(err))
		}
	}

	var classes []models.ClassRecord
	if raw, ok := m.State.Get(ctx, store.KeyMasterClasses); ok {
		if err := json.Unmarshal([]byte(raw), &classes); err != nil {
			zap.L().Warn("stored class cache is not valid JSON, ignoring", zap.Error(err))
			classes = nil
		}
	}
	var subjects []models.SubjectRecord
	if raw, ok := m.State.Get(ctx, store.KeyMasterSubjects); ok {
		if err := json.Unmarshal([]byte(raw), &subjects); err != nil {
			zap.L().Warn("stored subject cache is not valid JSON, ignoring", zap.Error(err))
			subjects = nil
		}
	}

	m.mu.Lock()
	m.session = models.Session{
		AuthToken:      token,
		Role:           role,
		UserGUID:       userGUID,
		UserID:         userID,
		StudentContext: studentCtx,
	}
	m.classes = NormalizeClassRecords(classes)
	m.subjects = subjects
	m.mu.Unlock()
}
