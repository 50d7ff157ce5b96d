package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"edunest/backend"
	"edunest/models"
	"edunest/store"
)

type fakePush struct {
	calls int32
	err   error
}

func (f *fakePush) Initialize(context.Context) error {
	atomic.AddInt32(&f.calls, 1)
	return f.err
}

func TestLoginFetchesAndNormalizesMasterData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/MasterData/classes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"grade":"7","section":"A","classSubjects":[{"subjectId":"m1","subjectName":"Math"}]}]`))
	})
	mux.HandleFunc("/api/MasterData/subjects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"m1","name":"Math"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	state := store.NewMemoryKV()
	api := backend.NewClient(srv.URL, state)
	pushInit := &fakePush{}
	mgr := NewDefaultSessionManager(state, api, pushInit)

	if err := mgr.Login(ctx, "tok1", "admin", "g1", "u1", nil); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	mgr.WaitForSideEffects()

	classes := mgr.MasterClasses()
	if len(classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(classes))
	}
	if len(classes[0].SubjectIDs) != 1 || classes[0].SubjectIDs[0] != "m1" {
		t.Errorf("class not normalized in memory: %+v", classes[0])
	}

	raw, ok := state.Get(ctx, store.KeyMasterClasses)
	if !ok {
		t.Fatal("masterDataClasses not persisted")
	}
	var persisted []models.ClassRecord
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("persisted classes not valid JSON: %v", err)
	}
	if len(persisted) != 1 || len(persisted[0].SubjectIDs) != 1 || persisted[0].SubjectIDs[0] != "m1" {
		t.Errorf("persisted classes not normalized: %+v", persisted)
	}

	if got := mgr.MasterSubjects(); len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("subjects = %+v", got)
	}
	if atomic.LoadInt32(&pushInit.calls) != 1 {
		t.Errorf("push initialize calls = %d, want 1", pushInit.calls)
	}
}

func TestLoginReturnsWhileFetchesInFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	defer close(release)

	ctx := context.Background()
	state := store.NewMemoryKV()
	api := backend.NewClient(srv.URL, state)
	mgr := NewDefaultSessionManager(state, api, &fakePush{})

	done := make(chan error, 1)
	go func() {
		done <- mgr.Login(ctx, "tok1", "admin", "g1", "u1", nil)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Login() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Login blocked on the master-data fetches")
	}

	// The session is usable before the fetches settle.
	if !mgr.IsFullyAuthenticated() {
		t.Error("session not authenticated while fetches are in flight")
	}
	if _, ok := state.Get(ctx, store.KeyAuthToken); !ok {
		t.Error("credentials not persisted before the fetches settled")
	}
}

func TestLoginSucceedsWhenFetchesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx := context.Background()
	state := store.NewMemoryKV()
	// Pre-seed stale caches: a failed fetch must remove them.
	state.Set(ctx, store.KeyMasterClasses, `[{"grade":"1","section":"Z"}]`)
	state.Set(ctx, store.KeyMasterSubjects, `[{"id":"old","name":"Old"}]`)

	api := backend.NewClient(srv.URL, state)
	mgr := NewDefaultSessionManager(state, api, &fakePush{err: errors.New("no native context")})

	if err := mgr.Login(ctx, "tok1", "teacher", "g1", "u1", nil); err != nil {
		t.Fatalf("Login() = %v, want success despite fetch failures", err)
	}
	mgr.WaitForSideEffects()

	if got := mgr.MasterClasses(); len(got) != 0 {
		t.Errorf("classes cache = %+v, want empty", got)
	}
	if got := mgr.MasterSubjects(); len(got) != 0 {
		t.Errorf("subjects cache = %+v, want empty", got)
	}
	if _, ok := state.Get(ctx, store.KeyMasterClasses); ok {
		t.Error("masterDataClasses key must be removed on fetch failure")
	}
	if _, ok := state.Get(ctx, store.KeyMasterSubjects); ok {
		t.Error("masterDataSubjects key must be removed on fetch failure")
	}
	if !mgr.IsFullyAuthenticated() {
		t.Error("login must still authenticate the session")
	}
}

func TestLoginPersistsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	state := store.NewMemoryKV()
	api := backend.NewClient(srv.URL, state)
	mgr := NewDefaultSessionManager(state, api, nil)

	studentCtx := &models.StudentContext{Grade: "7", Section: "A", ClassID: "c1"}
	if err := mgr.Login(ctx, "tok1", "student", "g1", "u1", studentCtx); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	mgr.WaitForSideEffects()

	want := map[string]string{
		store.KeyAuthToken:    "tok1",
		store.KeyAuthRole:     "student",
		store.KeyAuthUserGUID: "g1",
		store.KeyAuthUserID:   "u1",
	}
	for key, val := range want {
		got, ok := state.Get(ctx, key)
		if !ok || got != val {
			t.Errorf("state[%s] = %q (present=%v), want %q", key, got, ok, val)
		}
	}

	raw, ok := state.Get(ctx, store.KeyAuthStudentData)
	if !ok {
		t.Fatal("authStudentData not persisted")
	}
	var sc models.StudentContext
	if err := json.Unmarshal([]byte(raw), &sc); err != nil || sc.ClassID != "c1" {
		t.Errorf("persisted student context = %q", raw)
	}
}

func TestLogoutWipesEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	state := store.NewMemoryKV()
	api := backend.NewClient(srv.URL, state)
	mgr := NewDefaultSessionManager(state, api, nil)

	if err := mgr.Login(ctx, "tok1", "admin", "g1", "u1", nil); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	mgr.WaitForSideEffects()
	mgr.Logout(ctx)

	for _, key := range store.SessionKeys {
		if _, ok := state.Get(ctx, key); ok {
			t.Errorf("key %q still present after logout", key)
		}
	}
	if mgr.IsAuthenticated() || mgr.IsFullyAuthenticated() {
		t.Error("manager still authenticated after logout")
	}
	if len(mgr.MasterClasses()) != 0 || len(mgr.MasterSubjects()) != 0 {
		t.Error("master-data caches not reset on logout")
	}
}

func TestAuthenticationChecksDiverge(t *testing.T) {
	state := store.NewMemoryKV()
	mgr := NewDefaultSessionManager(state, backend.NewClient("http://127.0.0.1:1", state), nil)

	// Token without user id: weak check passes, strict check does not.
	mgr.mu.Lock()
	mgr.session = models.Session{AuthToken: "tok1"}
	mgr.mu.Unlock()

	if !mgr.IsAuthenticated() {
		t.Error("IsAuthenticated must only require a token")
	}
	if mgr.IsFullyAuthenticated() {
		t.Error("IsFullyAuthenticated must additionally require a user id")
	}
}
