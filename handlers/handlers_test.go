package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"edunest/backend"
	"edunest/handlers"
	"edunest/models"
	"edunest/routes"
	"edunest/services/notification"
	"edunest/services/push"
	"edunest/services/session"
	"edunest/store"

	"github.com/gin-gonic/gin"
)

// newTestShell assembles the full shell against a stub backend, the way
// main.go does in production.
func newTestShell(t *testing.T) (*gin.Engine, *session.DefaultSessionManager, *notification.DefaultNotificationStore, store.KV) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/MasterData/classes", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"grade":"7","section":"A","classSubjects":[{"subjectId":"m1","subjectName":"Math"}]}]`))
	})
	mux.HandleFunc("/api/MasterData/subjects", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"m1","name":"Math"}]`))
	})
	mux.HandleFunc("/api/Notification/register-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/Notification/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	state := store.NewMemoryKV()
	api := backend.NewClient(srv.URL, state)

	notifStore := notification.NewDefaultNotificationStore(state)
	plugin := push.NewSimulatorPlugin("android", true)
	bridge := push.NewBridge(plugin, state, api, push.LogNotifier{}, "1")
	bridge.SetNotificationCallback(func(n models.Notification) {
		notifStore.Add(context.Background(), n)
	})
	bridge.SetClearCallback(func() {
		notifStore.ClearAll(context.Background())
	})

	sessions := session.NewDefaultSessionManager(state, api, bridge)

	router := gin.New()
	handler := handlers.New(sessions, notifStore, bridge, plugin, api, state)
	routes.RegisterRoutes(router, handler, sessions)
	return router, sessions, notifStore, state
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginReturnsRoleLanding(t *testing.T) {
	router, sessions, _, _ := newTestShell(t)

	w := doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"admin","userGuid":"g1","userId":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Landing string `json:"landing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.Landing != "/dashboard" {
		t.Errorf("landing = %q, want /dashboard", resp.Landing)
	}
	if !sessions.IsFullyAuthenticated() {
		t.Error("session not established by login")
	}
	sessions.WaitForSideEffects()
	if classes := sessions.MasterClasses(); len(classes) != 1 || classes[0].SubjectIDs[0] != "m1" {
		t.Errorf("master data not fetched on login: %+v", classes)
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	router, _, _, _ := newTestShell(t)

	w := doJSON(t, router, http.MethodPost, "/login", `{"token":"tok1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing fields", w.Code)
	}
}

func TestProtectedRoutesRedirectWhenLoggedOut(t *testing.T) {
	router, _, _, _ := newTestShell(t)

	w := doJSON(t, router, http.MethodGet, "/notifications", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

func TestPushDeliveryShowsUpInNotifications(t *testing.T) {
	router, sessions, _, _ := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"student","userGuid":"g1","userId":"u1"}`)
	sessions.WaitForSideEffects()

	w := doJSON(t, router, http.MethodPost, "/push/deliver",
		`{"id":"n1","title":"Homework","body":"Due tomorrow"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("deliver status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/notifications", "")
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].ID != "n1" {
		t.Errorf("notifications = %+v", resp.Notifications)
	}
	if resp.UnreadCount != 1 {
		t.Errorf("unreadCount = %d, want 1", resp.UnreadCount)
	}
}

func TestMarkReadDecrementsBadge(t *testing.T) {
	router, sessions, notifStore, _ := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"admin","userGuid":"g1","userId":"u1"}`)
	sessions.WaitForSideEffects()
	doJSON(t, router, http.MethodPost, "/push/deliver", `{"id":"n1","title":"x"}`)
	doJSON(t, router, http.MethodPost, "/push/deliver", `{"id":"n2","title":"y"}`)

	w := doJSON(t, router, http.MethodPost, "/notifications/mark-read", `{"id":"n1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("mark-read status = %d", w.Code)
	}
	if got := notifStore.UnreadCount(); got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}
	// The list is untouched by mark-read.
	if got := len(notifStore.List()); got != 2 {
		t.Errorf("list = %d, want 2", got)
	}
}

func TestTrayClearEmptiesStore(t *testing.T) {
	router, sessions, notifStore, _ := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"teacher","userGuid":"g1","userId":"u1"}`)
	sessions.WaitForSideEffects()
	doJSON(t, router, http.MethodPost, "/push/deliver", `{"id":"n1","title":"x"}`)

	w := doJSON(t, router, http.MethodPost, "/push/clear", "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	if got := notifStore.UnreadCount(); got != 0 {
		t.Errorf("unread after tray clear = %d, want 0", got)
	}
	if got := len(notifStore.List()); got != 0 {
		t.Errorf("list after tray clear = %d, want 0", got)
	}
}

func TestPushTestRequiresRegisteredToken(t *testing.T) {
	router, sessions, _, state := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"admin","userGuid":"g1","userId":"u1"}`)
	sessions.WaitForSideEffects()

	// Login initialized the simulated plugin, which registers a device
	// token; clearing it makes the test-push endpoint refuse.
	state.Del(context.Background(), store.KeyPushToken)
	w := doJSON(t, router, http.MethodPost, "/push/test", "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 without a push token", w.Code)
	}

	state.Set(context.Background(), store.KeyPushToken, "device-token-1")
	w = doJSON(t, router, http.MethodPost, "/push/test", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with a push token", w.Code)
	}
}

func TestRootRedirectsToRoleLanding(t *testing.T) {
	router, _, _, _ := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"student","userGuid":"g1","userId":"u1"}`)

	w := doJSON(t, router, http.MethodGet, "/", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/student/home" {
		t.Errorf("redirect = %q, want /student/home", loc)
	}
}

func TestUnmatchedPathUsesLandingTable(t *testing.T) {
	router, _, _, _ := newTestShell(t)

	doJSON(t, router, http.MethodPost, "/login",
		`{"token":"tok1","role":"teacher","userGuid":"g1","userId":"u1"}`)

	w := doJSON(t, router, http.MethodGet, "/no-such-page", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/staff/home" {
		t.Errorf("redirect = %q, want /staff/home", loc)
	}
}
