package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventease/api/internal/auth"
	"github.com/eventease/api/internal/draft"
	"github.com/eventease/api/internal/enum"
	"github.com/eventease/api/internal/handler"
	"github.com/eventease/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func setupDraftRouter(store draft.Store) *chi.Mux {
	h := handler.NewDraftHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testSecret))
	h.RegisterRoutes(r)
	return r
}

// doAuthRequestAs issues a request carrying a token for a specific user, so a
// test can round-trip drafts owned by that user across several calls.
func doAuthRequestAs(t *testing.T, router http.Handler, method, path string, body interface{}, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.GenerateToken(testSecret, userID, enum.UserRoleHost)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestDraft_PutThenGet(t *testing.T) {
	r := setupDraftRouter(draft.NewMemoryStore(time.Hour))
	userID := uuid.New()
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/draft"

	body := map[string]interface{}{
		"editOrderState": map[string]interface{}{"selectedItems": map[string]int{"svc-1": 2}},
		"serviceDeliveryFees": map[string]interface{}{
			"svc-1": map[string]string{"range": "0-10 miles", "fee": "25.00"},
		},
		"eventLocation": "Austin, TX",
	}

	rr := doAuthRequestAs(t, r, "PUT", path, body, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("put status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	rr = doAuthRequestAs(t, r, "GET", path, nil, userID)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var got draft.OrderDraft
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if got.EventID != eventID {
		t.Errorf("event ID: got %v, want %v", got.EventID, eventID)
	}
	if got.EventLocation != "Austin, TX" {
		t.Errorf("event location: got %q", got.EventLocation)
	}
	if choice, ok := got.ServiceDeliveryFees["svc-1"]; !ok || choice.Fee != "25.00" {
		t.Errorf("delivery choice: got %+v", got.ServiceDeliveryFees)
	}
	if len(got.EditOrderState) == 0 {
		t.Error("expected editOrderState to round-trip")
	}
}

func TestDraft_GetMissing(t *testing.T) {
	r := setupDraftRouter(draft.NewMemoryStore(time.Hour))

	rr := doAuthRequestAs(t, r, "GET", "/events/"+uuid.NewString()+"/draft", nil, uuid.New())
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDraft_IsolatedPerUser(t *testing.T) {
	r := setupDraftRouter(draft.NewMemoryStore(time.Hour))
	alice := uuid.New()
	bob := uuid.New()
	eventID := uuid.New()
	path := "/events/" + eventID.String() + "/draft"

	body := map[string]interface{}{"editOrderState": map[string]string{"note": "alice's edits"}}
	if rr := doAuthRequestAs(t, r, "PUT", path, body, alice); rr.Code != http.StatusOK {
		t.Fatalf("put status: got %d", rr.Code)
	}

	// Bob edits the same event but has no draft of his own.
	rr := doAuthRequestAs(t, r, "GET", path, nil, bob)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status for other user: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDraft_Clear(t *testing.T) {
	r := setupDraftRouter(draft.NewMemoryStore(time.Hour))
	userID := uuid.New()
	path := "/events/" + uuid.NewString() + "/draft"

	body := map[string]interface{}{"editOrderState": map[string]string{}}
	if rr := doAuthRequestAs(t, r, "PUT", path, body, userID); rr.Code != http.StatusOK {
		t.Fatalf("put status: got %d", rr.Code)
	}

	rr := doAuthRequestAs(t, r, "DELETE", path, nil, userID)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doAuthRequestAs(t, r, "GET", path, nil, userID)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status after clear: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDraft_InvalidEventID(t *testing.T) {
	r := setupDraftRouter(draft.NewMemoryStore(time.Hour))

	rr := doAuthRequestAs(t, r, "GET", "/events/not-a-uuid/draft", nil, uuid.New())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
