package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/payment"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
)

func decodeState(t *testing.T, w *httptest.ResponseRecorder) model.AccessState {
	t.Helper()
	var state model.AccessState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode access state: %v", err)
	}
	return state
}

// TestAccessHandler tests the premium gate endpoints.
//
// WHY: A wrong passcode must be refused without unlocking, and a payment must
// be acknowledged before its outcome is known.
func TestAccessHandler(t *testing.T) {
	t.Run("starts locked", func(t *testing.T) {
		handler := NewAccessHandler(testutil.NewTestAccessService(t, testutil.NewMemoryKV(), nil))

		w := httptest.NewRecorder()
		handler.State(w, httptest.NewRequest(http.MethodGet, "/api/access", nil))

		if state := decodeState(t, w); state.Unlocked || state.PaymentPending {
			t.Errorf("Expected locked gate, got %+v", state)
		}
	})

	t.Run("wrong passcode is forbidden", func(t *testing.T) {
		as := testutil.NewTestAccessService(t, testutil.NewMemoryKV(), nil)
		handler := NewAccessHandler(as)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/access/unlock", `{"passcode":"guess"}`, nil)
		w := httptest.NewRecorder()
		handler.Unlock(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
		if as.IsUnlocked() {
			t.Error("Gate must stay locked after a wrong passcode")
		}
	})

	t.Run("correct passcode unlocks", func(t *testing.T) {
		handler := NewAccessHandler(testutil.NewTestAccessService(t, testutil.NewMemoryKV(), nil))

		req := testutil.NewJSONRequest(http.MethodPost, "/api/access/unlock", `{"passcode":"`+testutil.TestPasscode+`"}`, nil)
		w := httptest.NewRecorder()
		handler.Unlock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if state := decodeState(t, w); !state.Unlocked {
			t.Errorf("Expected unlocked gate, got %+v", state)
		}
	})

	t.Run("payment is accepted and then unlocks", func(t *testing.T) {
		as := testutil.NewTestAccessService(t, testutil.NewMemoryKV(), payment.NewSimulatedCharger(50*time.Millisecond, "success"))
		handler := NewAccessHandler(as)

		body := `{"customerEmail":"jane@example.com","customerName":"Jane Doe"}`
		w := httptest.NewRecorder()
		handler.Payment(w, testutil.NewJSONRequest(http.MethodPost, "/api/access/payment", body, nil))

		if w.Code != http.StatusAccepted {
			t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
		}
		if state := decodeState(t, w); !state.PaymentPending || state.Unlocked {
			t.Errorf("Expected pending payment, got %+v", state)
		}

		second := httptest.NewRecorder()
		handler.Payment(second, testutil.NewJSONRequest(http.MethodPost, "/api/access/payment", body, nil))
		if second.Code != http.StatusConflict {
			t.Errorf("Expected 409 while pending, got %d: %s", second.Code, second.Body.String())
		}

		deadline := time.Now().Add(2 * time.Second)
		for !as.IsUnlocked() {
			if time.Now().After(deadline) {
				t.Fatal("Timed out waiting for payment to unlock")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("invalid customer details are a bad request", func(t *testing.T) {
		handler := NewAccessHandler(testutil.NewTestAccessService(t, testutil.NewMemoryKV(), nil))

		req := testutil.NewJSONRequest(http.MethodPost, "/api/access/payment", `{"customerEmail":"nope","customerName":""}`, nil)
		w := httptest.NewRecorder()
		handler.Payment(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
