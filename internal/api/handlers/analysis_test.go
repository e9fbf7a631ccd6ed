package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
)

func TestAnalysisHandler(t *testing.T) {
	start := func(t *testing.T, handler *AnalysisHandler) model.AnalysisJob {
		t.Helper()
		w := httptest.NewRecorder()
		handler.StartAnalysis(w, testutil.NewJSONRequest(http.MethodPost, "/api/analysis", `{"url":"https://shop.example.com"}`, nil))
		if w.Code != http.StatusAccepted {
			t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
		}
		var job model.AnalysisJob
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&job)
		return job
	}

	t.Run("start and cancel a running job", func(t *testing.T) {
		svc := service.NewAnalysisService(time.Hour, time.Hour, zap.NewNop().Sugar())
		t.Cleanup(svc.Close)
		handler := NewAnalysisHandler(svc)

		job := start(t, handler)
		if job.State != model.AnalysisRunning || job.Progress != 0 {
			t.Errorf("Expected running job at 0%%, got %+v", job)
		}

		params := map[string]string{"uuid": job.ID}
		w := httptest.NewRecorder()
		handler.GetAnalysis(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/analysis/"+job.ID, params))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		cancel := httptest.NewRecorder()
		handler.CancelAnalysis(cancel, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/analysis/"+job.ID, params))
		if cancel.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", cancel.Code, cancel.Body.String())
		}
		var cancelled model.AnalysisJob
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(cancel.Body).Decode(&cancelled)
		if cancelled.State != model.AnalysisCancelled {
			t.Errorf("Expected cancelled, got %s", cancelled.State)
		}
	})

	t.Run("cancel after completion is a conflict", func(t *testing.T) {
		svc := service.NewAnalysisService(time.Millisecond, time.Hour, zap.NewNop().Sugar())
		handler := NewAnalysisHandler(svc)

		job := start(t, handler)
		deadline := time.Now().Add(2 * time.Second)
		for {
			current, err := svc.Get(job.ID)
			if err != nil {
				t.Fatalf("Get() returned unexpected error: %v", err)
			}
			if current.State == model.AnalysisDone {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("Timed out waiting for completion, job is %+v", current)
			}
			time.Sleep(5 * time.Millisecond)
		}

		w := httptest.NewRecorder()
		handler.CancelAnalysis(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/analysis/"+job.ID, map[string]string{"uuid": job.ID}))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		handler := NewAnalysisHandler(service.NewAnalysisService(time.Hour, time.Hour, zap.NewNop().Sugar()))
		id := testutil.MakeID()

		w := httptest.NewRecorder()
		handler.GetAnalysis(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/analysis/"+id, map[string]string{"uuid": id}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects non-http url", func(t *testing.T) {
		handler := NewAnalysisHandler(service.NewAnalysisService(time.Hour, time.Hour, zap.NewNop().Sugar()))

		w := httptest.NewRecorder()
		handler.StartAnalysis(w, testutil.NewJSONRequest(http.MethodPost, "/api/analysis", `{"url":"ftp://example.com"}`, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
