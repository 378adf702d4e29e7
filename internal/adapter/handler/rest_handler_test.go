package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/hive-corporation/autosoc/internal/adapter/executor"
	"github.com/hive-corporation/autosoc/internal/core/domain"
	"github.com/hive-corporation/autosoc/internal/core/service"
)

type stubClassifier struct {
	reply string
	err   error
}

func (s *stubClassifier) Submit(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func (s *stubClassifier) Name() string { return "stub" }

func newTestRouter(classifier *stubClassifier) *mux.Router {
	detector := service.NewThreatDetector(classifier)
	engine := service.NewAutoResponseEngine(executor.NewExecutor(nil, nil))
	h := NewRestHandler(detector, engine, nil, nil, nil)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/health", h.Health).Methods("GET")
	router.HandleFunc("/api/v1/analyze", h.AnalyzeEvent).Methods("POST")
	router.HandleFunc("/api/v1/triage", h.TriageCluster).Methods("POST")
	router.HandleFunc("/api/v1/respond", h.ExecuteResponse).Methods("POST")
	router.HandleFunc("/api/v1/reports/weekly", h.WeeklyReport).Methods("POST")
	return router
}

func postJSON(t *testing.T, router *mux.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubClassifier{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	json.NewDecoder(rec.Body).Decode(&body)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
}

const validReply = `{
	"severity": "critical",
	"threat_category": "intrusion",
	"confidence": 0.95,
	"is_threat": true,
	"threat_summary": "Active intrusion on database server",
	"technical_details": "Reverse shell established from db-01",
	"recommended_actions": ["isolate_host"],
	"false_positive_likelihood": "low",
	"requires_immediate_action": true
}`

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(&stubClassifier{reply: validReply})

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{
		"event": map[string]any{"source_ip": "192.0.2.1"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Assessment domain.ThreatAssessment `json:"assessment"`
		Response   *domain.ResponseResult  `json:"response"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Assessment.Severity != domain.SeverityCritical {
		t.Errorf("severity = %s, want critical", body.Assessment.Severity)
	}
	if body.Assessment.Provider != "stub" {
		t.Errorf("provider = %s, want stub", body.Assessment.Provider)
	}
	if body.Response != nil {
		t.Error("response present without auto_respond")
	}
}

func TestAnalyzeEndpointAutoRespond(t *testing.T) {
	router := newTestRouter(&stubClassifier{reply: validReply})

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{
		"event":        map[string]any{"source_ip": "192.0.2.1"},
		"auto_respond": true,
		"client_config": map[string]any{
			"client_id": "acme",
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Response *domain.ResponseResult `json:"response"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	if body.Response == nil {
		t.Fatal("response missing with auto_respond set")
	}
	if !body.Response.AutoExecuted {
		t.Error("critical playbook should auto-execute")
	}
	if len(body.Response.ActionsTaken) != 4 {
		t.Errorf("ActionsTaken = %d, want the 4 critical actions", len(body.Response.ActionsTaken))
	}
}

func TestAnalyzeEndpointClassifierFailure(t *testing.T) {
	router := newTestRouter(&stubClassifier{err: errors.New("backend down")})

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{
		"event": map[string]any{"source_ip": "192.0.2.1"},
	})

	// Analysis never fails outward: the caller gets the fallback.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Assessment domain.ThreatAssessment `json:"assessment"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	if body.Assessment.Provider != domain.ProviderFallback {
		t.Errorf("provider = %s, want fallback", body.Assessment.Provider)
	}
	if body.Assessment.Severity != domain.SeverityMedium {
		t.Errorf("severity = %s, want medium", body.Assessment.Severity)
	}
}

func TestAnalyzeEndpointBadPayload(t *testing.T) {
	router := newTestRouter(&stubClassifier{reply: validReply})

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeEndpointMissingEvent(t *testing.T) {
	router := newTestRouter(&stubClassifier{reply: validReply})

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{"auto_respond": true})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTriageEndpoint(t *testing.T) {
	router := newTestRouter(&stubClassifier{reply: `{
		"is_coordinated_attack": true,
		"attack_narrative": "staged intrusion",
		"kill_chain_stage": "exploitation",
		"consolidated_severity": "high",
		"priority_score": 90,
		"recommended_response": "immediate_action",
		"estimated_blast_radius": "internal network"
	}`})

	rec := postJSON(t, router, "/api/v1/triage", map[string]any{
		"alerts": []map[string]any{{"id": "a1"}, {"id": "a2"}},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result domain.TriageResult
	json.NewDecoder(rec.Body).Decode(&result)

	if !result.IsCoordinatedAttack {
		t.Error("IsCoordinatedAttack = false, want true")
	}
	if result.PriorityScore != 90 {
		t.Errorf("PriorityScore = %d, want 90", result.PriorityScore)
	}
}

func TestTriageEndpointEmptyCluster(t *testing.T) {
	router := newTestRouter(&stubClassifier{})

	rec := postJSON(t, router, "/api/v1/triage", map[string]any{"alerts": []any{}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRespondEndpoint(t *testing.T) {
	router := newTestRouter(&stubClassifier{})

	rec := postJSON(t, router, "/api/v1/respond", map[string]any{
		"assessment": map[string]any{
			"severity":        "high",
			"threat_category": "intrusion",
			"threat_summary":  "SSH brute force",
		},
		"client_config": map[string]any{"client_id": "acme"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result domain.ResponseResult
	json.NewDecoder(rec.Body).Decode(&result)

	if !result.AutoExecuted {
		t.Error("high playbook should auto-execute")
	}
	if len(result.ActionsTaken) != 3 {
		t.Errorf("ActionsTaken = %d, want 3", len(result.ActionsTaken))
	}
}

func TestWeeklyReportEndpoint(t *testing.T) {
	report := "Quiet week: 2 incidents, both contained within minutes."
	router := newTestRouter(&stubClassifier{reply: report})

	rec := postJSON(t, router, "/api/v1/reports/weekly", map[string]any{
		"week_data": map[string]any{"events_processed": 120},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Report    string `json:"report"`
		Delivered bool   `json:"delivered"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	if body.Report != report {
		t.Errorf("report = %q", body.Report)
	}
	if body.Delivered {
		t.Error("delivered = true without a notifier")
	}
}
