package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Offline analysis client: reads a JSON log event from a file and submits
// it to a running AutoSOC API, printing the assessment (and the response
// result when -respond is set).

func main() {
	eventFile := flag.String("file", "event.json", "Path to a JSON log event")
	serverAddr := flag.String("server", "http://localhost:8080", "AutoSOC API address")
	clientID := flag.String("client", "default", "Client identifier for the response playbook")
	respond := flag.Bool("respond", false, "Auto-execute the response playbook after analysis")
	flag.Parse()

	raw, err := os.ReadFile(*eventFile)
	if err != nil {
		log.Fatalf("❌ error reading event file: %v", err)
	}

	var event map[string]any
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Fatalf("❌ event file is not valid JSON: %v", err)
	}

	payload, err := json.Marshal(map[string]any{
		"event":        event,
		"auto_respond": *respond,
		"client_config": map[string]any{
			"client_id": *clientID,
		},
	})
	if err != nil {
		log.Fatalf("❌ error building request: %v", err)
	}

	fmt.Printf("🔍 analyzing %s against AutoSOC at %s...\n\n", *eventFile, *serverAddr)

	client := &http.Client{Timeout: 120 * time.Second}
	req, err := http.NewRequest("POST", *serverAddr+"/api/v1/analyze", bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("❌ error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("REST_API_AUTH_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("❌ error connecting to AutoSOC: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("❌ AutoSOC returned status %d", resp.StatusCode)
	}

	var result struct {
		Assessment struct {
			Severity                string   `json:"severity"`
			ThreatCategory          string   `json:"threat_category"`
			Confidence              float64  `json:"confidence"`
			IsThreat                bool     `json:"is_threat"`
			ThreatSummary           string   `json:"threat_summary"`
			RecommendedActions      []string `json:"recommended_actions"`
			Provider                string   `json:"provider"`
			RequiresImmediateAction bool     `json:"requires_immediate_action"`
		} `json:"assessment"`
		Response *struct {
			AutoExecuted bool `json:"auto_executed"`
			ActionsTaken []struct {
				Action string `json:"action"`
				Status string `json:"status"`
			} `json:"actions_taken"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("❌ error decoding response: %v", err)
	}

	a := result.Assessment
	if a.Provider == "fallback" {
		fmt.Println("⚠️  classifier unavailable — conservative fallback assessment:")
	}

	threatMark := "✅ [CLEAN]"
	if a.IsThreat {
		threatMark = "🚨 [THREAT]"
	}
	fmt.Printf("%s severity=%s category=%s confidence=%.2f\n", threatMark, a.Severity, a.ThreatCategory, a.Confidence)
	fmt.Printf("   %s\n", a.ThreatSummary)
	for _, action := range a.RecommendedActions {
		fmt.Printf("   → %s\n", action)
	}

	if result.Response != nil {
		fmt.Println("------------------------------------------------")
		if !result.Response.AutoExecuted {
			fmt.Println("ℹ️  playbook not auto-executed for this severity")
		}
		for _, ar := range result.Response.ActionsTaken {
			fmt.Printf("⚙️  %s: %s\n", ar.Action, ar.Status)
		}
	}

	if a.RequiresImmediateAction {
		os.Exit(1)
	}
	os.Exit(0)
}
