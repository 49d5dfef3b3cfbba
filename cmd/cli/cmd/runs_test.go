package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRunsCommand_ListsRuns(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discovery/runs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"runs": []map[string]interface{}{
				{"run_id": "run-2", "category": "bags", "status": "failed", "error": "no products found"},
				{"run_id": "run-1", "category": "shoes", "market": "TH", "status": "completed"},
			},
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"runs"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "run-1") || !strings.Contains(output, "run-2") {
		t.Errorf("expected both runs in output, got: %s", output)
	}
	if !strings.Contains(output, "no products found") {
		t.Errorf("expected failure reason in output, got: %s", output)
	}
	if !strings.Contains(output, "(TH)") {
		t.Errorf("expected market in output, got: %s", output)
	}
}

func TestRunsCommand_Empty(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"runs": []}`))
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"runs"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "No runs found") {
		t.Errorf("expected empty message, got: %s", stdout.String())
	}
}
