package registry

import (
	"testing"

	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

func TestRegistry_Lifecycle(t *testing.T) {
	reg := New()
	reg.Create("run-1", api.RunRequest{Category: "shoes", Market: "Global"})

	resp, ok := reg.Status("run-1")
	if !ok {
		t.Fatal("expected run-1 to exist")
	}
	if resp.Status != api.RunStateRunning {
		t.Errorf("status = %s, want running", resp.Status)
	}
	if len(resp.Logs) != 1 || resp.Logs[0] != "discovery: queued" {
		t.Errorf("unexpected initial logs: %v", resp.Logs)
	}

	reg.AppendLog("run-1", "discovery: start category=shoes")
	reg.Complete("run-1", &api.RunResult{NotebookID: "notebook:abc"})

	resp, _ = reg.Status("run-1")
	if resp.Status != api.RunStateCompleted {
		t.Errorf("status = %s, want completed", resp.Status)
	}
	if resp.Result == nil || resp.Result.NotebookID != "notebook:abc" {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
	if len(resp.Logs) != 2 {
		t.Errorf("expected 2 log lines, got %d", len(resp.Logs))
	}
}

func TestRegistry_TerminalStateIsFinal(t *testing.T) {
	reg := New()
	reg.Create("run-1", api.RunRequest{Category: "shoes"})
	reg.Fail("run-1", "no products found")

	// A late completion must not overwrite the failure.
	reg.Complete("run-1", &api.RunResult{})

	resp, _ := reg.Status("run-1")
	if resp.Status != api.RunStateFailed {
		t.Errorf("status = %s, want failed", resp.Status)
	}
	if resp.Error != "no products found" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestRegistry_UnknownRun(t *testing.T) {
	reg := New()

	if _, ok := reg.Status("missing"); ok {
		t.Error("expected unknown run to report not found")
	}
	if logs := reg.Logs("missing"); logs != nil {
		t.Errorf("expected nil logs for unknown run, got %v", logs)
	}

	// Appends to unknown runs are dropped, not created.
	reg.AppendLog("missing", "orphan line")
	if _, ok := reg.Status("missing"); ok {
		t.Error("append must not create a run")
	}
}

func TestRegistry_ListNewestFirst(t *testing.T) {
	reg := New()
	reg.Create("run-1", api.RunRequest{Category: "shoes"})
	reg.Create("run-2", api.RunRequest{Category: "bags"})
	reg.Create("run-3", api.RunRequest{Category: "hats"})

	summaries := reg.List(2)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].RunID != "run-3" || summaries[1].RunID != "run-2" {
		t.Errorf("unexpected order: %v", summaries)
	}
}

func TestRegistry_ListLimitBeyondSize(t *testing.T) {
	reg := New()
	reg.Create("run-1", api.RunRequest{Category: "shoes"})

	summaries := reg.List(1 << 55)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	if got := reg.List(-1); len(got) != 0 {
		t.Errorf("expected no summaries for negative limit, got %d", len(got))
	}
}

func TestRegistry_Active(t *testing.T) {
	reg := New()
	reg.Create("run-1", api.RunRequest{Category: "shoes"})
	reg.Create("run-2", api.RunRequest{Category: "bags"})

	if n := reg.Active(); n != 2 {
		t.Errorf("active = %d, want 2", n)
	}

	reg.Complete("run-1", &api.RunResult{})
	reg.Fail("run-2", "boom")

	if n := reg.Active(); n != 0 {
		t.Errorf("active = %d, want 0", n)
	}
}
