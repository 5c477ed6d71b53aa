package background

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"postguard/pkg/models"
)

func TestInMemoryTaskStoreLifecycle(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	result := &TaskResult{
		ProcessID: "proc-1",
		Type:      TaskTypeAnalyze,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
	}

	if err := store.Store(ctx, result); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := store.Get(ctx, "proc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != TaskStatusAccepted {
		t.Errorf("status = %s", got.Status)
	}

	got.Status = TaskStatusSuccess
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, _ := store.Get(ctx, "proc-1")
	if updated.Status != TaskStatusSuccess {
		t.Errorf("status after update = %s", updated.Status)
	}

	if err := store.Delete(ctx, "proc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "proc-1"); err != ErrTaskNotFound {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestInMemoryTaskStoreUnknownTask(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); err != ErrTaskNotFound {
		t.Errorf("Get unknown: %v", err)
	}
	if err := store.Update(ctx, &TaskResult{ProcessID: "missing"}); err != ErrTaskNotFound {
		t.Errorf("Update unknown: %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != ErrTaskNotFound {
		t.Errorf("Delete unknown: %v", err)
	}
}

func TestAnalyzeTaskDataSerializesFindings(t *testing.T) {
	state := models.NewAnalysisState("posting")
	state.Extraction = &models.ExtractionResult{Requirements: []string{}}
	state.AddFindings(models.SourceEmailDomain, models.MustFinding(
		models.CategoryContact, models.SeverityCritical,
		"free_email_provider", "Contact email uses gmail.com", 0.95))
	if err := state.SetVerdict(62, models.RiskMedium, "explanation", []string{"rec"}); err != nil {
		t.Fatalf("SetVerdict: %v", err)
	}

	result := &TaskResult{
		ProcessID: "proc-2",
		Type:      TaskTypeAnalyze,
		Status:    TaskStatusSuccess,
		CreatedAt: time.Now(),
		Data:      &AnalyzeTaskData{Verdict: state.Verdict()},
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// Findings must survive the trip into task responses and callbacks
	for _, want := range []string{"free_email_provider", "gmail.com", "legitimacy_score", "risk_level"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("serialized task result missing %q: %s", want, body)
		}
	}
}

func TestInMemoryTaskStoreCleanup(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", CreatedAt: time.Now()}
	store.Store(ctx, old)
	store.Store(ctx, fresh)

	if err := store.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := store.Get(ctx, "old"); err != ErrTaskNotFound {
		t.Error("expired task should be removed")
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh task should survive cleanup: %v", err)
	}
}
