package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "commits.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestLoadOperation_Fields(t *testing.T) {
	op, err := LoadOperation(context.Background(), loadFixture(t), "auditCommit")
	if err != nil {
		t.Fatalf("load operation: %v", err)
	}
	if op.Method != "POST" || op.Path != "/commits/{id}/audit" || op.Summary != "Audit a commit" {
		t.Fatalf("unexpected operation: %+v", op)
	}

	want := []Field{
		{Name: "commit_identifier", Label: "Commit identifier", Type: TypeString, ReadOnly: true},
		{Name: "action", Label: "Action", Type: TypeString, Enum: []string{"accept", "concern", "resign"}, Required: true, Order: 1},
		{Name: "comment", Label: "Comment", Description: "Supports <em>remarkup</em>.", Type: TypeString, MaxLength: 4000, Order: 2},
		{Name: "notify_author", Label: "Notify author", Type: TypeBoolean, Default: "true", Order: 3},
		{Name: "reason", Label: "Reason", Type: TypeString, VisibleWhen: `action == "concern"`, Order: 4},
	}
	if diff := cmp.Diff(want, op.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOperations_FallbackID(t *testing.T) {
	ops, err := LoadOperations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("load operations: %v", err)
	}
	op, ok := ops["get:/search"]
	if !ok {
		t.Fatalf("expected fallback id, got keys %v", keys(ops))
	}
	if len(op.Fields) != 0 {
		t.Fatalf("expected no fields for bodyless operation, got %+v", op.Fields)
	}
}

func TestLoadOperation_Errors(t *testing.T) {
	if _, err := LoadOperation(context.Background(), loadFixture(t), "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := LoadOperations(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadOperations(ctx, loadFixture(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"notify_author": "Notify author",
		"commit-id":     "Commit id",
		"title":         "Title",
		"owner.email":   "Owner email",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q): want %q, got %q", in, want, got)
		}
	}
}

func keys(m map[string]Operation) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
