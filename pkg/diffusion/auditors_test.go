package diffusion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/attachment"
	"github.com/goliatone/go-formkit/pkg/phid"
)

var (
	commitA  = phid.PHID("PHID-CMIT-aaaaaaaaaaaaaaaaaaaa")
	commitB  = phid.PHID("PHID-CMIT-bbbbbbbbbbbbbbbbbbbb")
	auditor1 = phid.PHID("PHID-USER-11111111111111111111")
	auditor2 = phid.PHID("PHID-USER-22222222222222222222")
)

func seededStore() *Store {
	store := NewStore()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store.PutCommit(Commit{PHID: commitA, Identifier: "abc123", Summary: "first", Committed: base})
	store.PutCommit(Commit{PHID: commitB, Identifier: "def456", Summary: "second", Committed: base.Add(time.Minute)})
	store.AddAudit(AuditRequest{CommitPHID: commitB, AuditorPHID: auditor1, Status: AuditStatusAudited})
	store.AddAudit(AuditRequest{CommitPHID: commitB, AuditorPHID: auditor2, Status: AuditStatusConcern})
	return store
}

func TestAuditorsAttachment_Metadata(t *testing.T) {
	a := AuditorsAttachment{}
	if a.Key() != "auditors" || a.Name() != "Diffusion Auditors" || a.Description() != "Get the auditors for each commit." {
		t.Fatalf("unexpected metadata: %q %q %q", a.Key(), a.Name(), a.Description())
	}
}

func TestAuditorsAttachment_WillLoadRequestsAudits(t *testing.T) {
	query := NewCommitQuery(seededStore())
	if err := (AuditorsAttachment{}).WillLoadAttachmentData(query, nil); err != nil {
		t.Fatalf("will load: %v", err)
	}
	if !query.NeedsAuditRequests() {
		t.Fatalf("expected query to request audits")
	}
	if err := (AuditorsAttachment{}).WillLoadAttachmentData("not a query", nil); err == nil {
		t.Fatalf("expected error for unsupported query")
	}
}

func TestAuditorsAttachment_ForObject(t *testing.T) {
	cases := []struct {
		name   string
		audits []AuditRequest
		want   map[string]any
	}{
		{
			name:   "no audits",
			audits: nil,
			want:   map[string]any{"auditors": []map[string]any{}},
		},
		{
			name: "two audits",
			audits: []AuditRequest{
				{AuditorPHID: auditor1, Status: AuditStatusAccepted},
				{AuditorPHID: auditor2, Status: AuditStatusResigned},
			},
			want: map[string]any{"auditors": []map[string]any{
				{"auditorPHID": auditor1.String()},
				{"auditorPHID": auditor2.String()},
			}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			commit := &Commit{PHID: commitA}
			commit.AttachAudits(tc.audits)

			got, err := (AuditorsAttachment{}).AttachmentForObject(commit, nil, nil)
			if err != nil {
				t.Fatalf("attachment: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("attachment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAuditorsAttachment_RequiresLoadedAudits(t *testing.T) {
	_, err := (AuditorsAttachment{}).AttachmentForObject(&Commit{PHID: commitA}, nil, nil)
	if !errors.Is(err, ErrAuditsNotAttached) {
		t.Fatalf("expected ErrAuditsNotAttached, got %v", err)
	}
}

func TestRegistryApply_Auditors(t *testing.T) {
	registry := attachment.NewRegistry()
	registry.MustRegister(AuditorsAttachment{})

	query := NewCommitQuery(seededStore())
	results, err := registry.Apply(context.Background(), query, query.Load, attachment.Request{
		Attachments: map[string]attachment.Spec{AuditorsAttachmentKey: {}},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0].Object.(*Commit)
	if first.PHID != commitB {
		t.Fatalf("expected newest commit first, got %s", first.PHID)
	}
	auditors := results[0].Attachments[AuditorsAttachmentKey]["auditors"].([]map[string]any)
	if len(auditors) != 2 {
		t.Fatalf("expected 2 auditors, got %v", auditors)
	}
	empty := results[1].Attachments[AuditorsAttachmentKey]["auditors"].([]map[string]any)
	if len(empty) != 0 {
		t.Fatalf("expected no auditors for %s, got %v", commitA, empty)
	}
}

func TestCommitQuery_WithPHIDs(t *testing.T) {
	commits, err := NewCommitQuery(seededStore()).WithPHIDs(commitA).Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(commits) != 1 || commits[0].PHID != commitA {
		t.Fatalf("unexpected commits: %+v", commits)
	}
	if _, err := commits[0].Audits(); !errors.Is(err, ErrAuditsNotAttached) {
		t.Fatalf("audits should not be attached without NeedAuditRequests")
	}
}

func TestCommit_SearchDocument(t *testing.T) {
	commit := Commit{PHID: commitA, Summary: "s", Message: "m", Author: auditor1}
	doc := commit.SearchDocument()
	if doc.PHID != commitA || doc.Type != phid.TypeCommit || doc.Title != "s" || doc.Body != "m" || doc.Author != auditor1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
