package diffusion

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-formkit/pkg/phid"
)

// Store holds commits and audit requests in memory.
type Store struct {
	mu      sync.RWMutex
	commits map[phid.PHID]Commit
	audits  map[phid.PHID][]AuditRequest
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		commits: make(map[phid.PHID]Commit),
		audits:  make(map[phid.PHID][]AuditRequest),
	}
}

// PutCommit inserts or replaces a commit.
func (s *Store) PutCommit(commit Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	commit.audits = nil
	commit.auditsAttached = false
	s.commits[commit.PHID] = commit
}

// AddAudit records an audit request for its commit.
func (s *Store) AddAudit(audit AuditRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[audit.CommitPHID] = append(s.audits[audit.CommitPHID], audit)
}

// CommitQuery loads commits from a Store.
type CommitQuery struct {
	store             *Store
	phids             []phid.PHID
	needAuditRequests bool
}

// NewCommitQuery returns a query over store.
func NewCommitQuery(store *Store) *CommitQuery {
	return &CommitQuery{store: store}
}

// WithPHIDs restricts results to the given commits.
func (q *CommitQuery) WithPHIDs(phids ...phid.PHID) *CommitQuery {
	q.phids = append(q.phids, phids...)
	return q
}

// NeedAuditRequests asks the query to attach audit requests to each commit.
func (q *CommitQuery) NeedAuditRequests(need bool) {
	q.needAuditRequests = need
}

// NeedsAuditRequests reports whether audit requests will be attached.
func (q *CommitQuery) NeedsAuditRequests() bool { return q.needAuditRequests }

// Execute returns matching commits ordered by commit time, newest first.
func (q *CommitQuery) Execute(ctx context.Context) ([]*Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	var wanted map[phid.PHID]struct{}
	if len(q.phids) > 0 {
		wanted = make(map[phid.PHID]struct{}, len(q.phids))
		for _, id := range q.phids {
			wanted[id] = struct{}{}
		}
	}

	out := make([]*Commit, 0, len(q.store.commits))
	for id, stored := range q.store.commits {
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		commit := stored
		if q.needAuditRequests {
			commit.AttachAudits(q.store.audits[id])
		}
		out = append(out, &commit)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Committed.Equal(out[j].Committed) {
			return out[i].PHID < out[j].PHID
		}
		return out[i].Committed.After(out[j].Committed)
	})
	return out, nil
}

// Load adapts Execute to attachment.Loader.
func (q *CommitQuery) Load(ctx context.Context) ([]any, error) {
	commits, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	objects := make([]any, len(commits))
	for i, commit := range commits {
		objects[i] = commit
	}
	return objects, nil
}
