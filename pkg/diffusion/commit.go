// Package diffusion models repository commits and their audit requests, and
// provides the auditors search attachment.
package diffusion

import (
	"errors"
	"time"

	"github.com/goliatone/go-formkit/pkg/phid"
	"github.com/goliatone/go-formkit/pkg/search"
)

// ErrAuditsNotAttached is returned when audit requests are read from a commit
// loaded without them.
var ErrAuditsNotAttached = errors.New("diffusion: audit requests not attached")

// AuditStatus is the state of a single audit request.
type AuditStatus string

const (
	AuditStatusNone     AuditStatus = "none"
	AuditStatusAudited  AuditStatus = "audited"
	AuditStatusConcern  AuditStatus = "concern"
	AuditStatusAccepted AuditStatus = "accepted"
	AuditStatusResigned AuditStatus = "resigned"
)

// AuditRequest links an auditor to a commit.
type AuditRequest struct {
	CommitPHID  phid.PHID
	AuditorPHID phid.PHID
	Status      AuditStatus
}

// Commit is a repository commit.
type Commit struct {
	PHID       phid.PHID
	Identifier string
	Summary    string
	Message    string
	Author     phid.PHID
	Committed  time.Time

	audits         []AuditRequest
	auditsAttached bool
}

// AttachAudits records the loaded audit requests on the commit.
func (c *Commit) AttachAudits(audits []AuditRequest) {
	c.audits = append([]AuditRequest(nil), audits...)
	c.auditsAttached = true
}

// Audits returns the attached audit requests.
func (c *Commit) Audits() ([]AuditRequest, error) {
	if !c.auditsAttached {
		return nil, ErrAuditsNotAttached
	}
	return append([]AuditRequest(nil), c.audits...), nil
}

// SearchDocument converts the commit into a document for a search engine.
func (c *Commit) SearchDocument() search.Document {
	return search.Document{
		PHID:     c.PHID,
		Type:     phid.TypeCommit,
		Title:    c.Summary,
		Body:     c.Message,
		Author:   c.Author,
		Created:  c.Committed,
		Modified: c.Committed,
	}
}
