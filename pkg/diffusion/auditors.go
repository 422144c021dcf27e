package diffusion

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/attachment"
)

// AuditorsAttachmentKey is the key callers use to request auditors.
const AuditorsAttachmentKey = "auditors"

// AuditRequestLoader is implemented by queries that can attach audit
// requests to the commits they load.
type AuditRequestLoader interface {
	NeedAuditRequests(need bool)
}

// AuditorsAttachment adds the list of auditors to each commit.
type AuditorsAttachment struct {
	attachment.Base
}

var _ attachment.Attachment = AuditorsAttachment{}

func (AuditorsAttachment) Key() string { return AuditorsAttachmentKey }

func (AuditorsAttachment) Name() string { return "Diffusion Auditors" }

func (AuditorsAttachment) Description() string { return "Get the auditors for each commit." }

func (AuditorsAttachment) WillLoadAttachmentData(query any, _ attachment.Spec) error {
	loader, ok := query.(AuditRequestLoader)
	if !ok {
		return fmt.Errorf("diffusion: auditors attachment needs a commit query, got %T", query)
	}
	loader.NeedAuditRequests(true)
	return nil
}

func (AuditorsAttachment) AttachmentForObject(object any, _ any, _ attachment.Spec) (map[string]any, error) {
	commit, ok := object.(*Commit)
	if !ok {
		return nil, fmt.Errorf("diffusion: auditors attachment needs *Commit, got %T", object)
	}
	audits, err := commit.Audits()
	if err != nil {
		return nil, err
	}

	list := make([]map[string]any, 0, len(audits))
	for _, audit := range audits {
		list = append(list, map[string]any{
			"auditorPHID": audit.AuditorPHID.String(),
		})
	}
	return map[string]any{
		"auditors": list,
	}, nil
}
