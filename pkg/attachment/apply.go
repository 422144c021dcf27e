package attachment

import (
	"context"
	"fmt"
	"sort"
)

// Loader executes a query and returns the loaded objects.
type Loader func(ctx context.Context) ([]any, error)

// Request selects attachments for a query. Keys map to their Spec.
type Request struct {
	Attachments map[string]Spec
}

// Result pairs a loaded object with its attachment payloads keyed by
// attachment key.
type Result struct {
	Object      any
	Attachments map[string]map[string]any
}

// Apply resolves the requested attachments, lets each prepare query, runs
// load and extracts attachment data for every object. Results keep the order
// returned by load.
func (r *Registry) Apply(ctx context.Context, query any, load Loader, req Request) ([]Result, error) {
	keys := make([]string, 0, len(req.Attachments))
	for key := range req.Attachments {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	selected := make([]Attachment, 0, len(keys))
	for _, key := range keys {
		attachment, err := r.Get(key)
		if err != nil {
			return nil, err
		}
		selected = append(selected, attachment)
	}

	for i, attachment := range selected {
		if err := attachment.WillLoadAttachmentData(query, req.Attachments[keys[i]]); err != nil {
			return nil, fmt.Errorf("attachment: prepare %q: %w", keys[i], err)
		}
	}

	objects, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("attachment: load objects: %w", err)
	}

	shared := make([]any, len(selected))
	for i, attachment := range selected {
		data, err := attachment.LoadAttachmentData(ctx, objects, req.Attachments[keys[i]])
		if err != nil {
			return nil, fmt.Errorf("attachment: load data %q: %w", keys[i], err)
		}
		shared[i] = data
	}

	results := make([]Result, 0, len(objects))
	for _, object := range objects {
		result := Result{Object: object, Attachments: make(map[string]map[string]any, len(selected))}
		for i, attachment := range selected {
			fields, err := attachment.AttachmentForObject(object, shared[i], req.Attachments[keys[i]])
			if err != nil {
				return nil, fmt.Errorf("attachment: extract %q: %w", keys[i], err)
			}
			result.Attachments[keys[i]] = fields
		}
		results = append(results, result)
	}
	return results, nil
}
