// Package attachment lets callers decorate serialized search results with
// extra, derived data on request. Each Attachment declares what it needs from
// the query before objects load and then extracts its payload per object.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknown is returned when a requested attachment key is not registered.
var ErrUnknown = errors.New("attachment: unknown attachment")

// Spec carries per-request attachment options, e.g. {"auditors": true}.
type Spec map[string]any

// Attachment augments serialized objects with additional fields.
type Attachment interface {
	// Key is the identifier callers use to request the attachment.
	Key() string
	Name() string
	Description() string
	// WillLoadAttachmentData runs before the query executes so the attachment
	// can request extra data be loaded alongside the objects.
	WillLoadAttachmentData(query any, spec Spec) error
	// LoadAttachmentData runs once after the objects load and may return shared
	// data passed to every AttachmentForObject call.
	LoadAttachmentData(ctx context.Context, objects []any, spec Spec) (any, error)
	// AttachmentForObject returns the fields merged into the object's
	// "attachments" map under Key.
	AttachmentForObject(object any, data any, spec Spec) (map[string]any, error)
}

// Base provides a no-op LoadAttachmentData for attachments that need no
// shared data.
type Base struct{}

func (Base) LoadAttachmentData(context.Context, []any, Spec) (any, error) {
	return nil, nil
}

// Registry stores attachments by key.
type Registry struct {
	mu          sync.RWMutex
	attachments map[string]Attachment
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{attachments: make(map[string]Attachment)}
}

// Register adds attachment under its Key(). Duplicate keys return an error.
func (r *Registry) Register(attachment Attachment) error {
	if attachment == nil {
		return fmt.Errorf("attachment: attachment is required")
	}
	key := strings.TrimSpace(attachment.Key())
	if key == "" {
		return fmt.Errorf("attachment: attachment key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.attachments[key]; exists {
		return fmt.Errorf("attachment: %q already registered", key)
	}
	r.attachments[key] = attachment
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(attachment Attachment) {
	if err := r.Register(attachment); err != nil {
		panic(err)
	}
}

// Get returns the attachment registered under key.
func (r *Registry) Get(key string) (Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attachment, ok := r.attachments[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, key)
	}
	return attachment, nil
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.attachments))
	for key := range r.attachments {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
