package attachment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/attachment"
)

type countAttachment struct {
	attachment.Base
	prepared *bool
}

func (countAttachment) Key() string { return "count" }

func (countAttachment) Name() string { return "Count" }

func (countAttachment) Description() string { return "Length of each string." }

func (c countAttachment) WillLoadAttachmentData(any, attachment.Spec) error {
	*c.prepared = true
	return nil
}

func (countAttachment) AttachmentForObject(object any, _ any, spec attachment.Spec) (map[string]any, error) {
	out := map[string]any{"length": len(object.(string))}
	if spec["echo"] == true {
		out["value"] = object
	}
	return out, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := attachment.NewRegistry()
	prepared := false
	registry.MustRegister(countAttachment{prepared: &prepared})

	if err := registry.Register(countAttachment{prepared: &prepared}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil attachment error")
	}
	if _, err := registry.Get("missing"); !errors.Is(err, attachment.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if diff := cmp.Diff([]string{"count"}, registry.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Apply(t *testing.T) {
	registry := attachment.NewRegistry()
	prepared := false
	registry.MustRegister(countAttachment{prepared: &prepared})

	loaded := false
	load := func(context.Context) ([]any, error) {
		if !prepared {
			t.Fatalf("load ran before WillLoadAttachmentData")
		}
		loaded = true
		return []any{"ab", "abcd"}, nil
	}

	results, err := registry.Apply(context.Background(), nil, load, attachment.Request{
		Attachments: map[string]attachment.Spec{"count": {"echo": true}},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !loaded {
		t.Fatalf("loader not called")
	}

	want := []attachment.Result{
		{Object: "ab", Attachments: map[string]map[string]any{"count": {"length": 2, "value": "ab"}}},
		{Object: "abcd", Attachments: map[string]map[string]any{"count": {"length": 4, "value": "abcd"}}},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ApplyUnknownKey(t *testing.T) {
	registry := attachment.NewRegistry()
	_, err := registry.Apply(context.Background(), nil, func(context.Context) ([]any, error) {
		t.Fatalf("loader should not run")
		return nil, nil
	}, attachment.Request{Attachments: map[string]attachment.Spec{"nope": nil}})
	if !errors.Is(err, attachment.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}
