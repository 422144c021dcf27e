package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Built-in control kinds resolved by the registry.
const (
	KindText     = "text"
	KindPassword = "password"
	KindTextArea = "textarea"
	KindCheckbox = "checkbox"
	KindSelect   = "select"
	KindStatic   = "static"
)

// longTextThreshold is the maxLength above which strings get a textarea.
const longTextThreshold = 255

// Matcher decides whether a control kind should handle the supplied field.
type Matcher func(field schema.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects control kinds for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a kind.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control kind for a field. An explicit Widget on the
// field is honoured before matcher evaluation.
func (r *Registry) Resolve(field schema.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveOrDefault returns the resolved kind or KindText.
func (r *Registry) ResolveOrDefault(field schema.Field) string {
	if kind, ok := r.Resolve(field); ok {
		return kind
	}
	return KindText
}

func (r *Registry) registerBuiltins() {
	r.Register(KindStatic, 100, func(field schema.Field) bool {
		return field.ReadOnly
	})

	r.Register(KindCheckbox, 90, func(field schema.Field) bool {
		return field.Type == schema.TypeBoolean
	})

	r.Register(KindSelect, 70, func(field schema.Field) bool {
		if field.Type == schema.TypeArray || field.Type == schema.TypeObject {
			return false
		}
		return len(field.Enum) > 0
	})

	r.Register(KindPassword, 60, func(field schema.Field) bool {
		return field.Type == schema.TypeString && strings.EqualFold(strings.TrimSpace(field.Format), "password")
	})

	r.Register(KindTextArea, 50, func(field schema.Field) bool {
		if field.Type != schema.TypeString {
			return false
		}
		format := strings.ToLower(strings.TrimSpace(field.Format))
		return format == "textarea" || format == "markdown" || field.MaxLength > longTextThreshold
	})
}
