package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const extensionNamespace = "x-formkit"

// ErrOperationNotFound is returned when the requested operation id is absent.
var ErrOperationNotFound = errors.New("schema: operation not found")

// LoadOperation parses an OpenAPI 3 document and extracts the request body
// fields of the operation identified by operationID.
func LoadOperation(ctx context.Context, data []byte, operationID string) (Operation, error) {
	operations, err := LoadOperations(ctx, data)
	if err != nil {
		return Operation{}, err
	}
	op, ok := operations[operationID]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	return op, nil
}

// LoadOperations parses every operation in the document, keyed by operation
// id. Operations without an id are keyed as "method:path".
func LoadOperations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schema: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("schema: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			op := convertOperation(strings.ToUpper(method), path, operation)
			operations[op.ID] = op
		}
	}
	return operations, nil
}

func convertOperation(method, path string, operation *openapi3.Operation) Operation {
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	return Operation{
		ID:      id,
		Method:  method,
		Path:    path,
		Summary: operation.Summary,
		Fields:  requestFields(operation.RequestBody),
	}
}

func requestFields(body *openapi3.RequestBodyRef) []Field {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return objectFields(mt.Schema)
		}
	}
	return nil
}

func objectFields(ref *openapi3.SchemaRef) []Field {
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return nil
	}
	src := ref.Value

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	fields := make([]Field, 0, len(src.Properties))
	for name, property := range src.Properties {
		if property == nil || property.Value == nil {
			continue
		}
		field := convertField(name, property.Value)
		_, field.Required = required[name]
		fields = append(fields, field)
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order == fields[j].Order {
			return fields[i].Name < fields[j].Name
		}
		return fields[i].Order < fields[j].Order
	})
	return fields
}

func convertField(name string, src *openapi3.Schema) Field {
	field := Field{
		Name:        name,
		Label:       src.Title,
		Description: src.Description,
		Type:        firstType(src.Type),
		Format:      src.Format,
		ReadOnly:    src.ReadOnly,
		Default:     stringify(src.Default),
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}
	if src.MaxLength != nil {
		field.MaxLength = int(*src.MaxLength)
	}
	for _, value := range src.Enum {
		field.Enum = append(field.Enum, stringify(value))
	}

	if ext, ok := src.Extensions[extensionNamespace].(map[string]any); ok {
		if widget, ok := ext["widget"].(string); ok {
			field.Widget = strings.TrimSpace(widget)
		}
		if rule, ok := ext["visibleWhen"].(string); ok {
			field.VisibleWhen = strings.TrimSpace(rule)
		}
		if order, ok := ext["order"].(float64); ok {
			field.Order = int(order)
		}
	}
	return field
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func humanize(name string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	words := strings.Fields(replacer.Replace(name))
	for i, word := range words {
		if i == 0 && word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
