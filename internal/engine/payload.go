package engine

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-tms-sync/pkg/interfaces"
)

const (
	payloadTitleKey   = "title"
	payloadFieldsKey  = "fields"
	payloadRelatedKey = "related"
)

// Placeholder tokens like [node:title] must survive translation untouched. The
// payload builder wraps them in markers the TMS treats as non-translatable
// markup; downloads strip the markers back out.
const (
	tokenOpen  = "<tms-token>"
	tokenClose = "</tms-token>"
)

var tokenPattern = regexp.MustCompile(`\[[a-z0-9_-]+:[a-z0-9_:.-]+\]`)

// buildPayload assembles the document sent to the TMS: the item's translatable
// fields plus the fields of every bundled related entity, keyed by entity
// reference so completed translations can be routed back to their owners.
func buildPayload(item *interfaces.ContentItem, bundled []*interfaces.ContentItem) map[string]any {
	payload := map[string]any{
		payloadTitleKey:  item.Title,
		payloadFieldsKey: protectValue(item.Fields),
	}
	if len(bundled) > 0 {
		related := make(map[string]any, len(bundled))
		for _, entry := range bundled {
			related[entry.Ref.String()] = map[string]any{
				payloadTitleKey:  entry.Title,
				payloadFieldsKey: protectValue(entry.Fields),
			}
		}
		payload[payloadRelatedKey] = related
	}
	return payload
}

func protectValue(value any) any {
	switch typed := value.(type) {
	case string:
		return tokenPattern.ReplaceAllStringFunc(typed, func(match string) string {
			return tokenOpen + match + tokenClose
		})
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			out[key] = protectValue(entry)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = protectValue(entry)
		}
		return out
	default:
		return value
	}
}

func unwrapValue(value any) any {
	switch typed := value.(type) {
	case string:
		cleaned := strings.ReplaceAll(typed, tokenOpen, "")
		return strings.ReplaceAll(cleaned, tokenClose, "")
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			out[key] = unwrapValue(entry)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = unwrapValue(entry)
		}
		return out
	default:
		return value
	}
}

// splitTranslation separates the parent's translated fields from the bundled
// related entries so each entity gets its own write-back. The translated title
// travels inside the field map under the title key.
func splitTranslation(content map[string]any) (map[string]any, map[string]map[string]any) {
	fields := map[string]any{}
	if raw, ok := content[payloadFieldsKey].(map[string]any); ok {
		for key, value := range raw {
			fields[key] = unwrapValue(value)
		}
	} else {
		for key, value := range content {
			if key == payloadRelatedKey || key == payloadTitleKey {
				continue
			}
			fields[key] = unwrapValue(value)
		}
	}
	if title, ok := content[payloadTitleKey].(string); ok && title != "" {
		if _, exists := fields[payloadTitleKey]; !exists {
			fields[payloadTitleKey] = unwrapValue(title)
		}
	}

	related := map[string]map[string]any{}
	if raw, ok := content[payloadRelatedKey].(map[string]any); ok {
		for key, entry := range raw {
			nested, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			relatedFields, _ := splitTranslation(nested)
			related[key] = relatedFields
		}
	}
	return fields, related
}

// parseRefKey reverses EntityRef.String for related payload keys.
func parseRefKey(key string) (interfaces.EntityRef, bool) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return interfaces.EntityRef{}, false
	}
	return interfaces.EntityRef{Type: parts[0], ID: parts[1]}, true
}
