package card

import (
	"sort"
	"strings"

	"github.com/emersion/go-vcard"
)

const (
	paramEncoding  = "ENCODING"
	paramValue     = "VALUE"
	paramMediaType = "MEDIATYPE"
	paramLabel     = "LABEL"
)

// splitComponents splits a structured value on sep, honouring backslash
// escapes, and unescapes every component.
func splitComponents(value string, sep byte) []string {
	parts := make([]string, 0, 4)
	var b strings.Builder
	escaped := false
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if escaped {
			b.WriteByte('\\')
			b.WriteByte(ch)
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case sep:
			parts = append(parts, unescape(b.String()))
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	parts = append(parts, unescape(b.String()))
	return parts
}

func unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '\\' || i == len(value)-1 {
			b.WriteByte(ch)
			continue
		}
		i++
		switch value[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// listValues splits a comma separated list and drops blank entries.
func listValues(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	out := make([]string, 0, 2)
	for _, item := range splitComponents(value, ',') {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func component(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

// typesOf collects lower-cased TYPE parameter values. vCard 2.1 bare
// parameters (TEL;HOME;VOICE:...) are treated as types as well.
func typesOf(field *vcard.Field) []string {
	if field == nil || len(field.Params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(field.Params))
	for key := range field.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []string
	seen := map[string]struct{}{}
	add := func(value string) {
		value = strings.ToLower(strings.Trim(strings.TrimSpace(value), `"`))
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	for _, key := range keys {
		values := field.Params[key]
		if strings.EqualFold(key, vcard.ParamType) {
			for _, value := range values {
				for _, item := range strings.Split(value, ",") {
					add(item)
				}
			}
			continue
		}
		if isBareParam(key, values) {
			add(key)
		}
	}
	return out
}

func isBareParam(key string, values []string) bool {
	switch strings.ToUpper(key) {
	case paramValue, "PREF", "LANGUAGE", "ALTID", "PID", paramMediaType, paramEncoding, "CHARSET", paramLabel:
		return false
	}
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func param(field *vcard.Field, key string) string {
	if field == nil {
		return ""
	}
	for k, values := range field.Params {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return strings.Trim(strings.TrimSpace(values[0]), `"`)
		}
	}
	return ""
}
