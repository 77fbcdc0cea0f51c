package params

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// AnyValue es el marcador de "sin filtro" que usa la UI en los selectores.
const AnyValue = "any"

// Clean devuelve una copia de in sin las claves cuyo valor es nil, un puntero nil,
// la cadena vacía o el marcador "any". No modifica el mapa de entrada.
func Clean(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		v, ok := deref(v)
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && (s == "" || s == AnyValue) {
			continue
		}
		out[k] = v
	}
	return out
}

// deref resuelve punteros y descarta valores indefinidos.
func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

// Values convierte un mapa ya limpio en url.Values. Los slices se unen con comas.
func Values(in map[string]any) url.Values {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vals := make(url.Values, len(in))
	for _, k := range keys {
		vals.Set(k, format(in[k]))
	}
	return vals
}

func format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []string:
		return strings.Join(t, ",")
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = format(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
