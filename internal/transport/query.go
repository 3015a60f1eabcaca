package transport

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Query holds URL query parameters such as filter, limit, offset or
// saveComment. nil, "" and empty slices are omitted when encoding; false
// and 0 are sent since they are meaningful filter values.
type Query map[string]any

// Encode renders the query in key order. Slices become repeated keys.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	vals := url.Values{}
	for k, v := range q {
		for _, s := range queryStrings(v) {
			vals.Add(k, s)
		}
	}
	return vals.Encode()
}

func queryStrings(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	case bool:
		return []string{strconv.FormatBool(x)}
	case json.Number:
		return []string{x.String()}
	case []string:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range x {
			out = append(out, queryStrings(item)...)
		}
		return out
	case fmt.Stringer:
		return queryStrings(x.String())
	default:
		return []string{fmt.Sprint(x)}
	}
}
