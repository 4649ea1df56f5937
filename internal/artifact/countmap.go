package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// CountMap is an integer-keyed histogram that serializes as a JSON object
// with decimal string keys in ascending numeric order. Plain Go maps would
// sort keys lexicographically ("10" before "2"), which breaks the artifact
// ordering once counts reach two digits.
type CountMap map[int]int

// MarshalJSON implements json.Marshaler with numeric key ordering.
func (m CountMap) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(k)))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(m[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for the same encoding.
func (m *CountMap) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CountMap, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("count map key %q: %w", k, err)
		}
		out[n] = v
	}
	*m = out
	return nil
}
