package identifiers

import (
	"bytes"
	"encoding/json"
)

// Value is a JSON body field that remembers whether the key was present.
// Numbers are kept as json.Number so large ids survive decoding.
type Value struct {
	Set bool
	Raw any
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.Set = true
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(&v.Raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// IsNull reports an explicit JSON null (or blank string).
func (v Value) IsNull() bool {
	if !v.Set {
		return false
	}
	if v.Raw == nil {
		return true
	}
	s, ok := v.Raw.(string)
	return ok && len(bytes.TrimSpace([]byte(s))) == 0
}

func (v Value) ID() (int64, bool, error) {
	if !v.Set {
		return 0, false, nil
	}
	return ParseID(v.Raw)
}

// IDs parses a list field, permissively unless strict is set.
func (v Value) IDs(strict bool) ([]int64, error) {
	if strict {
		return ParseIDListStrict(v.Raw)
	}
	return ParseIDList(v.Raw), nil
}

func (v Value) Text() (string, bool, error) {
	if !v.Set {
		return "", false, nil
	}
	return Text(v.Raw)
}
