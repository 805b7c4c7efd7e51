// Package identifiers coerces loosely typed request values into integer ids
// and canonical numeric codes.
package identifiers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID   = errors.New("invalid identifier")
	ErrInvalidList = errors.New("invalid identifier list")
	ErrInvalidCode = errors.New("code must be numeric")
)

// ParseID converts v into an integer id. ok is false when v denotes
// "no selection" (nil, empty or blank string).
func ParseID(v any) (id int64, ok bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		return parseIDString(s)
	case json.Number:
		return parseIDString(t.String())
	case float64:
		return parseIDFloat(t)
	case float32:
		return parseIDFloat(float64(t))
	case int:
		return int64(t), true, nil
	case int32:
		return int64(t), true, nil
	case int64:
		return t, true, nil
	case uint32:
		return int64(t), true, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, false, fmt.Errorf("%w: %d", ErrInvalidID, t)
		}
		return int64(t), true, nil
	default:
		return 0, false, fmt.Errorf("%w: unsupported type %T", ErrInvalidID, v)
	}
}

func parseIDString(s string) (int64, bool, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	if !d.BigInt().IsInt64() {
		return 0, false, fmt.Errorf("%w: %q out of range", ErrInvalidID, s)
	}
	return d.IntPart(), true, nil
}

func parseIDFloat(f float64) (int64, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidID, f)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false, fmt.Errorf("%w: %v out of range", ErrInvalidID, f)
	}
	return int64(f), true, nil
}

// ParseIDList keeps every entry of a list value that parses as an integer id,
// in order and with duplicates. Malformed or empty entries are dropped and a
// value that is not a list yields an empty result.
func ParseIDList(v any) []int64 {
	items, ok := listItems(v)
	if !ok {
		return []int64{}
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		id, present, err := ParseID(item)
		if err != nil || !present {
			continue
		}
		out = append(out, id)
	}
	return out
}

// ParseIDListStrict behaves like ParseIDList but rejects the whole value on
// the first entry that is not an integer id.
func ParseIDListStrict(v any) ([]int64, error) {
	if v == nil {
		return []int64{}, nil
	}
	items, ok := listItems(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidList, v)
	}
	out := make([]int64, 0, len(items))
	for i, item := range items {
		id, present, err := ParseID(item)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidList, i, err)
		}
		if !present {
			return nil, fmt.Errorf("%w: entry %d is empty", ErrInvalidList, i)
		}
		out = append(out, id)
	}
	return out, nil
}

func listItems(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// Unique returns ids without duplicates, keeping first occurrence order.
func Unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
