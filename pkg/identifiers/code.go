package identifiers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCodeLength matches the width of the code columns.
const MaxCodeLength = 64

// NormalizeCode canonicalises a numeric code so that numerically equal codes
// ("0100", "100", "100.0", "1e2") compare equal. Blank input yields nil.
// Input and canonical form are both limited to MaxCodeLength characters; the
// exponent is checked before expansion so "1e10000000" fails fast.
func NormalizeCode(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if len(s) > MaxCodeLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidCode, MaxCodeLength)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	if exp := d.Exponent(); exp > MaxCodeLength || exp < -MaxCodeLength {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidCode, s)
	}
	canonical := d.String()
	if len(canonical) > MaxCodeLength {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidCode, s)
	}
	return &canonical, nil
}

// Text renders a scalar JSON value as text. Numbers keep their literal form.
func Text(v any) (string, bool, error) {
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	case json.Number:
		return t.String(), true, nil
	case float64:
		return decimal.NewFromFloat(t).String(), true, nil
	case int64:
		return decimal.NewFromInt(t).String(), true, nil
	case int:
		return decimal.NewFromInt(int64(t)).String(), true, nil
	default:
		return "", false, fmt.Errorf("expected text, got %T", v)
	}
}
