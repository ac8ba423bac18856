package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnstableInput is returned when a value cannot be deterministically
// encoded (e.g. it contains a function or channel), which would make the
// resulting fingerprint meaningless as a cache key.
var ErrUnstableInput = errors.New("fingerprint: unstable input")

// Of computes a stable hex-encoded SHA-256 digest over kind, a zero byte,
// and v encoded as canonical JSON (see canonicalJSON). Every caller goes
// through this one function, so all fingerprints share one encoding.
func Of(kind string, v any) (string, error) {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})

	b, err := canonicalJSON(v)
	if err != nil {
		return "", errors.Wrap(ErrUnstableInput, err.Error())
	}
	h.Write(b)

	return hex.EncodeToString(h.Sum(nil)), nil
}

// canonicalJSON marshals v to JSON, decodes that into a generic value, and
// re-encodes it with every object's keys sorted, so struct fields and map
// entries alike come out in key order rather than declaration or
// insertion order.
func canonicalJSON(v any) ([]byte, error) {
	var generic any
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &generic); err != nil {
		// Not a JSON round-trippable value (e.g. it contains a function);
		// fall back to the direct marshal, which will itself error if the
		// value truly cannot be encoded.
		return b, nil
	}
	return marshalSorted(generic)
}

// marshalSorted re-encodes a generic decoded JSON value with object keys
// sorted, so that two maps built in different iteration orders hash
// identically.
func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil

	case []any:
		buf := []byte{'['}
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			ib, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ib...)
		}
		buf = append(buf, ']')
		return buf, nil

	default:
		return json.Marshal(val)
	}
}
