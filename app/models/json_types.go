package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// jsonValue renders v for a JSONB parameter. lib/pq would send a []byte as bytea, so the text form is used.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSON column type")
	}
}

// RawJSON holds an opaque JSON document owned by another feature (workout arrays).
type RawJSON json.RawMessage

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("[]"), nil
	}
	return r, nil
}

func (r *RawJSON) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	return string(r), nil
}

func (r *RawJSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawJSON(v)
	default:
		return errors.New("unsupported JSON column type")
	}
	return nil
}
