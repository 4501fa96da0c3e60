package model

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONB represents a PostgreSQL jsonb column as a generic map
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(JSONB{})
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = make(JSONB)
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}

// Merge returns a copy of j with the entries of other applied on top.
// Existing keys are preserved unless other carries the same key.
func (j JSONB) Merge(other JSONB) JSONB {
	merged := make(JSONB, len(j)+len(other))
	for k, v := range j {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
