package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// StringList is a set of strings persisted as a JSON array column.
// A nil list is stored as NULL.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// Contains reports whether v is in the list.
func (s StringList) Contains(v string) bool {
	return slices.Contains(s, v)
}

// Merge returns s with every element of other not already present appended.
func (s StringList) Merge(other []string) StringList {
	out := slices.Clone(s)
	for _, v := range other {
		if !out.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
