package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is a string list stored as a JSON array in a text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("tags: unsupported type %T", src)
	}
	if len(data) == 0 {
		*t = Tags{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(t))
}
