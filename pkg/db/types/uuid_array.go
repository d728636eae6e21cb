package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray maps a postgres uuid[] column. Sqlite stores the same literal as text.
type UUIDArray []uuid.UUID

// Value renders the array literal {a,b,c}.
func (a UUIDArray) Value() (driver.Value, error) {
	ids := make([]string, len(a))
	for i, id := range a {
		ids[i] = id.String()
	}
	return "{" + strings.Join(ids, ",") + "}", nil
}

func (a *UUIDArray) Scan(src any) error {
	var literal string
	switch v := src.(type) {
	case nil:
	case string:
		literal = v
	case []byte:
		literal = string(v)
	default:
		return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
	}

	body := strings.TrimSpace(literal)
	body = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(body, "{"), "}"))
	out := UUIDArray{}
	if body != "" {
		for _, field := range strings.Split(body, ",") {
			id, err := uuid.Parse(strings.Trim(strings.TrimSpace(field), `"`))
			if err != nil {
				return fmt.Errorf("UUIDArray: parse %q: %w", field, err)
			}
			out = append(out, id)
		}
	}
	*a = out
	return nil
}

func (a UUIDArray) Contains(id uuid.UUID) bool {
	return slices.Contains(a, id)
}

// Append adds id unless it is already present. The receiver is not modified.
func (a UUIDArray) Append(id uuid.UUID) UUIDArray {
	if a.Contains(id) {
		return a
	}
	return append(slices.Clone(a), id)
}

// Without drops every occurrence of id and keeps the order of the rest.
func (a UUIDArray) Without(id uuid.UUID) UUIDArray {
	return slices.DeleteFunc(slices.Clone(a), func(existing uuid.UUID) bool { return existing == id })
}
