package roles

import (
	"encoding/json"
	"strings"
)

// Role is a named group of accounts. Permissions are descriptive labels
// shown to administrators; access decisions never read them.
type Role struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Permissions []string `json:"permissions" db:"permissions"`
}

// Input carries the writable fields of a role.
type Input struct {
	Name        string
	Permissions []string
}

// PermissionList decodes either a JSON array of strings or a single
// string, which becomes a one-element list.
type PermissionList []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PermissionList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*p = nil
			return nil
		}
		*p = PermissionList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*p = list
	return nil
}
