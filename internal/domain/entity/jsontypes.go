package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSON-encoded []string column. It keeps the schema
// portable across the supported SQL drivers.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

// PermissionSet is a JSON-encoded list of permission identifiers.
type PermissionSet []PermissionKind

// Value implements driver.Valuer.
func (s PermissionSet) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *PermissionSet) Scan(value any) error {
	return scanJSON(value, s)
}

// Contains reports whether the set holds the given permission.
func (s PermissionSet) Contains(kind PermissionKind) bool {
	for _, p := range s {
		if p == kind {
			return true
		}
	}
	return false
}

// PluginPermissions is a plugin's declared permission sets. Mandatory
// permissions are required for the plugin to function; optional ones are
// offered to the user at acceptance time.
type PluginPermissions struct {
	Mandatory PermissionSet `json:"mandatory"`
	Optional  PermissionSet `json:"optional"`
}

// Declared returns the union of mandatory and optional permissions.
func (p *PluginPermissions) Declared() PermissionSet {
	if p == nil {
		return nil
	}
	out := make(PermissionSet, 0, len(p.Mandatory)+len(p.Optional))
	out = append(out, p.Mandatory...)
	out = append(out, p.Optional...)
	return out
}

// Value implements driver.Valuer.
func (p PluginPermissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *PluginPermissions) Scan(value any) error {
	return scanJSON(value, p)
}

// PluginConfig is an installation's community-scoped operational config.
// It is controlled by community admins, never by the plugin itself.
type PluginConfig struct {
	CanGiveRole     bool     `json:"canGiveRole"`
	GiveableRoleIDs []string `json:"giveableRoleIds"`
}

// AllowsRole reports whether the config permits granting the given role.
func (c *PluginConfig) AllowsRole(roleID string) bool {
	if c == nil || !c.CanGiveRole {
		return false
	}
	for _, id := range c.GiveableRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (c PluginConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *PluginConfig) Scan(value any) error {
	return scanJSON(value, c)
}

func scanJSON(value any, dest any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T for JSON scan", value)
	}
}
