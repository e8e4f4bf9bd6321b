package thinkctx

import (
	"errors"
	"fmt"
)

// Role identifies who produced a message.
//
// Manager.Append accepts any Role value, including ones outside the
// constants below; unknown roles are stored as-is and skip the
// user/tool handling. Hosts that want a closed set validate with
// ParseRole before appending.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// ErrUnknownRole is returned by ParseRole for strings outside the known set.
var ErrUnknownRole = errors.New("unknown role")

// Known reports whether r is one of the predefined roles.
func (r Role) Known() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool, RoleSystem:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts s to a Role, rejecting unrecognized values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Known() {
		return "", fmt.Errorf("%w: %q (expected one of: user, assistant, tool, system)", ErrUnknownRole, s)
	}
	return r, nil
}
