package domain

import "strings"

// Role is the access profile carried in the credential token.
type Role string

const (
	RoleAdministrador Role = "administrador"
	RoleDiretor       Role = "diretor"
	RoleIDT           Role = "idt"
	RoleFinanceiro    Role = "financeiro"
	RoleRH            Role = "rh"
	RoleOperacao      Role = "operacao"
)

// AllRoles lists the closed set of roles, highest level first.
var AllRoles = []Role{
	RoleAdministrador,
	RoleDiretor,
	RoleIDT,
	RoleFinanceiro,
	RoleRH,
	RoleOperacao,
}

var roleLevels = map[Role]int{
	RoleAdministrador: 5,
	RoleDiretor:       4,
	RoleIDT:           3,
	RoleFinanceiro:    3,
	RoleRH:            3,
	RoleOperacao:      2,
}

// Level returns the hierarchy level of the role; unknown roles are 0.
func (r Role) Level() int {
	return roleLevels[r]
}

// Known reports whether r belongs to the closed role set.
func (r Role) Known() bool {
	_, ok := roleLevels[r]
	return ok
}

// DisplayName renders the role the way the screens label it.
func (r Role) DisplayName() string {
	if r == RoleIDT {
		return "ID&T"
	}
	if r == "" {
		return "N/A"
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseRole normalizes user input into a Role.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// AssignableRoles keeps the candidates an actor may grant: roles at or below
// the actor's own level.
func AssignableRoles(actor Role, candidates []Role) []Role {
	level := actor.Level()
	out := make([]Role, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Level() <= level {
			out = append(out, candidate)
		}
	}
	return out
}

// ContainsRole is a membership check over an allow-list.
func ContainsRole(allowed []Role, role Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
