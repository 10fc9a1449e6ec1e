package auth

import "github.com/telaviv/ops-dashboard/internal/domain"

// Allow-lists shared by the screens.
var (
	AdminOnly = []domain.Role{domain.RoleAdministrador}

	// FinanceRoles see the cash, profitability and provisioning reports.
	FinanceRoles = []domain.Role{
		domain.RoleAdministrador,
		domain.RoleDiretor,
		domain.RoleIDT,
		domain.RoleFinanceiro,
	}

	// AnyRole is the explicit list of every known role.
	AnyRole = domain.AllRoles
)
