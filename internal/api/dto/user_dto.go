package dto

import (
	"time"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// UserFormRequest payload for create and update.
type UserFormRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"telefone"`
	Role     string `json:"role"`
	Active   bool   `json:"status"`
}

// ToForm maps the payload onto the service form.
func (r UserFormRequest) ToForm(id int64) service.UserForm {
	return service.UserForm{
		ID:       id,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Role:     domain.Role(r.Role),
		Active:   r.Active,
	}
}

// UserStatusRequest carries the status the switch currently shows.
type UserStatusRequest struct {
	Current domain.UserStatus `json:"current_status"`
}

// UserResponse is one row of the user list.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Phone     string     `json:"telefone"`
	Role      string     `json:"role"`
	RoleLabel string     `json:"role_label"`
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"data_cadastro"`
}

// UserFormResponse echoes a form after a save attempt.
type UserFormResponse struct {
	Saved   bool            `json:"saved"`
	Message string          `json:"message"`
	Form    UserFormRequest `json:"form"`
}

// RoleOption is one entry of the role picker.
type RoleOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		RoleLabel: u.Role.DisplayName(),
		Status:    string(u.Status),
		Active:    u.Active(),
		CreatedAt: u.CreatedAt,
	}
}

// NewUserFormResponse maps a save result.
func NewUserFormResponse(r service.SaveResult) UserFormResponse {
	return UserFormResponse{
		Saved:   r.Saved,
		Message: r.Message,
		Form: UserFormRequest{
			Username: r.Form.Username,
			Email:    r.Form.Email,
			Phone:    r.Form.Phone,
			Role:     string(r.Form.Role),
			Active:   r.Form.Active,
		},
	}
}

// NewRoleOptions maps roles onto picker entries.
func NewRoleOptions(roles []domain.Role) []RoleOption {
	out := make([]RoleOption, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleOption{Value: string(r), Label: r.DisplayName()})
	}
	return out
}

// NewUserListResponse maps a users screen snapshot.
func NewUserListResponse(s listquery.Snapshot[domain.User]) ListResponse[UserResponse] {
	return newListResponse(s, NewUserResponse)
}
