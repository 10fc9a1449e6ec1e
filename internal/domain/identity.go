package domain

// Identity is the read-only projection of a valid credential token. It is
// always derived from the token and never stored on its own.
type Identity struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}
