package user

import domain "user-crud-service/internal/domain/user"

// RegisterRequest carries the raw JSON body of a registration. The body is
// kept untyped because age may arrive as a number or a numeric string, and
// unknown keys must be detected before any field is interpreted.
type RegisterRequest struct {
	Body map[string]any
}

// RegisterResponse returns the created user without the password.
type RegisterResponse struct {
	User domain.View
}

// ListUsersResponse returns every stored user without passwords.
type ListUsersResponse struct {
	Users []domain.View
}

// UpdateRequest carries the path identifier and the raw partial body.
type UpdateRequest struct {
	ID   string
	Body map[string]any
}

// DeleteRequest identifies the user to remove.
type DeleteRequest struct {
	ID string
}

// CheckEmailRequest carries the raw email path parameter.
type CheckEmailRequest struct {
	Email string
}

// CheckEmailResponse reports whether the normalized email is taken.
type CheckEmailResponse struct {
	Email  string
	Exists bool
}
