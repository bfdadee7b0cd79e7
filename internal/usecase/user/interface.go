package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	UpdateUser(ctx context.Context, in UpdateRequest) error
	DeleteUser(ctx context.Context, in DeleteRequest) error
	CheckEmail(ctx context.Context, in CheckEmailRequest) (*CheckEmailResponse, error)
}
