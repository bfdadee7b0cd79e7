package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	domain "user-crud-service/internal/domain/user"
	"user-crud-service/pkg/apperror"
	"user-crud-service/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var hasher = security.NewBcryptHasher(security.DefaultBcryptCost)

func setupService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	svc := New(mockRepo, hasher, zaptest.NewLogger(t))
	return svc, mockRepo
}

func registerBody() map[string]any {
	return map[string]any{
		"name":     "Test User",
		"age":      float64(25),
		"email":    "test@example.com",
		"password": "Valid@123!",
	}
}

func assertAppError(t *testing.T, err error, status int, code string) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// ==================== REGISTER ====================

func TestRegister_Success(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	oid := primitive.NewObjectID()

	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(u *domain.User) bool {
		// Stored password must be the hash, not the plaintext.
		return u.Name == "Test User" && u.Age == 25 &&
			u.Email == "test@example.com" &&
			u.Password != "Valid@123!" &&
			hasher.Compare(u.Password, "Valid@123!") == nil
	})).Return(oid, nil)

	resp, err := svc.Register(ctx, RegisterRequest{Body: registerBody()})

	require.NoError(t, err)
	assert.Equal(t, oid, resp.User.ID)
	assert.Equal(t, "Test User", resp.User.Name)
	repo.AssertExpectations(t)
}

func TestRegister_AcceptsNumericStringAge(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	body := registerBody()
	body["age"] = "25"

	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Age == 25
	})).Return(primitive.NewObjectID(), nil)

	_, err := svc.Register(ctx, RegisterRequest{Body: body})

	require.NoError(t, err)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	body := registerBody()
	body["email"] = "  Test@Example.COM "

	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "test@example.com"
	})).Return(primitive.NewObjectID(), nil)

	_, err := svc.Register(ctx, RegisterRequest{Body: body})

	require.NoError(t, err)
}

func TestRegister_ExtraFields(t *testing.T) {
	svc, _ := setupService(t)

	body := registerBody()
	body["extraParam"] = "notAllowed"

	_, err := svc.Register(context.Background(), RegisterRequest{Body: body})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_EXTRA_FIELDS")
	assert.Equal(t, "EXTRA FIELDS ARE NOT ALLOWED: extraParam", appErr.Message)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Body: map[string]any{
		"name":     "",
		"age":      "",
		"email":    "",
		"password": "",
	}})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_MISSING_FIELDS")
	assert.Equal(t, "ALL FIELDS NEED TO BE FILLED!", appErr.Message)
}

func TestRegister_InvalidName(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"number value", float64(5)},
		{"contains digits", "Test User 2"},
		{"only digits", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)
			body := registerBody()
			body["name"] = tt.value

			_, err := svc.Register(context.Background(), RegisterRequest{Body: body})

			appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_NAME")
			assert.Equal(t, "ADD FUNCTION: INVALID NAME!", appErr.Message)
		})
	}
}

func TestRegister_InvalidAge(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"non numeric", "abc"},
		{"below range", float64(-5)},
		{"zero", float64(0)},
		{"above range", float64(300)},
		{"fractional", float64(25.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)
			body := registerBody()
			body["age"] = tt.value

			_, err := svc.Register(context.Background(), RegisterRequest{Body: body})

			appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_AGE")
			assert.Equal(t, "ADD FUNCTION: INVALID AGE!", appErr.Message)
		})
	}
}

func TestRegister_EmailInUse(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "test@example.com").Return(&domain.User{
		ID:    primitive.NewObjectID(),
		Email: "test@example.com",
	}, nil)

	_, err := svc.Register(ctx, RegisterRequest{Body: registerBody()})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_EMAIL_IN_USE")
	assert.Equal(t, "EMAIL ALREADY IN USE!", appErr.Message)
}

func TestRegister_InvalidEmailFormatHitsSchema(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	body := registerBody()
	body["email"] = "invalidEmailcom"
	repo.On("FindByEmail", ctx, "invalidemailcom").Return(nil, nil)

	_, err := svc.Register(ctx, RegisterRequest{Body: body})

	var schemaErr *apperror.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Messages, "Please, insert a valid email!")
}

func TestRegister_WeakPasswordHitsSchema(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	body := registerBody()
	body["password"] = "12345678"
	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)

	_, err := svc.Register(ctx, RegisterRequest{Body: body})

	var schemaErr *apperror.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Messages,
		"Password requires at least 8 characters, with at least one upcase, a lowercase and a special character! Oss")
}

func TestRegister_DuplicateKeyPassesThrough(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	// The pre-check can race; the unique index rejects the insert.
	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)
	repo.On("Insert", ctx, mock.Anything).Return(
		primitive.NilObjectID,
		apperror.NewDuplicateKeyError("email", "test@example.com"),
	)

	_, err := svc.Register(ctx, RegisterRequest{Body: registerBody()})

	var dupErr *apperror.DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "email", dupErr.Field)
}

func TestRegister_UnknownInsertErrorCollapses(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, nil)
	repo.On("Insert", ctx, mock.Anything).Return(primitive.NilObjectID, errors.New("DB error"))

	_, err := svc.Register(ctx, RegisterRequest{Body: registerBody()})

	appErr := assertAppError(t, err, http.StatusInternalServerError, "ERR_REGISTER_FAILED")
	assert.Equal(t, "UNEXPECTED ERROR IN REGISTER FUNCTION!", appErr.Message)
	assert.Equal(t, []string{"DB error"}, appErr.Errs)
}

// ==================== LIST ====================

func TestListUsers_Success(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindAll", ctx).Return([]domain.User{
		{ID: primitive.NewObjectID(), Name: "A", Age: 20, Email: "a@example.com", Password: "hash"},
		{ID: primitive.NewObjectID(), Name: "B", Age: 30, Email: "b@example.com", Password: "hash"},
	}, nil)

	resp, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, "a@example.com", resp.Users[0].Email)
}

func TestListUsers_Empty(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindAll", ctx).Return([]domain.User{}, nil)

	resp, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Empty(t, resp.Users)
}

func TestListUsers_Failure(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindAll", ctx).Return(nil, errors.New("DB error"))

	_, err := svc.ListUsers(ctx)

	appErr := assertAppError(t, err, http.StatusInternalServerError, "ERR_CHECKUSER_FAILED")
	assert.Equal(t, "ERROR TO CHECK USERS!", appErr.Message)
}

// ==================== UPDATE ====================

func storedUser(t *testing.T) *domain.User {
	t.Helper()
	hashed, err := hasher.Hash("Valid@123!")
	require.NoError(t, err)
	return &domain.User{
		ID:       primitive.NewObjectID(),
		Name:     "Test User",
		Age:      25,
		Email:    "test@example.com",
		Password: hashed,
	}
}

func TestUpdateUser_InvalidID(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.UpdateUser(context.Background(), UpdateRequest{
		ID:   "not-an-object-id",
		Body: map[string]any{"name": "New Name"},
	})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_ID")
	assert.Equal(t, "UPDATE FUNCTION: INVALID USER ID FORMAT!", appErr.Message)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	oid := primitive.NewObjectID()

	repo.On("FindByID", ctx, oid).Return(nil, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   oid.Hex(),
		Body: map[string]any{"name": "New Name"},
	})

	appErr := assertAppError(t, err, http.StatusNotFound, "ERR_USER_NOT_FOUND")
	assert.Equal(t, "USER NOT FOUND!", appErr.Message)
}

func TestUpdateUser_ExtraFields(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"name": "New Name", "extraParam": "x"},
	})

	assertAppError(t, err, http.StatusBadRequest, "ERR_EXTRA_FIELDS")
}

func TestUpdateUser_NoFields(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{ID: cur.ID.Hex(), Body: map[string]any{}})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_NO_FIELDS_TO_UPDATE")
	assert.Equal(t, "AT LEAST ONE FIELD NEED TO BE FILLED!", appErr.Message)
}

func TestUpdateUser_InvalidName(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"name": "Name 99"},
	})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_NAME")
	assert.Equal(t, "UPDATE FUNCTION: INVALID NAME!", appErr.Message)
}

func TestUpdateUser_InvalidAge(t *testing.T) {
	for _, v := range []any{"", "abc", float64(0), float64(101), float64(3.7)} {
		svc, repo := setupService(t)
		ctx := context.Background()
		cur := storedUser(t)

		repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

		err := svc.UpdateUser(ctx, UpdateRequest{
			ID:   cur.ID.Hex(),
			Body: map[string]any{"age": v},
		})

		appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_AGE")
		assert.Equal(t, "UPDATE FUNCTION: INVALID AGE!", appErr.Message)
	}
}

func TestUpdateUser_EmailInUseByOther(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)
	repo.On("FindByEmail", ctx, "taken@example.com").Return(&domain.User{
		ID:    primitive.NewObjectID(),
		Email: "taken@example.com",
	}, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"email": "taken@example.com"},
	})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_EMAIL_IN_USE")
	assert.Equal(t, "EMAIL IS ALREADY IN USE!", appErr.Message)
}

func TestUpdateUser_SamePasswordIsNoOp(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"password": "Valid@123!"},
	})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_NO_CHANGES")
	assert.Equal(t, "ANYTHING HAS CHANGED!", appErr.Message)
}

func TestUpdateUser_WeakNewPassword(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"password": "weakpass"},
	})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_PASSWORD")
	assert.Equal(t, "UPDATE FUNCTION: INVALID PASSWORD!", appErr.Message)
}

func TestUpdateUser_IdenticalBodyYieldsNoChanges(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID: cur.ID.Hex(),
		Body: map[string]any{
			"name":     "Test User",
			"age":      float64(25),
			"email":    "test@example.com",
			"password": "Valid@123!",
		},
	})

	assertAppError(t, err, http.StatusBadRequest, "ERR_NO_CHANGES")
}

func TestUpdateUser_Success(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == cur.ID && u.Name == "New Name" && u.Age == 30
	})).Return(nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"name": "New Name", "age": "30"},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateUser_PasswordChangeRehashes(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return hasher.Compare(u.Password, "NewValid@456!") == nil
	})).Return(nil)

	err := svc.UpdateUser(ctx, UpdateRequest{
		ID:   cur.ID.Hex(),
		Body: map[string]any{"password": "NewValid@456!"},
	})

	require.NoError(t, err)
}

// ==================== DELETE ====================

func TestDeleteUser_InvalidID(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.DeleteUser(context.Background(), DeleteRequest{ID: "nope"})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_ID")
	assert.Equal(t, "DELETE FUNCTION: INVALID USER ID FORMAT!", appErr.Message)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	oid := primitive.NewObjectID()

	repo.On("FindByID", ctx, oid).Return(nil, nil)

	err := svc.DeleteUser(ctx, DeleteRequest{ID: oid.Hex()})

	appErr := assertAppError(t, err, http.StatusNotFound, "ERR_USER_NOT_FOUND")
	assert.Equal(t, "USER NOT FOUND!", appErr.Message)
}

func TestDeleteUser_Success(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)
	repo.On("Delete", ctx, cur.ID).Return(nil)

	require.NoError(t, svc.DeleteUser(ctx, DeleteRequest{ID: cur.ID.Hex()}))
	repo.AssertExpectations(t)
}

func TestDeleteUser_Failure(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	cur := storedUser(t)

	repo.On("FindByID", ctx, cur.ID).Return(cur, nil)
	repo.On("Delete", ctx, cur.ID).Return(errors.New("DB error"))

	err := svc.DeleteUser(ctx, DeleteRequest{ID: cur.ID.Hex()})

	assertAppError(t, err, http.StatusInternalServerError, "ERR_DELETE_FAILED")
}

// ==================== CHECK EMAIL ====================

func TestCheckEmail_InvalidFormat(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CheckEmail(context.Background(), CheckEmailRequest{Email: "notanemail"})

	appErr := assertAppError(t, err, http.StatusBadRequest, "ERR_INVALID_EMAIL")
	assert.Equal(t, "EMAIL IS INVALID!", appErr.Message)
}

func TestCheckEmail_Exists(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "test@example.com").Return(&domain.User{
		Email: "test@example.com",
	}, nil)

	resp, err := svc.CheckEmail(ctx, CheckEmailRequest{Email: " TEST@example.com "})

	require.NoError(t, err)
	assert.True(t, resp.Exists)
	assert.Equal(t, "test@example.com", resp.Email)
}

func TestCheckEmail_Available(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "free@example.com").Return(nil, nil)

	resp, err := svc.CheckEmail(ctx, CheckEmailRequest{Email: "free@example.com"})

	require.NoError(t, err)
	assert.False(t, resp.Exists)
}

func TestCheckEmail_Failure(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "test@example.com").Return(nil, errors.New("DB error"))

	_, err := svc.CheckEmail(ctx, CheckEmailRequest{Email: "test@example.com"})

	appErr := assertAppError(t, err, http.StatusInternalServerError, "ERR_EMAIL_CHECK_FAILED")
	assert.Equal(t, "ERROR TO CHECK EMAIL!", appErr.Message)
}
