package user

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	"user-crud-service/pkg/apperror"
	"user-crud-service/pkg/validate"
)

// Repository defines the interface for user data access operations. Lookup
// methods return (nil, nil) when no document matches; errors are reserved
// for persistence failures. Insert and Update surface uniqueness violations
// as *apperror.DuplicateKeyError.
type Repository interface {
	Insert(ctx context.Context, u *domain.User) (primitive.ObjectID, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Service implements the business logic for user management. Validation
// runs in a fixed order per operation; the first failure wins and is
// returned as a classified error for the terminal middleware.
type Service struct {
	repo   Repository
	hasher domain.PasswordHasher
	log    *zap.Logger
}

// New creates a Service with the provided repository, password hasher and
// logger.
func New(repo Repository, hasher domain.PasswordHasher, log *zap.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, log: log}
}

// collapse returns err untouched when it already belongs to the error
// taxonomy, and otherwise wraps it into the operation's 500 AppError,
// keeping the original text for diagnostics.
func collapse(err error, message, code string) error {
	if apperror.Classified(err) {
		return err
	}
	return apperror.Wrap(message, http.StatusInternalServerError, "", code, err)
}

// Register creates a new user. Validation order: extra fields, missing
// fields, name, age, email uniqueness; email format and password strength
// are enforced by the entity schema at save time.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	body, extras := validate.Sanitize(in.Body, validate.UserFields...)
	if len(extras) > 0 {
		s.log.Warn("register rejected extra fields", zap.Strings("fields", extras))
		return nil, apperror.New(
			"EXTRA FIELDS ARE NOT ALLOWED: "+strings.Join(extras, ", "),
			http.StatusBadRequest, "", "ERR_EXTRA_FIELDS",
		)
	}

	for _, field := range validate.UserFields {
		if validate.Blank(body[field]) {
			s.log.Warn("register missing field", zap.String("field", field))
			return nil, apperror.New(
				"ALL FIELDS NEED TO BE FILLED!",
				http.StatusBadRequest, field, "ERR_MISSING_FIELDS",
			)
		}
	}

	if !validate.StrictName(body["name"]) {
		return nil, apperror.New(
			"ADD FUNCTION: INVALID NAME!",
			http.StatusBadRequest, "name", "ERR_INVALID_NAME",
		)
	}
	name := body["name"].(string)

	age, ok := validate.Age(body["age"])
	if !ok {
		return nil, apperror.New(
			"ADD FUNCTION: INVALID AGE!",
			http.StatusBadRequest, "age", "ERR_INVALID_AGE",
		)
	}

	email, _ := body["email"].(string)
	email = validate.NormalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("register email lookup failed", zap.String("email", email), zap.Error(err))
		return nil, collapse(err, "UNEXPECTED ERROR IN REGISTER FUNCTION!", "ERR_REGISTER_FAILED")
	}
	if existing != nil {
		s.log.Warn("register email in use", zap.String("email", email))
		return nil, apperror.New(
			"EMAIL ALREADY IN USE!",
			http.StatusBadRequest, "email", "ERR_EMAIL_IN_USE",
		)
	}

	password, _ := body["password"].(string)
	u := &domain.User{
		Name:     name,
		Age:      age,
		Email:    email,
		Password: password,
	}

	// Schema rules judge the plaintext; hash only after they pass.
	if err := u.Validate(); err != nil {
		s.log.Warn("register schema validation failed", zap.Error(err))
		return nil, err
	}
	if err := u.HashPassword(s.hasher); err != nil {
		s.log.Error("register password hashing failed", zap.Error(err))
		return nil, collapse(err, "UNEXPECTED ERROR IN REGISTER FUNCTION!", "ERR_REGISTER_FAILED")
	}

	id, err := s.repo.Insert(ctx, u)
	if err != nil {
		// A concurrent registration can slip past the pre-check; the unique
		// index rejects it and the duplicate-key error passes through here.
		s.log.Error("register insert failed", zap.String("email", email), zap.Error(err))
		return nil, collapse(err, "UNEXPECTED ERROR IN REGISTER FUNCTION!", "ERR_REGISTER_FAILED")
	}
	u.ID = id

	s.log.Info("user registered", zap.String("id", id.Hex()), zap.String("email", email))
	return &RegisterResponse{User: u.AsView()}, nil
}

// ListUsers retrieves all users without their passwords.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("list users failed", zap.Error(err))
		return nil, collapse(err, "ERROR TO CHECK USERS!", "ERR_CHECKUSER_FAILED")
	}

	views := make([]domain.View, len(users))
	for i := range users {
		views[i] = users[i].AsView()
	}

	s.log.Info("users listed", zap.Int("count", len(views)))
	return &ListUsersResponse{Users: views}, nil
}

// UpdateUser applies a partial update. Order: id format, existence, extra
// fields, empty body, per-field rules, uniqueness of a changed email, and
// finally the no-op check.
func (s *Service) UpdateUser(ctx context.Context, in UpdateRequest) error {
	oid, err := primitive.ObjectIDFromHex(in.ID)
	if err != nil {
		s.log.Warn("update invalid id", zap.String("id", in.ID))
		return apperror.New(
			"UPDATE FUNCTION: INVALID USER ID FORMAT!",
			http.StatusBadRequest, "id", "ERR_INVALID_ID",
		)
	}

	current, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		s.log.Error("update lookup failed", zap.String("id", in.ID), zap.Error(err))
		return collapse(err, "UNEXPECTED ERROR IN UPDATE FUNCTION!", "ERR_UPDATE_FAILED")
	}
	if current == nil {
		s.log.Warn("update user not found", zap.String("id", in.ID))
		return apperror.New(
			"USER NOT FOUND!",
			http.StatusNotFound, "id", "ERR_USER_NOT_FOUND",
		)
	}

	body, extras := validate.Sanitize(in.Body, validate.UserFields...)
	if len(extras) > 0 {
		s.log.Warn("update rejected extra fields", zap.Strings("fields", extras))
		return apperror.New(
			"EXTRA FIELDS ARE NOT ALLOWED: "+strings.Join(extras, ", "),
			http.StatusBadRequest, "", "ERR_EXTRA_FIELDS",
		)
	}
	if len(body) == 0 {
		return apperror.New(
			"AT LEAST ONE FIELD NEED TO BE FILLED!",
			http.StatusBadRequest, "", "ERR_NO_FIELDS_TO_UPDATE",
		)
	}

	changed := false

	if v, ok := body["name"]; ok {
		if !validate.StrictName(v) {
			return apperror.New(
				"UPDATE FUNCTION: INVALID NAME!",
				http.StatusBadRequest, "name", "ERR_INVALID_NAME",
			)
		}
		if name := v.(string); name != current.Name {
			current.Name = name
			changed = true
		}
	}

	if v, ok := body["age"]; ok {
		age, valid := validate.Age(v)
		if !valid {
			return apperror.New(
				"UPDATE FUNCTION: INVALID AGE!",
				http.StatusBadRequest, "age", "ERR_INVALID_AGE",
			)
		}
		if age != current.Age {
			current.Age = age
			changed = true
		}
	}

	if v, ok := body["email"]; ok {
		raw, isString := v.(string)
		if !isString {
			return apperror.New(
				"UPDATE FUNCTION: INVALID EMAIL!",
				http.StatusBadRequest, "email", "ERR_INVALID_EMAIL",
			)
		}
		// Format is not re-validated here; normalization only.
		email := validate.NormalizeEmail(raw)
		if email != current.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			if err != nil {
				s.log.Error("update email lookup failed", zap.String("email", email), zap.Error(err))
				return collapse(err, "UNEXPECTED ERROR IN UPDATE FUNCTION!", "ERR_UPDATE_FAILED")
			}
			if other != nil && other.ID != current.ID {
				s.log.Warn("update email in use", zap.String("email", email))
				return apperror.New(
					"EMAIL IS ALREADY IN USE!",
					http.StatusBadRequest, "email", "ERR_EMAIL_IN_USE",
				)
			}
			current.Email = email
			changed = true
		}
	}

	if v, ok := body["password"]; ok {
		plain, isString := v.(string)
		if !isString {
			return apperror.New(
				"UPDATE FUNCTION: INVALID PASSWORD!",
				http.StatusBadRequest, "password", "ERR_INVALID_PASSWORD",
			)
		}
		// Same plaintext as the stored hash is a no-op, not a change.
		if s.hasher.Compare(current.Password, plain) != nil {
			if !validate.Password(plain) {
				return apperror.New(
					"UPDATE FUNCTION: INVALID PASSWORD!",
					http.StatusBadRequest, "password", "ERR_INVALID_PASSWORD",
				)
			}
			hashed, err := s.hasher.Hash(plain)
			if err != nil {
				s.log.Error("update password hashing failed", zap.Error(err))
				return collapse(err, "UNEXPECTED ERROR IN UPDATE FUNCTION!", "ERR_UPDATE_FAILED")
			}
			current.Password = hashed
			changed = true
		}
	}

	if !changed {
		s.log.Warn("update without changes", zap.String("id", in.ID))
		return apperror.New(
			"ANYTHING HAS CHANGED!",
			http.StatusBadRequest, "", "ERR_NO_CHANGES",
		)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		s.log.Error("update persist failed", zap.String("id", in.ID), zap.Error(err))
		return collapse(err, "UNEXPECTED ERROR IN UPDATE FUNCTION!", "ERR_UPDATE_FAILED")
	}

	s.log.Info("user updated", zap.String("id", in.ID))
	return nil
}

// DeleteUser removes a user after id-format and existence checks.
func (s *Service) DeleteUser(ctx context.Context, in DeleteRequest) error {
	oid, err := primitive.ObjectIDFromHex(in.ID)
	if err != nil {
		s.log.Warn("delete invalid id", zap.String("id", in.ID))
		return apperror.New(
			"DELETE FUNCTION: INVALID USER ID FORMAT!",
			http.StatusBadRequest, "id", "ERR_INVALID_ID",
		)
	}

	current, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		s.log.Error("delete lookup failed", zap.String("id", in.ID), zap.Error(err))
		return collapse(err, "UNEXPECTED ERROR IN DELETE FUNCTION!", "ERR_DELETE_FAILED")
	}
	if current == nil {
		s.log.Warn("delete user not found", zap.String("id", in.ID))
		return apperror.New(
			"USER NOT FOUND!",
			http.StatusNotFound, "id", "ERR_USER_NOT_FOUND",
		)
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		s.log.Error("delete failed", zap.String("id", in.ID), zap.Error(err))
		return collapse(err, "UNEXPECTED ERROR IN DELETE FUNCTION!", "ERR_DELETE_FAILED")
	}

	s.log.Info("user deleted", zap.String("id", in.ID))
	return nil
}

// CheckEmail reports whether a normalized email is already registered. The
// format check here is deliberately looser than the registration pattern.
func (s *Service) CheckEmail(ctx context.Context, in CheckEmailRequest) (*CheckEmailResponse, error) {
	email := validate.NormalizeEmail(in.Email)

	if !validate.LooseEmail(email) {
		s.log.Warn("check email invalid format", zap.String("email", email))
		return nil, apperror.New(
			"EMAIL IS INVALID!",
			http.StatusBadRequest, "email", "ERR_INVALID_EMAIL",
		)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("check email lookup failed", zap.String("email", email), zap.Error(err))
		return nil, collapse(err, "ERROR TO CHECK EMAIL!", "ERR_EMAIL_CHECK_FAILED")
	}

	s.log.Info("email checked", zap.String("email", email), zap.Bool("exists", existing != nil))
	return &CheckEmailResponse{Email: email, Exists: existing != nil}, nil
}
