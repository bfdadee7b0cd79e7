package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/apperror"
	"user-crud-service/pkg/response"
)

// UserHandler handles HTTP requests for user operations. Bodies are bound
// as raw maps so the sanitizer can see every submitted key; success answers
// go through the success envelope and failures are attached to the context
// for the terminal classifier.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// bindBody decodes the request body into a raw map. A malformed body is
// reported as a 400 AppError.
func (h *UserHandler) bindBody(c *gin.Context) (map[string]any, bool) {
	body := map[string]any{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Warn("malformed request body", zap.Error(err))
		_ = c.Error(apperror.New(
			"INVALID REQUEST BODY!",
			http.StatusBadRequest, "", "ERR_INVALID_BODY",
		))
		return nil, false
	}
	return body, true
}

// Register handles POST /api/register.
func (h *UserHandler) Register(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), user.RegisterRequest{Body: body})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, http.StatusCreated, "SUCCESSFULLY REGISTERED!", resp.User, nil)
}

// ListUsers handles GET /api/checkUsers.
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "USERS SUCCESSFULLY FOUND!"
	if len(resp.Users) == 0 {
		message = "NO USERS FOUND!"
	}

	response.OK(c, http.StatusOK, message, resp.Users, nil)
}

// UpdateUser handles PUT /api/updateUser/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	err := h.uc.UpdateUser(c.Request.Context(), user.UpdateRequest{
		ID:   c.Param("id"),
		Body: body,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, http.StatusOK, "USER SUCCESSFULLY UPDATED!", nil, nil)
}

// DeleteUser handles DELETE /api/deleteUser/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.uc.DeleteUser(c.Request.Context(), user.DeleteRequest{ID: c.Param("id")})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, http.StatusOK, "USER SUCCESSFULLY DELETED!", nil, nil)
}

// CheckEmail handles GET /api/checkEmail/:email.
func (h *UserHandler) CheckEmail(c *gin.Context) {
	resp, err := h.uc.CheckEmail(c.Request.Context(), user.CheckEmailRequest{
		Email: c.Param("email"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, http.StatusOK, resp.Email+" checked successfully.",
		gin.H{"exists": resp.Exists}, nil)
}
