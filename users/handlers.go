package users

import (
	"net/http"
	"strconv"

	"github.com/user/projecthub-go/apperror"
	"github.com/user/projecthub-go/auth"
)

// UserHandlers exposes user queries over HTTP. All routes expect the
// auth.RequireUser middleware to have run.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates a UserHandlers instance.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleMe godoc
// @Summary Current user
// @Description Returns the account of the authenticated user.
// @Tags Users
// @Produce json
// @Success 200 {object} auth.User "Current user"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// RequireUser already resolved the token against the store, so the
		// context user is a fresh row, not a claims snapshot.
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleListUsers godoc
// @Summary List users
// @Description Returns a page of user accounts. Admin only.
// @Tags Users
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Maximum rows to return" default(100)
// @Success 200 {array} auth.User "Users"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 403 {object} apperror.ErrorResponse "Not an admin"
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandlers) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := queryInt(r, "skip", 0)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", defaultListLimit)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		users, svcErr := h.service.ListUsers(r.Context(), skip, limit)
		if svcErr != nil {
			auth.WriteError(w, r, svcErr)
			return
		}
		auth.WriteJSON(w, http.StatusOK, users)
	}
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewValidationError(name+" must be an integer", err)
	}
	return value, nil
}
