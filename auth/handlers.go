package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/user/projecthub-go/apperror"
)

// Handlers exposes the auth service over HTTP.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

// HandleRegister godoc
// @Summary User registration
// @Description Registers a new user. The role defaults to "user" when omitted.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.User "User created successfully"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or username already registered"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("username and password are required", err))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin godoc
// @Summary User login
// @Description Authenticates form-encoded credentials and returns a bearer access token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} auth.TokenResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Missing credentials"
// @Failure 401 {object} apperror.ErrorResponse "Incorrect username or password"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The login endpoint takes form-encoded credentials, OAuth2
		// password-flow style, unlike the JSON bodies used elsewhere.
		if err := r.ParseForm(); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), username, password)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON serializes data to JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteJSON is the shared success-response writer used by the other handler
// packages.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

// WriteError writes a standardized error response. Errors that are not
// *AppError are reported as a generic 500 with no internal detail. 401
// responses carry the WWW-Authenticate challenge required for bearer auth.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		log.Printf("unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
		appErr = apperror.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode() == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", r.Method, r.URL.Path, appErr)
	}
	if appErr.StatusCode() == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
