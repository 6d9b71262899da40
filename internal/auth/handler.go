package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/shared"
	"github.com/skillforge-lms/skillforge/internal/view"
)

// AuditEnqueuer submits login audit events for background persistence.
type AuditEnqueuer interface {
	EnqueueLoginAudit(ctx context.Context, userID int64, email, ip, ua, jti string) error
}

// Handler wires HTTP endpoints for authentication flows. The gate middleware
// already redirects authenticated visitors away from these pages, so the
// handlers only ever deal with anonymous requests.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	gate      *gate.Gate
	csrf      *shared.CSRFManager
	registry  *SessionRegistry
	audit     AuditEnqueuer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. registry and audit may be nil in
// tests; both are best-effort bookkeeping.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, g *gate.Gate, csrf *shared.CSRFManager, registry *SessionRegistry, audit AuditEnqueuer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		gate:      g,
		csrf:      csrf,
		registry:  registry,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, loginPageData{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	formErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = "Invalid value"
			}
		}
	}

	if len(formErrors) == 0 {
		user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
		if err != nil {
			formErrors["general"] = "Invalid email or password"
		} else {
			h.establishSession(w, r, user)
			return
		}
	}

	form.Password = ""
	h.renderLogin(w, r, http.StatusBadRequest, loginPageData{Form: form, Errors: formErrors})
}

type registerForm struct {
	CompanyID string `validate:"required"`
	Name      string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
}

type registerPageData struct {
	Form   registerForm
	Errors map[string]string
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, registerPageData{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := registerForm{
		CompanyID: r.PostFormValue("company_id"),
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
	}
	formErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = "Invalid value"
			}
		}
	}

	if len(formErrors) == 0 {
		user, err := h.service.Register(r.Context(), RegisterInput{
			CompanyID: form.CompanyID,
			Name:      form.Name,
			Email:     form.Email,
			Password:  form.Password,
		})
		switch {
		case errors.Is(err, shared.ErrEmailTaken):
			formErrors["Email"] = "Email already registered"
		case errors.Is(err, shared.ErrCompanyUnknown):
			formErrors["CompanyID"] = "Unknown company"
		case err != nil:
			h.logger.Error("register", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		default:
			h.establishSession(w, r, user)
			return
		}
	}

	form.Password = ""
	h.renderRegister(w, r, http.StatusBadRequest, registerPageData{Form: form, Errors: formErrors})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.gate.CookieName()); err == nil && cookie.Value != "" {
		if jti, err := h.gate.Codec().SessionID(cookie.Value); err == nil && h.registry != nil {
			if err := h.registry.Remove(r.Context(), jti); err != nil {
				h.logger.Warn("remove session record", slog.Any("error", err))
			}
		}
	}
	h.gate.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// establishSession issues the signed token, sets the cookie, and records the
// login, then lands the user on their role's dashboard.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, user *User) {
	principal := gate.Principal{
		SubjectID: strconv.FormatInt(user.ID, 10),
		Role:      user.Role,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		Name:      user.Name,
	}
	token, jti, err := h.gate.Codec().Issue(principal)
	if err != nil {
		h.logger.Error("issue session token", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.gate.SetSessionCookie(w, token)

	if h.registry != nil {
		if err := h.registry.Record(r.Context(), jti, user.ID, user.Email, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("record session", slog.Any("error", err))
		}
	}
	if h.audit != nil {
		if err := h.audit.EnqueueLoginAudit(r.Context(), user.ID, user.Email, r.RemoteAddr, r.UserAgent(), jti); err != nil {
			h.logger.Warn("enqueue login audit", slog.Any("error", err))
		}
	}

	http.Redirect(w, r, user.Role.LandingPath(), http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPageData) {
	h.renderPage(w, r, "pages/login.html", "Sign in", status, data)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, data registerPageData) {
	h.renderPage(w, r, "pages/register.html", "Create account", status, data)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page, title string, status int, data any) {
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   h.csrf.EnsureToken(w, r),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
