package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/shared"
	"github.com/skillforge-lms/skillforge/internal/view"
)

// Handler serves the role landing pages. The gate middleware guarantees that
// requests reaching these handlers carry a verified principal whose role
// matches the sub-tree, so the handlers only render.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
	}
}

// MountRoutes registers the dashboard routes. Mounted under /dashboard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/admin", h.showAdmin)
	r.Get("/company", h.showCompany)
	r.Get("/learn", h.showLearn)
}

func (h *Handler) showAdmin(w http.ResponseWriter, r *http.Request) {
	principal := gate.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		h.logger.Error("admin stats", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/admin.html", "Platform overview", principal, stats)
}

func (h *Handler) showCompany(w http.ResponseWriter, r *http.Request) {
	principal := gate.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	stats, err := h.service.CompanyStats(r.Context(), principal.CompanyID)
	if err != nil {
		h.logger.Error("company stats", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/company.html", "Company overview", principal, stats)
}

func (h *Handler) showLearn(w http.ResponseWriter, r *http.Request) {
	principal := gate.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	userID, err := strconv.ParseInt(principal.SubjectID, 10, 64)
	if err != nil {
		h.logger.Error("parse subject id", slog.String("subject", principal.SubjectID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	stats, err := h.service.LearnStats(r.Context(), userID)
	if err != nil {
		h.logger.Error("learn stats", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/learn.html", "My training", principal, stats)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, principal *gate.Principal, data any) {
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   h.csrf.EnsureToken(w, r),
		CurrentPath: r.URL.Path,
		Principal:   principal,
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
