// Package http exposes the intake workflow to report clients and operators
package http

import (
	"errors"
	"net/http"

	"crashrelay/internal/modkit/httpkit"
	perr "crashrelay/internal/platform/errors"
	"crashrelay/internal/platform/net/http/bind"
	"crashrelay/internal/services/intake/domain"
)

// FormField is the multipart field carrying the zipped bundle
const FormField = "report"

// Deps are the handler dependencies
type Deps struct {
	Svc       domain.ServicePort
	MaxUpload int64
}

type handlers struct {
	svc       domain.ServicePort
	maxUpload int64
}

func newHandlers(d Deps) *handlers {
	if d.Svc == nil {
		panic("intake http requires a non nil ServicePort")
	}
	max := d.MaxUpload
	if max <= 0 {
		max = domain.DefaultMaxUpload
	}
	return &handlers{svc: d.Svc, maxUpload: max}
}

// RegisterClient mounts the routes existing report clients call, at fixed paths
func RegisterClient(r httpkit.Router, d Deps) {
	h := newHandlers(d)

	r.Get("/", h.alive)
	r.Post("/api/getInfo", h.getInfo)
	r.Group(func(g httpkit.Router) {
		g.Use(httpkit.BodyLimit(h.maxUpload))
		httpkit.Post(g, "/api/pushReport", h.pushReport)
	})
}

// Register mounts the operator routes under the module prefix
func Register(r httpkit.Router, d Deps) {
	h := newHandlers(d)

	httpkit.Get(r, "/recent", h.recent)
}

func (h *handlers) alive(w http.ResponseWriter, _ *http.Request) {
	httpkit.Text(w, http.StatusOK, "alive")
}

// getInfo answers with the bare directive object; clients do not read an envelope here
func (h *handlers) getInfo(w http.ResponseWriter, _ *http.Request) {
	httpkit.JSON(w, http.StatusOK, h.svc.Directive())
}

func (h *handlers) pushReport(r *http.Request) (any, error) {
	f, _, err := r.FormFile(FormField)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		return nil, uploadError(err, h.maxUpload)
	}
	defer f.Close()

	return h.svc.Push(r.Context(), f)
}

// uploadError classifies a multipart failure as client input
func uploadError(err error, limit int64) error {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return perr.WithField(perr.ClientInputf("upload exceeds %d bytes", limit), FormField)
	case errors.Is(err, http.ErrMissingFile):
		return perr.WithField(perr.ClientInputf("missing multipart field %q", FormField), FormField)
	default:
		return perr.Wrap(err, perr.ErrorCodeValidation, "malformed multipart upload")
	}
}

// RecentResponse lists the newest receipts
type RecentResponse struct {
	Items []domain.Receipt `json:"items"`
	Limit int              `json:"limit,omitempty" example:"50"`
}

// swagger:route GET /intake/recent Intake intakeRecent
// @Summary Latest processed uploads
// @Description Receipt metadata for recent uploads, newest first. Report bodies are never stored.
// @Tags Intake
// @Produce json
// @Param limit query int false "max rows (1..500)" default(50)
// @Success 200 {object} RecentResponse
// @Failure 400 {object} httpkit.Envelope
// @Failure 422 {object} httpkit.Envelope
// @Failure 503 {object} httpkit.Envelope
// @Router /intake/recent [get]
func (h *handlers) recent(r *http.Request) (any, error) {
	limit, err := bind.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}
	in := domain.RecentInput{Limit: limit}
	if err := bind.Struct(in); err != nil {
		return nil, err
	}
	items, err := h.svc.Recent(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return RecentResponse{Items: items, Limit: in.Limit}, nil
}
