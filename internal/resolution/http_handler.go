package resolution

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"booksphere/internal/httpx"

	"github.com/go-playground/validator/v10"
)

const (
	msgTitleRequired       = "A 'title' parameter is required."
	msgTitleTooLong        = "The 'title' parameter must be at most 300 characters."
	msgNotFound            = "Book not found or no public domain PDF available."
	msgUpstreamUnavailable = "Book catalogue is temporarily unavailable."
	msgUnavailable         = "Service temporarily unavailable."
	msgInternal            = "Internal server error."
)

//go:generate mockgen -source=http_handler.go -destination=mock_resolver_test.go -package=resolution

var validate = validator.New()

type resolveRequest struct {
	Title string `validate:"required,max=300"`
}

// Resolver is the part of Service the handler needs.
type Resolver interface {
	Resolve(ctx context.Context, title string) (string, error)
}

type HandlerOptions struct {
	// ExposeUpstreamErrors reports search outages as 502 instead of folding them into 404.
	ExposeUpstreamErrors bool
}

type HTTPHandler struct {
	resolver Resolver
	opts     HandlerOptions
}

func NewHTTPHandler(resolver Resolver, opts HandlerOptions) *HTTPHandler {
	return &HTTPHandler{resolver: resolver, opts: opts}
}

type resolveResponse struct {
	PdfURL string `json:"pdf_url"`
}

// GetBook handles GET /api/books?title=
func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	req := resolveRequest{Title: strings.TrimSpace(r.URL.Query().Get("title"))}
	if err := validate.Struct(req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	pdfURL, err := h.resolver.Resolve(r.Context(), req.Title)
	if err != nil {
		status, message := h.errorResponse(err)
		httpx.JSONError(w, status, message)
		return
	}

	httpx.JSON(w, http.StatusOK, resolveResponse{PdfURL: pdfURL})
}

func (h *HTTPHandler) errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, msgTitleRequired
	case errors.Is(err, ErrCacheUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	case errors.Is(err, ErrExternalServiceUnavailable):
		if h.opts.ExposeUpstreamErrors {
			return http.StatusBadGateway, msgUpstreamUnavailable
		}
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, ErrNotFoundPublicDomain), errors.Is(err, ErrNoVerifiedPdf):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Title" && fe.Tag() == "max" {
				return msgTitleTooLong
			}
		}
	}
	return msgTitleRequired
}
