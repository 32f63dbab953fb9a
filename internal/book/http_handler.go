package book

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"booklibrary/internal/httpx"
	"booklibrary/internal/platform/validate"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// writeError maps the error taxonomy onto status codes. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		httpx.JSONValidationError(w, r, verr)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrAlreadyBorrowed):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is already borrowed", nil)
	case errors.Is(err, ErrNotBorrowed):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is not borrowed", nil)
	case errors.Is(err, ErrConflict):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book state conflict", nil)
	default:
		slog.ErrorContext(r.Context(), "book request failed",
			"request_id", httpx.RequestIDFrom(r),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return false
	}
	return true
}

// List handles GET /api/books
// @Summary List books
// @Description Filtered, paginated list of the caller's books, newest first
// @Tags books
// @Produce json
// @Security Bearer
// @Param search query string false "Case-insensitive text in title, author or description"
// @Param genre query string false "Genre"
// @Param isRead query bool false "Read state"
// @Param isBorrowed query bool false "Borrowed state"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size 1-100 (default 10); alias: limit"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := ParseListRequest(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), httpx.UserIDFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, page.Items, map[string]any{
		"pagination": page.Pagination,
	})
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /api/books
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRequest true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, "Book added successfully", b)
}

// Update handles PUT /api/books/{id}
// @Summary Update a book
// @Description Partial update; the resulting record is validated as a whole
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := h.service.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessMessage(w, r, http.StatusOK, "Book updated successfully", b)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessMessage(w, r, http.StatusOK, "Book deleted successfully", nil)
}

// Borrow handles PATCH /api/books/{id}/borrow
// @Summary Lend a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Param request body BorrowRequest true "Borrower"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/books/{id}/borrow [patch]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req BorrowRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	b, err := h.service.Borrow(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), req.Name())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessMessage(w, r, http.StatusOK, "Book marked as borrowed", b)
}

// Return handles PATCH /api/books/{id}/return
// @Summary Take a book back
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/books/{id}/return [patch]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Return(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessMessage(w, r, http.StatusOK, "Book marked as returned", b)
}

// Stats handles GET /api/books/stats/summary
// @Summary Library statistics
// @Tags books
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/books/stats/summary [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

// Routes registers the book endpoints on mux, each wrapped by protect.
func (h *HTTPHandler) Routes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/books", protect(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/books", protect(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/books/stats/summary", protect(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/books/{id}", protect(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/books/{id}", protect(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/books/{id}", protect(http.HandlerFunc(h.Delete)))
	mux.Handle("PATCH /api/books/{id}/borrow", protect(http.HandlerFunc(h.Borrow)))
	mux.Handle("PATCH /api/books/{id}/return", protect(http.HandlerFunc(h.Return)))
}
