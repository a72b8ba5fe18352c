package handler

import (
	"errors"
	"net/http"

	"github.com/fintrack/fintrack/internal/ctxkeys"
	"github.com/fintrack/fintrack/internal/render"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/fintrack/fintrack/internal/validation"
)

// multipart overhead on top of the largest accepted receipt
const uploadSlack = 1 << 20

type ReceiptHandler struct {
	fileService *service.FileService
}

func NewReceiptHandler(fileService *service.FileService) *ReceiptHandler {
	return &ReceiptHandler{
		fileService: fileService,
	}
}

func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if !h.fileService.Enabled() {
		render.Error(w, http.StatusServiceUnavailable, "receipts_disabled", "receipt storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.ReceiptConstraints.MaxSize+uploadSlack)
	err := r.ParseMultipartForm(validation.ReceiptConstraints.MaxSize)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.FieldError(w, "file", "file too large")
			return
		}
		badRequest(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		render.FieldError(w, "file", "a file is required")
		return
	}
	defer file.Close()

	receipt, err := h.fileService.UploadReceipt(r.Context(), user.ID, r.PathValue("id"), file, header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, newReceiptResponse(receipt))
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.fileService.Receipts(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]receiptResponse, 0, len(files))
	for _, f := range files {
		out = append(out, newReceiptResponse(f))
	}
	render.JSON(w, http.StatusOK, out)
}

func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.fileService.DeleteReceipt(r.Context(), user.ID, r.PathValue("id"), r.PathValue("fileID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}
