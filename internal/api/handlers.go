package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bills-manager/internal/model"
	"bills-manager/internal/service"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the /bills resource.
type Handler struct {
	bills *service.BillService
	db    Pinger
}

func NewHandler(bills *service.BillService, db Pinger) *Handler {
	return &Handler{bills: bills, db: db}
}

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBill(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	bill, err := h.bills.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("Bill created", "bill_id", bill.ID, "request_id", RequestID(r.Context()))
	writeJSON(w, http.StatusCreated, bill)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	bill, err := h.bills.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handler) EditBill(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	input, err := decodeBill(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	if _, err := h.bills.Edit(r.Context(), id, input); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	if err := h.bills.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("Bill deleted", "bill_id", id, "request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	bill, err := h.bills.TogglePaid(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Debug("Bill paid status toggled", "bill_id", id, "paid", bill.Paid)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps service errors to responses. Anything but ErrNotFound is a 500
// whose details stay in the log.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// billID parses the {id} path variable, writing a 400 when it is not a valid ID.
func billID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid bill id %q", raw))
		return 0, false
	}
	return uint(id), true
}

// billRequest is the body of POST and PUT. The id is accepted in any JSON
// shape and dropped; the path or the store decides it.
type billRequest struct {
	ID       json.RawMessage `json:"id"`
	BillName string          `json:"billName"`
	Amount   float64         `json:"amount"`
	Receiver string          `json:"receiver"`
	DueDate  model.Date      `json:"dueDate"`
	Paid     bool            `json:"paid"`
	Category string          `json:"category"`
}

func (req billRequest) bill() model.Bill {
	return model.Bill{
		BillName: req.BillName,
		Amount:   req.Amount,
		Receiver: req.Receiver,
		DueDate:  req.DueDate,
		Paid:     req.Paid,
		Category: req.Category,
	}
}

func decodeBill(w http.ResponseWriter, r *http.Request) (model.Bill, error) {
	var req billRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return model.Bill{}, fmt.Errorf("invalid bill: %w", err)
	}
	return req.bill(), nil
}

// writeDecodeError answers 413 for oversized bodies and 400 for everything else.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
