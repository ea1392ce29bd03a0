package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	titleBadRequest = "Bad Request! Consult the documentation"
	titleConflict   = "Conflict! Consult the documentation"
	titleInternal   = "Internal Server Error"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	if s == nil {
		panic("credit service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"title":"Internal Server Error","status":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps a failure to the exception payload. Not-found outcomes share
// the business-rule status on purpose: an absent customer or credit is reported
// the same way as a broken issuance rule.
func respondError(w http.ResponseWriter, err error) {
	status, title := http.StatusInternalServerError, titleInternal
	details := map[string]string{"cause": err.Error()}

	var validationError *apperrors.ValidationError

	switch {
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, title = http.StatusConflict, titleConflict
	case errors.As(err, &validationError):
		status, title = http.StatusBadRequest, titleBadRequest
		details = map[string]string{validationError.Field: validationError.Message}
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrBusinessRule),
		errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrNotFound):
		status, title = http.StatusBadRequest, titleBadRequest
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
		details = map[string]string{"cause": "An unexpected error occurred."}
	}

	respondJSON(w, status, dto.ExceptionDetails{
		Title:     title,
		Timestamp: time.Now(),
		Status:    status,
		Exception: apperrors.Kind(err),
		Details:   details,
	})
}

// respondValidationDetails reports transport-level field failures before the
// request ever reaches a service.
func respondValidationDetails(w http.ResponseWriter, details map[string]string) {
	respondJSON(w, http.StatusBadRequest, dto.ExceptionDetails{
		Title:     titleBadRequest,
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
		Exception: apperrors.Kind(apperrors.ErrValidation),
		Details:   details,
	})
}

func getCustomerIDFromQuery(r *http.Request) (int64, error) {
	idStr := r.URL.Query().Get("customerId")
	if idStr == "" {
		return 0, fmt.Errorf("%w: missing required query parameter 'customerId'", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerId format: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// IssueCredit handles POST /api/credits
func (h *CreditHandler) IssueCredit(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received issue credit request")

	var req dto.CreateCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if details := req.Validate(); details != nil {
		h.logger.WarnContext(r.Context(), "Credit request validation failed", slog.Int("fields", len(details)))
		respondValidationDetails(w, details)
		return
	}

	firstInstallment, err := req.ParseFirstInstallmentDate()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Rejected unparseable first installment date", slog.Any("error", err))
		respondValidationDetails(w, map[string]string{"firstInstallmentDate": "invalid firstInstallmentDate format (use YYYY-MM-DD)"})
		return
	}

	issuedCredit, err := h.service.IssueCredit(r.Context(), req.CustomerID, req.CreditValue, firstInstallment, req.NumberOfInstallments)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrBusinessRule) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to issue credit", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditView(issuedCredit)
	h.logger.InfoContext(r.Context(), "Credit issued successfully", slog.String("creditCode", resp.CreditCode))
	respondJSON(w, http.StatusCreated, resp)
}

// ListCredits handles GET /api/credits?customerId=
func (h *CreditHandler) ListCredits(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	credits, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list credits", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if len(credits) == 0 {
		h.logger.InfoContext(r.Context(), "No credits found for customer", slog.Int64("customerID", customerID))
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	resp := make([]dto.CreditViewList, len(credits))
	for i, c := range credits {
		resp[i] = dto.NewCreditViewList(c)
	}

	h.logger.InfoContext(r.Context(), "Credits listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// GetCreditByCode handles GET /api/credits/{creditCode}?customerId=
func (h *CreditHandler) GetCreditByCode(w http.ResponseWriter, r *http.Request) {
	codeStr := chi.URLParam(r, "creditCode")
	creditCode, err := uuid.Parse(codeStr)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid credit code format", slog.String("creditCode", codeStr))
		respondError(w, fmt.Errorf("%w: invalid creditCode format: %s", apperrors.ErrInvalidArgument, codeStr))
		return
	}

	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	foundCredit, err := h.service.FindByCreditCode(r.Context(), customerID, creditCode)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidArgument) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to find credit by code", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreditView(foundCredit)
	h.logger.InfoContext(r.Context(), "Credit retrieved successfully", slog.String("creditCode", resp.CreditCode))
	respondJSON(w, http.StatusOK, resp)
}
