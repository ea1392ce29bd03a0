package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/api/handler"
	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCreditService struct {
	mock.Mock
}

func (_m *MockCreditService) IssueCredit(ctx context.Context, customerID int64, creditValue decimal.Decimal, dayFirstInstallment time.Time, numberOfInstallments int) (*credit.Credit, error) {
	ret := _m.Called(ctx, customerID, creditValue, dayFirstInstallment, numberOfInstallments)

	var r0 *credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockCreditService) ListByCustomer(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*credit.Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockCreditService) FindByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*credit.Credit, error) {
	ret := _m.Called(ctx, customerID, creditCode)

	var r0 *credit.Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Credit)
	}

	return r0, ret.Error(1)
}

func mockCredit() *credit.Credit {
	return &credit.Credit{
		ID:                   10,
		CreditCode:           uuid.New(),
		CreditValue:          decimal.NewFromFloat(1500.00),
		DayFirstInstallment:  time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		NumberOfInstallments: 12,
		Status:               credit.StatusInProgress,
		Customer:             mockCustomer(),
	}
}

func validCreateCreditRequest() dto.CreateCreditRequest {
	return dto.CreateCreditRequest{
		CreditValue:          decimal.NewFromFloat(1500.00),
		FirstInstallmentDate: "2025-04-10",
		NumberOfInstallments: 12,
		CustomerID:           1,
	}
}

func TestIssueCreditHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		reqBody := validCreateCreditRequest()
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/api/credits", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		issued := mockCredit()
		expectedDate := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
		mockService.On("IssueCredit", mock.Anything, int64(1), mock.MatchedBy(func(v decimal.Decimal) bool {
			return v.Equal(decimal.NewFromFloat(1500.00))
		}), expectedDate, 12).Return(issued, nil)

		h.IssueCredit(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CreditView
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, issued.CreditCode.String(), resp.CreditCode)
		assert.Equal(t, 12, resp.NumberOfInstallments)
		assert.Equal(t, int64(1), resp.CustomerID)
		assert.Equal(t, "camila@email.com", resp.EmailCustomer)
		assert.True(t, decimal.NewFromFloat(1000.00).Equal(resp.IncomeCustomer))
		mockService.AssertExpectations(t)
	})

	t.Run("out-of-range installments rejected before the service", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		reqBody := validCreateCreditRequest()
		reqBody.NumberOfInstallments = 49
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/api/credits", bytes.NewReader(reqBodyBytes))
		rec := httptest.NewRecorder()

		h.IssueCredit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "ValidationFailure", resp.Exception)
		assert.Contains(t, resp.Details, "numberOfInstallments")
		mockService.AssertNotCalled(t, "IssueCredit")
	})

	t.Run("malformed date rejected before the service", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		reqBody := validCreateCreditRequest()
		reqBody.FirstInstallmentDate = "10/04/2025"
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/api/credits", bytes.NewReader(reqBodyBytes))
		rec := httptest.NewRecorder()

		h.IssueCredit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Contains(t, resp.Details, "firstInstallmentDate")
		mockService.AssertNotCalled(t, "IssueCredit")
	})

	t.Run("date window breach maps to business rule violation", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		reqBodyBytes, _ := json.Marshal(validCreateCreditRequest())
		req := httptest.NewRequest(http.MethodPost, "/api/credits", bytes.NewReader(reqBodyBytes))
		rec := httptest.NewRecorder()

		ruleErr := fmt.Errorf("%w: the limit for the date of the first installment is up to 3 months from the current date", apperrors.ErrBusinessRule)
		mockService.On("IssueCredit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, ruleErr)

		h.IssueCredit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "BusinessRuleViolation", resp.Exception)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("unresolved customer maps to business rule violation", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		reqBodyBytes, _ := json.Marshal(validCreateCreditRequest())
		req := httptest.NewRequest(http.MethodPost, "/api/credits", bytes.NewReader(reqBodyBytes))
		rec := httptest.NewRecorder()

		mockService.On("IssueCredit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: id 1", apperrors.ErrCustomerUnresolved))

		h.IssueCredit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "BusinessRuleViolation", resp.Exception)
	})
}

func TestListCreditsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		credits := []*credit.Credit{mockCredit(), mockCredit()}
		mockService.On("ListByCustomer", mock.Anything, int64(1)).Return(credits, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/credits?customerId=1", nil)
		rec := httptest.NewRecorder()

		h.ListCredits(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CreditViewList
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, credits[0].CreditCode.String(), resp[0].CreditCode)
		mockService.AssertExpectations(t)
	})

	t.Run("empty list responds 204 with no body", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		mockService.On("ListByCustomer", mock.Anything, int64(2)).Return([]*credit.Credit{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/credits?customerId=2", nil)
		rec := httptest.NewRecorder()

		h.ListCredits(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
		mockService.AssertExpectations(t)
	})

	t.Run("missing customerId query parameter", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/credits", nil)
		rec := httptest.NewRecorder()

		h.ListCredits(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "ListByCustomer")
	})
}

func TestGetCreditByCodeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	withCreditCode := func(req *http.Request, code string) *http.Request {
		return withURLParam(req, "creditCode", code)
	}

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		found := mockCredit()
		mockService.On("FindByCreditCode", mock.Anything, int64(1), found.CreditCode).Return(found, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/credits/"+found.CreditCode.String()+"?customerId=1", nil)
		req = withCreditCode(req, found.CreditCode.String())
		rec := httptest.NewRecorder()

		h.GetCreditByCode(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CreditView
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, found.CreditCode.String(), resp.CreditCode)
		mockService.AssertExpectations(t)
	})

	t.Run("ownership mismatch maps to InvalidArgument, not NotFound", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		code := uuid.New()
		mockService.On("FindByCreditCode", mock.Anything, int64(2), code).
			Return(nil, fmt.Errorf("%w: mismatched customer and credit, contact the administration", apperrors.ErrInvalidArgument))

		req := httptest.NewRequest(http.MethodGet, "/api/credits/"+code.String()+"?customerId=2", nil)
		req = withCreditCode(req, code.String())
		rec := httptest.NewRecorder()

		h.GetCreditByCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "InvalidArgument", resp.Exception)
	})

	t.Run("unknown code maps to bad request", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		code := uuid.New()
		mockService.On("FindByCreditCode", mock.Anything, int64(1), code).
			Return(nil, fmt.Errorf("%w: credit code %s not found", apperrors.ErrNotFound, code))

		req := httptest.NewRequest(http.MethodGet, "/api/credits/"+code.String()+"?customerId=1", nil)
		req = withCreditCode(req, code.String())
		rec := httptest.NewRecorder()

		h.GetCreditByCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ExceptionDetails
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "BusinessRuleViolation", resp.Exception)
	})

	t.Run("malformed credit code", func(t *testing.T) {
		mockService := new(MockCreditService)
		h := handler.NewCreditHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/credits/not-a-uuid?customerId=1", nil)
		req = withCreditCode(req, "not-a-uuid")
		rec := httptest.NewRecorder()

		h.GetCreditByCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "FindByCreditCode")
	})
}
