package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/dwicandra/duit/duit-backend/internal/testutil"
	"github.com/dwicandra/duit/duit-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, websocket.NewHub())
	return NewTransactionHandler(transactionService), transactionRepo, categoryRepo
}

func addExpenseCategory(categoryRepo *testutil.MockCategoryRepository, userID uuid.UUID) uuid.UUID {
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:     categoryID,
		UserID: userID,
		Name:   "Groceries",
		Type:   domain.CategoryTypeExpense,
	})
	return categoryID
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := setupTransactionHandler()

	userID := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, userID)

	reqBody := `{"categoryId": "` + categoryID.String() + `", "description": "Weekly shop", "amount": "150.00", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	err := handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var tx domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if tx.Description != "Weekly shop" {
		t.Errorf("Expected description 'Weekly shop', got %s", tx.Description)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("Expected amount 150.00, got %s", tx.Amount)
	}
	if tx.CategoryID != categoryID {
		t.Errorf("Expected category %s, got %s", categoryID, tx.CategoryID)
	}
}

func TestCreateTransactionHandler_InvalidCategoryID(t *testing.T) {
	e := echo.New()
	handler, _, _ := setupTransactionHandler()

	reqBody := `{"categoryId": "not-a-uuid", "description": "Weekly shop", "amount": "150.00", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := setupTransactionHandler()

	userID := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, userID)

	reqBody := `{"categoryId": "` + categoryID.String() + `", "description": "Weekly shop", "amount": "abc", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_NegativeAmount(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := setupTransactionHandler()

	userID := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, userID)

	reqBody := `{"categoryId": "` + categoryID.String() + `", "description": "Weekly shop", "amount": "-50.00", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(transactionRepo.Transactions) != 0 {
		t.Errorf("Expected nothing persisted, got %d transactions", len(transactionRepo.Transactions))
	}
}

func TestCreateTransactionHandler_ForeignCategory(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := setupTransactionHandler()

	otherUser := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, otherUser)

	reqBody := `{"categoryId": "` + categoryID.String() + `", "description": "Weekly shop", "amount": "150.00", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := setupTransactionHandler()

	reqBody := `{"categoryId": "` + uuid.New().String() + `", "description": "Weekly shop", "amount": "150.00", "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestListTransactionsHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := setupTransactionHandler()

	userID := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, userID)
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Description: "Weekly shop",
		Amount:      decimal.RequireFromString("150.00"),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		CategoryID:  categoryID,
		Description: "Someone else",
		Amount:      decimal.RequireFromString("10.00"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	err := handler.ListTransactions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data []*domain.Transaction `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "Weekly shop", response.Data[0].Description)
}

func TestListTransactionsHandler_InvalidFilter(t *testing.T) {
	e := echo.New()
	handler, _, _ := setupTransactionHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?startDate=15-01-2024", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	assert.NoError(t, handler.ListTransactions(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := setupTransactionHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	setupAuthContext(c, uuid.New())

	assert.NoError(t, handler.GetTransaction(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTransactionHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := setupTransactionHandler()

	userID := uuid.New()
	categoryID := addExpenseCategory(categoryRepo, userID)
	txID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:          txID,
		UserID:      userID,
		CategoryID:  categoryID,
		Description: "Weekly shop",
		Amount:      decimal.RequireFromString("150.00"),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+txID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(txID.String())
	setupAuthContext(c, userID)

	assert.NoError(t, handler.DeleteTransaction(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, transactionRepo.Transactions)
}
