package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newBankHandler() (*BankHandler, *testutil.MockBankRepository, *testutil.MockObjectStore) {
	bankRepo := testutil.NewMockBankRepository()
	store := testutil.NewMockObjectStore()
	handler := NewBankHandler(service.NewBankService(bankRepo, store, nil))
	return handler, bankRepo, store
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func logoUploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("logo", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/banks/1/logo", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreateBank_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBankHandler()

	reqBody := `{"name": "DBS Bank", "code": "DBS"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/banks", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CreateBank(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Bank
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Name != "DBS Bank" {
		t.Errorf("Expected name 'DBS Bank', got %s", response.Name)
	}
	if response.ID == 0 {
		t.Error("Expected assigned bank ID")
	}
}

func TestCreateBank_EmptyName(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBankHandler()

	reqBody := `{"name": "", "code": "XX"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/banks", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CreateBank(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBank_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBankHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/banks/999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := handler.GetBank(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetBanks_Success(t *testing.T) {
	e := echo.New()
	handler, bankRepo, _ := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "DBS Bank"})
	bankRepo.Create(&domain.Bank{Name: "OCBC Bank"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/banks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetBanks(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []*service.BankWithLogo
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 2 {
		t.Errorf("Expected 2 banks, got %d", len(response))
	}
}

func TestUpdateBank_Success(t *testing.T) {
	e := echo.New()
	handler, bankRepo, _ := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "Old Name"})

	reqBody := `{"name": "New Name", "code": "NEW"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/banks/1", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.UpdateBank(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Bank
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Name != "New Name" {
		t.Errorf("Expected name 'New Name', got %s", response.Name)
	}
}

func TestDeleteBank_Success(t *testing.T) {
	e := echo.New()
	handler, bankRepo, _ := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "Doomed Bank"})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/banks/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.DeleteBank(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestUploadLogo_Success(t *testing.T) {
	e := echo.New()
	handler, bankRepo, store := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "DBS Bank"})

	req := logoUploadRequest(t, "logo.png", pngBytes(t, 100, 100))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.UploadLogo(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Bank
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.LogoPath == nil {
		t.Fatal("Expected logo path to be set")
	}
	if len(store.Objects) != 1 {
		t.Errorf("Expected 1 stored object, got %d", len(store.Objects))
	}
}

func TestUploadLogo_InvalidFormat(t *testing.T) {
	e := echo.New()
	handler, bankRepo, _ := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "DBS Bank"})

	req := logoUploadRequest(t, "logo.gif", []byte("GIF89a"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.UploadLogo(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUploadLogo_MissingFile(t *testing.T) {
	e := echo.New()
	handler, bankRepo, _ := newBankHandler()

	bankRepo.Create(&domain.Bank{Name: "DBS Bank"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/banks/1/logo", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.UploadLogo(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUploadLogo_BankNotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBankHandler()

	req := logoUploadRequest(t, "logo.png", pngBytes(t, 10, 10))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := handler.UploadLogo(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
