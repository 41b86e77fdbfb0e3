package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/dto"
	"github.com/tourismoam/backoffice/internal/middleware"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"github.com/tourismoam/backoffice/internal/service"
)

// --- Mock GuestService ---

type mockGuestService struct {
	createFn      func(ctx context.Context, in *dto.GuestInput) (*models.Guest, error)
	getFn         func(ctx context.Context, id uint) (*models.Guest, error)
	setPassportFn func(ctx context.Context, id uint, path string) error
}

func (m *mockGuestService) Create(ctx context.Context, in *dto.GuestInput) (*models.Guest, error) {
	return m.createFn(ctx, in)
}
func (m *mockGuestService) List(ctx context.Context, filter dto.GuestFilter) ([]repository.GuestRow, int64, error) {
	return nil, 0, nil
}
func (m *mockGuestService) Get(ctx context.Context, id uint) (*models.Guest, error) {
	return m.getFn(ctx, id)
}
func (m *mockGuestService) Update(ctx context.Context, id uint, u *dto.GuestUpdate) (*models.Guest, error) {
	return nil, nil
}
func (m *mockGuestService) UpdateStatus(ctx context.Context, id uint, status models.GuestStatus) (*models.Guest, error) {
	return nil, nil
}
func (m *mockGuestService) Delete(ctx context.Context, id uint) error { return nil }
func (m *mockGuestService) Packages(ctx context.Context, id uint, status string) ([]models.Package, error) {
	return nil, nil
}
func (m *mockGuestService) PaymentInfo(ctx context.Context, id uint) (*service.GuestPaymentInfo, error) {
	return nil, nil
}
func (m *mockGuestService) SetPassport(ctx context.Context, id uint, path string) error {
	return m.setPassportFn(ctx, id, path)
}

// --- Mock PaymentService ---

type mockPaymentService struct {
	getFn        func(ctx context.Context, packageID, id uint) (*models.Payment, error)
	setReceiptFn func(ctx context.Context, packageID, id uint, path string) (*models.Payment, error)
	findAnyFn    func(ctx context.Context, id uint) (*models.Payment, error)
}

func (m *mockPaymentService) Record(ctx context.Context, packageID uint, in *dto.PaymentInput) (*models.Payment, error) {
	return &models.Payment{PackageID: packageID}, nil
}
func (m *mockPaymentService) List(ctx context.Context, packageID uint) (*service.PaymentList, error) {
	return &service.PaymentList{}, nil
}
func (m *mockPaymentService) Get(ctx context.Context, packageID, id uint) (*models.Payment, error) {
	return m.getFn(ctx, packageID, id)
}
func (m *mockPaymentService) Update(ctx context.Context, packageID, id uint, u *dto.PaymentUpdate) (*models.Payment, error) {
	return nil, nil
}
func (m *mockPaymentService) Delete(ctx context.Context, packageID, id uint) error { return nil }
func (m *mockPaymentService) SetReceipt(ctx context.Context, packageID, id uint, path string) (*models.Payment, error) {
	return m.setReceiptFn(ctx, packageID, id, path)
}
func (m *mockPaymentService) FindAnyByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.findAnyFn(ctx, id)
}

// --- Mock FileService ---

type mockFileService struct {
	storeFn   func(kind string, fh *multipart.FileHeader) (*service.StoredFile, error)
	resolveFn func(requested string) (string, string, error)
}

func (m *mockFileService) Store(kind string, fh *multipart.FileHeader) (*service.StoredFile, error) {
	return m.storeFn(kind, fh)
}
func (m *mockFileService) Resolve(requested string) (string, string, error) {
	return m.resolveFn(requested)
}
func (m *mockFileService) URL(path string) string {
	return "/files/" + path[strings.LastIndex(path, "/")+1:]
}

// --- Mock AuthService ---

type mockAuthService struct {
	loginFn func(ctx context.Context, req *dto.LoginRequest) (*service.LoginResult, error)
	meFn    func(ctx context.Context, token string) (*models.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*service.LoginResult, error) {
	return m.loginFn(ctx, req)
}
func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	return nil, nil
}
func (m *mockAuthService) Me(ctx context.Context, token string) (*models.User, error) {
	return m.meFn(ctx, token)
}
func (m *mockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	return nil
}

// --- Helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.RequestValidator{}
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func assertHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	assert.Equal(t, code, he.Code)
	if message != "" {
		assert.Equal(t, message, he.Message)
	}
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Message string         `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	return env.Data
}

// --- Tests ---

func TestToHTTPError(t *testing.T) {
	assertHTTPError(t, toHTTPError(service.NewValidationError("bad")), http.StatusBadRequest, "bad")
	assertHTTPError(t, toHTTPError(&service.NotFoundError{Entity: "Guest"}), http.StatusNotFound, "Guest not found")
	assertHTTPError(t, toHTTPError(service.ErrInvalidCredentials), http.StatusUnauthorized, "Invalid username or password")
	assertHTTPError(t, toHTTPError(service.ErrUnauthorized), http.StatusUnauthorized, "Invalid or expired token")
	assertHTTPError(t, toHTTPError(errors.New("boom")), http.StatusInternalServerError, "")
}

func TestCreateGuest_Handler_Success(t *testing.T) {
	svc := &mockGuestService{
		createFn: func(ctx context.Context, in *dto.GuestInput) (*models.Guest, error) {
			g := in.ToModel()
			g.ID = 7
			return g, nil
		},
	}

	e := newEcho()
	body := `{"full_name":"Ana Lima","phone_number":"+5511999","country_of_residence":"Brazil"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/guests", body), rec)

	h := NewGuestHandler(svc, nil)
	require.NoError(t, h.CreateGuest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, float64(7), data["guest_id"])
	assert.Equal(t, "Ana Lima", data["full_name"])
	assert.Equal(t, "guest", data["status"])
}

func TestCreateGuest_Handler_MissingFields(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"Ana"}`), rec)

	h := NewGuestHandler(&mockGuestService{}, nil)
	err := h.CreateGuest(c)
	assertHTTPError(t, err, http.StatusBadRequest, "Missing required fields: phone_number, country_of_residence")
}

func TestGetGuest_Handler_InvalidID(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/guests/abc", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := NewGuestHandler(&mockGuestService{}, nil)
	assertHTTPError(t, h.GetGuest(c), http.StatusBadRequest, "invalid guest id")
}

func TestGetGuest_Handler_NotFound(t *testing.T) {
	svc := &mockGuestService{
		getFn: func(ctx context.Context, id uint) (*models.Guest, error) {
			return nil, &service.NotFoundError{Entity: "Guest"}
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/guests/99", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	h := NewGuestHandler(svc, nil)
	assertHTTPError(t, h.GetGuest(c), http.StatusNotFound, "Guest not found")
}

func TestGetPassport_Handler_NoImage(t *testing.T) {
	svc := &mockGuestService{
		getFn: func(ctx context.Context, id uint) (*models.Guest, error) {
			return &models.Guest{ID: id}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/guests/3/passport", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	h := NewGuestHandler(svc, &mockFileService{})
	require.NoError(t, h.GetPassport(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Contains(t, data, "passport_image_path")
	assert.Nil(t, data["passport_image_path"])
	assert.Nil(t, data["image_url"])
}

func TestGetPassport_Handler_MissingFileDescribesPath(t *testing.T) {
	path := "/nonexistent/passports/abc.jpg"
	svc := &mockGuestService{
		getFn: func(ctx context.Context, id uint) (*models.Guest, error) {
			return &models.Guest{ID: id, PassportImagePath: &path}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/guests/3/passport", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	h := NewGuestHandler(svc, &mockFileService{})
	require.NoError(t, h.GetPassport(c))

	data := decodeData(t, rec)
	assert.Equal(t, path, data["passport_image_path"])
	assert.Equal(t, "/files/abc.jpg", data["image_url"])
}

func TestUploadReceipt_Handler_Success(t *testing.T) {
	var attached string
	payments := &mockPaymentService{
		getFn: func(ctx context.Context, packageID, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, PackageID: packageID}, nil
		},
		setReceiptFn: func(ctx context.Context, packageID, id uint, path string) (*models.Payment, error) {
			attached = path
			return &models.Payment{ID: id, PackageID: packageID, ReceiptImagePath: &path}, nil
		},
	}
	files := &mockFileService{
		storeFn: func(kind string, fh *multipart.FileHeader) (*service.StoredFile, error) {
			assert.Equal(t, service.KindReceipts, kind)
			assert.Equal(t, "receipt.pdf", fh.Filename)
			return &service.StoredFile{Path: "uploads/receipts/r1.pdf", URL: "/files/r1.pdf"}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/packages/4/payments/2/receipt", "receipt.pdf", []byte("%PDF-1.4\n"))
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "itemId")
	c.SetParamValues("4", "2")

	h := NewPaymentHandler(payments, files)
	require.NoError(t, h.UploadReceipt(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uploads/receipts/r1.pdf", attached)

	data := decodeData(t, rec)
	assert.Equal(t, float64(2), data["payment_id"])
	assert.Equal(t, "/files/r1.pdf", data["image_url"])
}

func TestUploadReceipt_Handler_NoFile(t *testing.T) {
	payments := &mockPaymentService{
		getFn: func(ctx context.Context, packageID, id uint) (*models.Payment, error) {
			return &models.Payment{ID: id, PackageID: packageID}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/packages/4/payments/2/receipt", `{}`), rec)
	c.SetParamNames("id", "itemId")
	c.SetParamValues("4", "2")

	h := NewPaymentHandler(payments, &mockFileService{})
	assertHTTPError(t, h.UploadReceipt(c), http.StatusBadRequest, "No file uploaded")
}

func TestUploadPassport_Standalone_AttachesToGuest(t *testing.T) {
	var attachedID uint
	guests := &mockGuestService{
		getFn: func(ctx context.Context, id uint) (*models.Guest, error) {
			return &models.Guest{ID: id}, nil
		},
		setPassportFn: func(ctx context.Context, id uint, path string) error {
			attachedID = id
			return nil
		},
	}
	files := &mockFileService{
		storeFn: func(kind string, fh *multipart.FileHeader) (*service.StoredFile, error) {
			assert.Equal(t, service.KindPassports, kind)
			return &service.StoredFile{Path: "uploads/passports/p.png", URL: "/files/p.png", MIMEType: "image/png", Size: 8}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/upload/passport?guest_id=5", "p.png", []byte("\x89PNG\r\n\x1a\n"))
	c := e.NewContext(req, rec)

	h := NewUploadHandler(files, guests, &mockPaymentService{})
	require.NoError(t, h.UploadPassport(c))
	assert.Equal(t, uint(5), attachedID)

	data := decodeData(t, rec)
	assert.Equal(t, "uploads/passports/p.png", data["file_path"])
	assert.Equal(t, "/files/p.png", data["file_url"])
}

func TestUploadReceipt_Standalone_UnknownPayment(t *testing.T) {
	payments := &mockPaymentService{
		findAnyFn: func(ctx context.Context, id uint) (*models.Payment, error) {
			return nil, &service.NotFoundError{Entity: "Payment"}
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/upload/receipt?payment_id=12", "r.pdf", []byte("%PDF-1.4\n"))
	c := e.NewContext(req, rec)

	h := NewUploadHandler(&mockFileService{}, &mockGuestService{}, payments)
	assertHTTPError(t, h.UploadReceipt(c), http.StatusNotFound, "Payment not found")
}

func TestServeFile_Handler_NotFound(t *testing.T) {
	files := &mockFileService{
		resolveFn: func(requested string) (string, string, error) {
			assert.Equal(t, "missing.pdf", requested)
			return "", "", &service.NotFoundError{Entity: "File"}
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/files/missing.pdf", nil), rec)
	c.SetParamNames("*")
	c.SetParamValues("missing.pdf")

	h := NewUploadHandler(files, nil, nil)
	assertHTTPError(t, h.ServeFile(c), http.StatusNotFound, "File not found")
}

func TestMe_Handler_RequiresBearerToken(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), rec)

	h := NewAuthHandler(&mockAuthService{})
	assertHTTPError(t, h.Me(c), http.StatusUnauthorized, "Authentication required")
}

func TestMe_Handler_Success(t *testing.T) {
	svc := &mockAuthService{
		meFn: func(ctx context.Context, token string) (*models.User, error) {
			assert.Equal(t, "abc.def.ghi", token)
			return &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin, IsActive: true}, nil
		},
	}

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewAuthHandler(svc)
	require.NoError(t, h.Me(c))

	data := decodeData(t, rec)
	assert.Equal(t, "admin", data["username"])
}

func TestLogin_Handler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, req *dto.LoginRequest) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"x","password":"y"}`), rec)

	h := NewAuthHandler(svc)
	assertHTTPError(t, h.Login(c), http.StatusUnauthorized, "Invalid username or password")
}

func TestAnalyticsSales_Handler_RejectsUnknownPeriod(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/analytics/sales?period=decade", nil), rec)

	h := NewAnalyticsHandler(nil)
	assertHTTPError(t, h.Sales(c), http.StatusBadRequest, "Invalid period. Must be one of: month, 3months, year, all")
}

func TestRoutes_ErrorEnvelope(t *testing.T) {
	svc := &mockGuestService{
		getFn: func(ctx context.Context, id uint) (*models.Guest, error) {
			return nil, &service.NotFoundError{Entity: "Guest"}
		},
	}

	e := newEcho()
	e.HTTPErrorHandler = middleware.ErrorHandler(nil)
	NewGuestHandler(svc, nil).RegisterRoutes(e.Group("/api/guests"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guests/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Guest not found", env.Message)
}
