package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kyz7/wip/internal/admin"
	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/auth"
	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/mailer"
	"github.com/Kyz7/wip/internal/metrics"
	"github.com/Kyz7/wip/internal/models"
	"github.com/Kyz7/wip/internal/otp"
	"github.com/Kyz7/wip/internal/server"
	"github.com/Kyz7/wip/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MailRecorder captures dispatched mail in memory.
type MailRecorder struct {
	mu   sync.Mutex
	Sent []Mail
}

type Mail struct {
	To, Subject, Body string
}

func (r *MailRecorder) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *MailRecorder) Name() string { return "recorder" }

func (r *MailRecorder) Messages() []Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Mail(nil), r.Sent...)
}

// TestEnv is a fully wired app over an in-memory database.
type TestEnv struct {
	App     *fiber.App
	DB      *gorm.DB
	Manager *auth.Manager
	OTP     *otp.Service
	Mailer  *mailer.Dispatcher
	Mail    *MailRecorder
	Metrics *metrics.Metrics
	Tokens  *utils.TokenCodec
	Logs    *test.Hook
}

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "Failed to create test database")

	// every pooled connection to :memory: would otherwise get its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...), "Failed to migrate test database")
	require.NoError(t, area.SeedRegions(db), "Failed to seed regions")

	return db
}

func TestTokens(t *testing.T) *utils.TokenCodec {
	tokens, err := utils.NewTokenCodec(utils.TokenConfig{
		Algorithm:     "HS256",
		AccessSecret:  "test-access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "test-refresh-secret",
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func NewTestEnv(t *testing.T) *TestEnv {
	db := TestDB(t)
	database.DB = db

	require.NoError(t, utils.InitLocalStorage(), "Failed to initialize storage")
	utils.SetStorageMode(true)

	logger, hook := test.NewNullLogger()
	m := metrics.New()
	recorder := &MailRecorder{}
	dispatcher := mailer.NewDispatcher(recorder, logger, m)
	tokens := TestTokens(t)

	manager := auth.NewManager(admin.NewRepository(db), tokens, dispatcher, logger, m)
	otpService := otp.NewService(otp.NewMemoryStore(time.Minute, time.Minute), dispatcher, logger, m)

	app := server.New(db, server.Services{
		Auth:    manager,
		OTP:     otpService,
		Metrics: m,
		Log:     logger,
	})

	return &TestEnv{
		App:     app,
		DB:      db,
		Manager: manager,
		OTP:     otpService,
		Mailer:  dispatcher,
		Mail:    recorder,
		Metrics: m,
		Tokens:  tokens,
		Logs:    hook,
	}
}

func SetupTestApp(t *testing.T) *fiber.App {
	return NewTestEnv(t).App
}

// CreateTestAdmin signs an admin up through the manager and returns it.
func (e *TestEnv) CreateTestAdmin(t *testing.T, email, password, nickname string) *models.AdminInfo {
	info, err := e.Manager.Signup(context.Background(), auth.SignupInput{
		Email:    email,
		Password: password,
		Nickname: nickname,
	})
	require.NoError(t, err, "Failed to create test admin")
	return info
}

// GetAuthToken logs the admin in and returns the issued pair.
func (e *TestEnv) GetAuthToken(t *testing.T, email, password string) *auth.LoginResult {
	result, err := e.Manager.Login(context.Background(), email, password)
	require.NoError(t, err, "Failed to log in test admin")
	e.Mailer.Wait()
	return result
}

// AdminToken creates a fresh admin and returns its access token.
func (e *TestEnv) AdminToken(t *testing.T) string {
	e.CreateTestAdmin(t, "admin@wip.kr", "password123", "admin")
	return e.GetAuthToken(t, "admin@wip.kr", "password123").AccessToken
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	require.NotNil(t, result.Error, "Expected error object")
	assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
}

type UploadFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// MakeMultipartRequestWithFile uploads each file under its field name with
// the given file name.
func MakeMultipartRequestWithFile(app *fiber.App, method, url string, fields map[string]string, files map[string]UploadFile, token string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Add text fields
	for key, val := range fields {
		writer.WriteField(key, val)
	}

	// Add file fields
	for fieldName, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		part.Write(file.Content)
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}
