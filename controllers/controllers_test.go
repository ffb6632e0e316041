package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"run2rejuvenate-api/config"
	"run2rejuvenate-api/models"
	"run2rejuvenate-api/routes"
	"run2rejuvenate-api/services"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventParticipant{},
		&models.ProgressEntry{},
		&models.Article{},
		&models.Photo{},
	))

	return db
}

func setupRouter(t *testing.T, db *gorm.DB, storage services.ObjectStorage) *gin.Engine {
	t.Helper()

	cfg := &config.Config{JWTSecret: testJWTSecret}
	router := gin.New()
	routes.SetupRoutes(router, db, cfg, storage, services.NewEmailService(cfg))
	return router
}

func signToken(t *testing.T, authUID, email string, admin bool) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   authUID,
		"email": email,
		"name":  "",
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doMultipart(router *gin.Engine, path, token string, fields map[string]string, fileField, fileName string, fileBody []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	if fileField != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, fileName)}
		header["Content-Type"] = []string{"image/jpeg"}
		part, _ := writer.CreatePart(header)
		part.Write(fileBody)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createTestUser(t *testing.T, db *gorm.DB, authUID, email string, admin bool) models.User {
	t.Helper()

	user := models.User{
		ID:            uuid.New().String(),
		AuthUID:       authUID,
		Email:         email,
		FirstName:     "Test",
		LastName:      "Runner",
		IsAdmin:       admin,
		ContactNumber: "1234567890",
		AgeCategory:   "18-35",
		City:          "Pune",
		State:         "Maharashtra",
		Country:       "India",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, start, end time.Time, targetDistance *float64) models.Event {
	t.Helper()

	event := models.Event{
		ID:          uuid.New().String(),
		Name:        "Monsoon Marathon",
		Description: "Run through the rain",
		EventType:   "running",
		StartDate:   start,
		EndDate:     end,
		CreatedBy:   "dev-admin",
	}
	event.TargetDistance = targetDistance
	require.NoError(t, db.Create(&event).Error)
	return event
}

func registerParticipant(t *testing.T, db *gorm.DB, eventID, userID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.EventParticipant{EventID: eventID, UserID: userID}).Error)
}

func floatPtr(v float64) *float64 { return &v }

// fakeStorage is an in-memory ObjectStorage for handler tests
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "http://media.test/" + key, nil
}

func (f *fakeStorage) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) ListKeys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}
