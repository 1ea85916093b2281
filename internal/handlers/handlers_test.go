package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkotelnikov/sweet-shop/internal/models"
	"github.com/dkotelnikov/sweet-shop/internal/mykafka"
	"github.com/dkotelnikov/sweet-shop/internal/service"
	"github.com/dkotelnikov/sweet-shop/internal/store"
)

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	A      *AuthHandler
	S      *SweetHandler
	Tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	tokens := service.NewTokenService([]byte("test-secret"))
	prod := mykafka.NewProducer(nil)

	return &testEnv{
		E:      echo.New(),
		DB:     db,
		A:      &AuthHandler{Users: &store.UserStore{DB: db}, Tokens: tokens, Producer: prod},
		S:      &SweetHandler{Sweets: &store.SweetStore{DB: db}, Producer: prod},
		Tokens: tokens,
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, payload interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func httpErr(t *testing.T, err error) *echo.HTTPError {
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he
}
