package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkotelnikov/sweet-shop/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"email":    "alice@example.com",
		"password": "password",
		"name":     "Alice",
	}
	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", payload)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "User registered successfully", resp["message"])

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEqual(t, "password", user.PasswordHash)
}

func TestRegisterDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"password": "password",
	})
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "bob@example.com").First(&user).Error)
	require.Equal(t, "Sweet Lover", user.Name)
	require.Equal(t, models.RoleUser, user.Role)
}

func TestRegisterSelfAssignedAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "root@example.com",
		"password": "password",
		"role":     "admin",
	})
	require.NoError(t, env.A.Register(c))

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "root@example.com").First(&user).Error)
	require.Equal(t, models.RoleAdmin, user.Role)
}

func TestRegisterConflict(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"email": "dup@example.com", "password": "password"}
	_, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", payload)
	require.NoError(t, env.A.Register(c))

	_, c = env.doJSONRequest(t, http.MethodPost, "/api/auth/register", payload)
	he := httpErr(t, env.A.Register(c))
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "User already exists", he.Message)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@y.z"})
	he := httpErr(t, env.A.Register(c))
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "carol@example.com",
		"password": "password",
		"name":     "Carol",
	})
	require.NoError(t, env.A.Register(c))

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "carol@example.com",
		"password": "password",
	})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Carol", resp.User.Name)
	require.Equal(t, "carol@example.com", resp.User.Email)
	require.Equal(t, models.RoleUser, resp.User.Role)

	claims, err := env.Tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, models.RoleUser, claims.Role)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "dave@example.com",
		"password": "password",
	})
	require.NoError(t, env.A.Register(c))

	_, c = env.doJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "dave@example.com",
		"password": "wrong",
	})
	wrongPw := httpErr(t, env.A.Login(c))

	_, c = env.doJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password",
	})
	unknown := httpErr(t, env.A.Login(c))

	require.Equal(t, http.StatusBadRequest, wrongPw.Code)
	require.Equal(t, wrongPw.Code, unknown.Code)
	require.Equal(t, wrongPw.Message, unknown.Message)
}
