package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"khana-lineup/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hashed)
	assert.True(t, VerifyPassword("secret123", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))
}

// Registration responds with usable access and refresh tokens while the
// password hash stays server-side.
func TestRegisterReturnsTokens(t *testing.T) {
	requireMongo(t)
	t.Setenv("SECRET_KEY", "test-signing-key")

	router := gin.New()
	router.POST("/auth/register", Register())

	email := "user-" + uuid.NewString() + "@example.com"
	t.Cleanup(func() {
		userCollection.DeleteOne(context.Background(), bson.M{"email": email})
	})

	payload, err := json.Marshal(gin.H{
		"email":    email,
		"password": "secret123",
		"name":     "Asha Rao",
		"role":     "customer",
	})
	require.NoError(t, err)

	w := performRequest(router, http.MethodPost, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.User.Token)
	assert.NotEmpty(t, resp.User.RefreshToken)
	assert.Empty(t, resp.User.Password)
}
