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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActiveNameFilter(t *testing.T) {
	vendor := primitive.NewObjectID()
	exclude := primitive.NewObjectID()

	filter := activeNameFilter("Dal Fry", vendor, primitive.NilObjectID)
	assert.Equal(t, "Dal Fry", filter["name"])
	assert.Equal(t, vendor, filter["vendor"])
	assert.Equal(t, true, filter["isActive"], "soft-deleted items must not block a name")
	_, excluded := filter["_id"]
	assert.False(t, excluded)

	filter = activeNameFilter("Dal Fry", vendor, exclude)
	assert.Equal(t, bson.M{"$ne": exclude}, filter["_id"])
}

type menuItemResponse struct {
	Success   bool            `json:"success"`
	ErrorType string          `json:"errorType"`
	Item      models.MenuItem `json:"item"`
}

// Create-duplicate, soft-delete-then-recreate and restore-collision in one
// lifecycle: a name is unique among a vendor's active items only.
func TestMenuNameUniquenessLifecycle(t *testing.T) {
	requireMongo(t)

	router := gin.New()
	router.POST("/menu", CreateMenuItem())
	router.DELETE("/menu/:id", DeleteMenuItem())
	router.PUT("/menu/:id/restore", RestoreMenuItem())

	vendor := primitive.NewObjectID()
	t.Cleanup(func() {
		menuItemCollection.DeleteMany(context.Background(), bson.M{"vendor": vendor})
	})

	name := "Paneer Tikka " + uuid.NewString()
	payload, err := json.Marshal(gin.H{
		"name":     name,
		"category": "Appetizer",
		"price":    120.0,
		"stock":    10,
		"vendor":   vendor.Hex(),
	})
	require.NoError(t, err)

	w := performRequest(router, http.MethodPost, "/menu", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first menuItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = performRequest(router, http.MethodPost, "/menu", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var dup menuItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	assert.Equal(t, "ITEM_NAME_EXISTS", dup.ErrorType)

	w = performRequest(router, http.MethodDelete, "/menu/"+first.Item.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The soft-deleted original no longer blocks the name.
	w = performRequest(router, http.MethodPost, "/menu", payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Restoring the original now collides with the recreated item.
	w = performRequest(router, http.MethodPut, "/menu/"+first.Item.ID.Hex()+"/restore", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var collision menuItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &collision))
	assert.Equal(t, "ITEM_NAME_EXISTS", collision.ErrorType)
}
