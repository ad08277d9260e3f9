package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"khana-lineup/database"
	"khana-lineup/models"
	"khana-lineup/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var menuItemCollection *mongo.Collection = database.OpenCollection(database.Client, "menuItems")

// purchasableFilter is the customer-facing catalog predicate: active, enabled
// and actually in stock.
func purchasableFilter() bson.M {
	return bson.M{"available": true, "isActive": true, "stock": bson.M{"$gt": 0}}
}

// activeNameFilter matches another active item of the same vendor carrying
// the same name. Soft-deleted items never block a name; pass exclude to leave
// the item being edited out of its own conflict check.
func activeNameFilter(name string, vendor, exclude primitive.ObjectID) bson.M {
	filter := bson.M{"name": name, "vendor": vendor, "isActive": true}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return filter
}

func menuSort(sortBy string) bson.D {
	switch sortBy {
	case "price-low":
		return bson.D{{Key: "price", Value: 1}}
	case "price-high":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating.average", Value: -1}}
	case "popular":
		return bson.D{{Key: "rating.count", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func GetMenuItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		filter := purchasableFilter()

		if vendor := c.Query("vendor"); vendor != "" {
			vendorID, err := primitive.ObjectIDFromHex(vendor)
			if err != nil {
				badRequest(c, "Invalid vendor id")
				return
			}
			filter["vendor"] = vendorID
		}
		if category := c.Query("category"); category != "" && category != "all" {
			filter["category"] = category
		}
		if search := c.Query("search"); search != "" {
			regex := primitive.Regex{Pattern: search, Options: "i"}
			filter["$or"] = bson.A{
				bson.M{"name": regex},
				bson.M{"description": regex},
				bson.M{"tags": regex},
			}
		}

		page, limit := pagination(c, 50)
		skip := int64((page - 1) * limit)

		cursor, err := menuItemCollection.Find(ctx, filter, options.Find().
			SetSort(menuSort(c.Query("sortBy"))).
			SetSkip(skip).
			SetLimit(int64(limit)))
		if err != nil {
			internalError(c, "Server error fetching menu items", err)
			return
		}

		var items []models.MenuItem
		if err := cursor.All(ctx, &items); err != nil {
			internalError(c, "Server error fetching menu items", err)
			return
		}

		totalItems, err := menuItemCollection.CountDocuments(ctx, filter)
		if err != nil {
			internalError(c, "Server error fetching menu items", err)
			return
		}
		totalPages := (totalItems + int64(limit) - 1) / int64(limit)

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"count":       len(items),
			"totalItems":  totalItems,
			"totalPages":  totalPages,
			"currentPage": page,
			"items":       items,
		})
	}
}

func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		categories, err := menuItemCollection.Distinct(ctx, "category", purchasableFilter())
		if err != nil {
			internalError(c, "Server error fetching categories", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

func GetMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			notFound(c, "Menu item not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
	}
}

func CreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var item models.MenuItem
		if err := c.BindJSON(&item); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := validate.Struct(&item); err != nil {
			badRequest(c, err.Error())
			return
		}
		if !models.ValidCategory(item.Category) {
			badRequest(c, "Invalid category")
			return
		}
		if item.Vendor.IsZero() {
			badRequest(c, "Vendor is required")
			return
		}

		count, err := menuItemCollection.CountDocuments(ctx,
			activeNameFilter(item.Name, item.Vendor, primitive.NilObjectID))
		if err != nil {
			internalError(c, "Server error creating menu item", err)
			return
		}
		if count > 0 {
			conflict(c, http.StatusBadRequest, "An item with this name already exists in your menu", "ITEM_NAME_EXISTS")
			return
		}

		item.ID = primitive.NewObjectID()
		item.IsActive = true
		item.Available = true
		item.ReconcileAvailability()
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt

		if _, err := menuItemCollection.InsertOne(ctx, item); err != nil {
			internalError(c, "Server error creating menu item", err)
			return
		}

		realtime.MenuCreated(item)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Menu item created successfully", "item": item})
	}
}

func UpdateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var req struct {
			Name            *string         `json:"name"`
			Description     *string         `json:"description"`
			Price           *float64        `json:"price"`
			Category        *string         `json:"category"`
			ImageURL        *string         `json:"imageUrl"`
			Stock           *int            `json:"stock"`
			Available       *bool           `json:"available"`
			Tags            *[]string       `json:"tags"`
			Dietary         *models.Dietary `json:"dietary"`
			PreparationTime *int            `json:"preparationTime"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var current models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&current); err != nil {
			notFound(c, "Menu item not found")
			return
		}

		var updateObj primitive.D
		if req.Name != nil && *req.Name != current.Name {
			count, err := menuItemCollection.CountDocuments(ctx,
				activeNameFilter(*req.Name, current.Vendor, itemID))
			if err != nil {
				internalError(c, "Server error updating menu item", err)
				return
			}
			if count > 0 {
				conflict(c, http.StatusBadRequest, "An item with this name already exists in your menu", "ITEM_NAME_EXISTS")
				return
			}
			updateObj = append(updateObj, bson.E{Key: "name", Value: *req.Name})
		}
		if req.Description != nil {
			updateObj = append(updateObj, bson.E{Key: "description", Value: *req.Description})
		}
		if req.Price != nil {
			if *req.Price < 0 {
				badRequest(c, "Price must not be negative")
				return
			}
			updateObj = append(updateObj, bson.E{Key: "price", Value: *req.Price})
		}
		if req.Category != nil {
			if !models.ValidCategory(*req.Category) {
				badRequest(c, "Invalid category")
				return
			}
			updateObj = append(updateObj, bson.E{Key: "category", Value: *req.Category})
		}
		if req.ImageURL != nil {
			updateObj = append(updateObj, bson.E{Key: "imageUrl", Value: *req.ImageURL})
		}
		if req.Tags != nil {
			updateObj = append(updateObj, bson.E{Key: "tags", Value: *req.Tags})
		}
		if req.Dietary != nil {
			updateObj = append(updateObj, bson.E{Key: "dietary", Value: *req.Dietary})
		}
		if req.PreparationTime != nil {
			updateObj = append(updateObj, bson.E{Key: "preparationTime", Value: *req.PreparationTime})
		}
		if req.Stock != nil || req.Available != nil {
			if req.Stock != nil {
				if *req.Stock < 0 {
					badRequest(c, "Stock must not be negative")
					return
				}
				current.Stock = *req.Stock
			}
			if req.Available != nil {
				current.Available = *req.Available
			}
			current.ReconcileAvailability()
			updateObj = append(updateObj, bson.E{Key: "stock", Value: current.Stock})
			updateObj = append(updateObj, bson.E{Key: "available", Value: current.Available})
		}
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

		var item models.MenuItem
		err = menuItemCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": itemID},
			bson.D{{Key: "$set", Value: updateObj}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&item)
		if err != nil {
			internalError(c, "Server error updating menu item", err)
			return
		}

		realtime.MenuUpdated(item)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item updated successfully", "item": item})
	}
}

// AdjustStock is the vendor-facing manual stock adjustment. Decreases floor at
// zero; order placement uses its own conditional decrement instead.
func AdjustStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var req struct {
			Quantity  int    `json:"quantity"`
			Direction string `json:"direction"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Quantity <= 0 {
			badRequest(c, "Valid quantity is required")
			return
		}
		if req.Direction != models.StockIncrease && req.Direction != models.StockDecrease {
			badRequest(c, "Direction must be increase or decrease")
			return
		}

		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			notFound(c, "Menu item not found")
			return
		}

		item.ApplyStock(req.Quantity, req.Direction)
		item.UpdatedAt = time.Now()

		_, err = menuItemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: item.Stock},
			{Key: "available", Value: item.Available},
			{Key: "updatedAt", Value: item.UpdatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error updating stock", err)
			return
		}

		realtime.MenuUpdated(item)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock updated successfully", "item": item})
	}
}

func RateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var req struct {
			Rating float64 `json:"rating"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			badRequest(c, "Rating must be between 1 and 5")
			return
		}

		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			notFound(c, "Menu item not found")
			return
		}

		item.AddRating(req.Rating)
		item.UpdatedAt = time.Now()

		_, err = menuItemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: item.Rating},
			{Key: "updatedAt", Value: item.UpdatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error adding rating", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rating added successfully", "item": item})
	}
}

func ToggleAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			notFound(c, "Menu item not found")
			return
		}

		item.Available = !item.Available
		// Out-of-stock items stay unavailable no matter what.
		item.ReconcileAvailability()
		item.UpdatedAt = time.Now()

		_, err = menuItemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "available", Value: item.Available},
			{Key: "updatedAt", Value: item.UpdatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error toggling availability", err)
			return
		}

		state := "disabled"
		if item.Available {
			state = "enabled"
		}
		realtime.MenuUpdated(item)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Item %s successfully", state), "item": item})
	}
}

func DeleteMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		result, err := menuItemCollection.UpdateOne(ctx,
			bson.M{"_id": itemID},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "isActive", Value: false},
				{Key: "updatedAt", Value: time.Now()},
			}}})
		if err != nil {
			internalError(c, "Server error deleting menu item", err)
			return
		}
		if result.MatchedCount == 0 {
			notFound(c, "Menu item not found")
			return
		}

		realtime.MenuDeleted(itemID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted successfully"})
	}
}

func RestoreMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid menu item id")
			return
		}

		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			notFound(c, "Menu item not found")
			return
		}
		if item.IsActive {
			badRequest(c, "Menu item is already active")
			return
		}

		count, err := menuItemCollection.CountDocuments(ctx,
			activeNameFilter(item.Name, item.Vendor, itemID))
		if err != nil {
			internalError(c, "Server error restoring menu item", err)
			return
		}
		if count > 0 {
			conflict(c, http.StatusBadRequest, "Cannot restore: An active item with this name already exists in your menu", "ITEM_NAME_EXISTS")
			return
		}

		item.IsActive = true
		item.UpdatedAt = time.Now()
		_, err = menuItemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "isActive", Value: true},
			{Key: "updatedAt", Value: item.UpdatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error restoring menu item", err)
			return
		}

		realtime.MenuUpdated(item)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item restored successfully", "item": item})
	}
}

// GetVendorMenu lists a vendor's own catalog, optionally including
// soft-deleted items so they can be restored.
func GetVendorMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		vendorID, err := primitive.ObjectIDFromHex(c.Param("vendorId"))
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		filter := bson.M{"vendor": vendorID}
		if c.Query("includeInactive") != "true" {
			filter["isActive"] = true
		}

		cursor, err := menuItemCollection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
		if err != nil {
			internalError(c, "Server error fetching vendor menu", err)
			return
		}

		var items []models.MenuItem
		if err := cursor.All(ctx, &items); err != nil {
			internalError(c, "Server error fetching vendor menu", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "items": items})
	}
}
