package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
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

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "orders")
var counterCollection *mongo.Collection = database.OpenCollection(database.Client, "counters")

// nextTokenID hands out the human-facing queue number. The counter document is
// keyed by the local calendar day and bumped atomically, so concurrent
// placements cannot collide and tokens restart at 1 each day.
func nextTokenID(ctx context.Context, now time.Time) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := counterCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": models.TokenDayKey(now)},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: 1}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		filter := bson.M{}
		if customer := c.Query("customer"); customer != "" {
			customerID, err := primitive.ObjectIDFromHex(customer)
			if err != nil {
				badRequest(c, "Invalid customer id")
				return
			}
			filter["customer"] = customerID
		}
		if vendor := c.Query("vendor"); vendor != "" {
			vendorID, err := primitive.ObjectIDFromHex(vendor)
			if err != nil {
				badRequest(c, "Invalid vendor id")
				return
			}
			filter["vendor"] = vendorID
		}
		if status := c.Query("status"); status != "" {
			if !models.ValidStatus(status) {
				badRequest(c, "Invalid status")
				return
			}
			filter["status"] = status
		}

		page, limit := pagination(c, 50)
		sortOrder := -1
		if c.Query("sortOrder") == "asc" {
			sortOrder = 1
		}
		sortBy := c.DefaultQuery("sortBy", "createdAt")

		cursor, err := orderCollection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
			SetSkip(int64((page-1)*limit)).
			SetLimit(int64(limit)))
		if err != nil {
			internalError(c, "Server error fetching orders", err)
			return
		}

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			internalError(c, "Server error fetching orders", err)
			return
		}

		totalOrders, err := orderCollection.CountDocuments(ctx, filter)
		if err != nil {
			internalError(c, "Server error fetching orders", err)
			return
		}
		totalPages := (totalOrders + int64(limit) - 1) / int64(limit)

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"count":       len(orders),
			"totalOrders": totalOrders,
			"totalPages":  totalPages,
			"currentPage": page,
			"orders":      orders,
		})
	}
}

func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

type placeOrderRequest struct {
	Customer    string            `json:"customer"`
	Vendor      string            `json:"vendor"`
	Items       []placeOrderLine  `json:"items"`
	Notes       string            `json:"notes"`
	Delivery    *models.Delivery  `json:"delivery"`
	Discounts   []models.Discount `json:"discounts"`
	Tax         *models.Tax       `json:"tax"`
	TotalAmount float64           `json:"totalAmount"`
	Payment     string            `json:"paymentMethod"`
}

type placeOrderLine struct {
	MenuItem            string `json:"menuItem"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
}

// CreateOrder places an order: validate the referenced catalog items, snapshot
// name and price into the line items, allocate the daily token, then persist
// the order and decrement stock inside one transaction. A decrement that
// cannot be satisfied aborts the whole placement.
func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var req placeOrderRequest
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Customer == "" || req.Vendor == "" || len(req.Items) == 0 {
			badRequest(c, "Customer, vendor, and items are required")
			return
		}

		customerID, err := primitive.ObjectIDFromHex(req.Customer)
		if err != nil {
			badRequest(c, "Invalid customer id")
			return
		}
		vendorID, err := primitive.ObjectIDFromHex(req.Vendor)
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		itemIDs := make([]primitive.ObjectID, 0, len(req.Items))
		for _, line := range req.Items {
			if line.Quantity < 1 {
				badRequest(c, "Each item quantity must be at least 1")
				return
			}
			itemID, err := primitive.ObjectIDFromHex(line.MenuItem)
			if err != nil {
				badRequest(c, "Invalid menu item id")
				return
			}
			itemIDs = append(itemIDs, itemID)
		}

		cursor, err := menuItemCollection.Find(ctx, bson.M{
			"_id":      bson.M{"$in": itemIDs},
			"isActive": true,
		})
		if err != nil {
			internalError(c, "Server error creating order", err)
			return
		}
		var menuItems []models.MenuItem
		if err := cursor.All(ctx, &menuItems); err != nil {
			internalError(c, "Server error creating order", err)
			return
		}

		byID := make(map[primitive.ObjectID]models.MenuItem, len(menuItems))
		for _, item := range menuItems {
			byID[item.ID] = item
		}

		now := time.Now()
		order := models.Order{
			ID:            primitive.NewObjectID(),
			Customer:      customerID,
			Vendor:        vendorID,
			Status:        models.StatusOrdered,
			TotalAmount:   req.TotalAmount,
			Discounts:     req.Discounts,
			PaymentMethod: "cash",
			PaymentStatus: "pending",
			Timestamps:    map[string]time.Time{models.StatusOrdered: now},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if req.Payment != "" {
			order.PaymentMethod = req.Payment
		}
		if req.Delivery != nil {
			order.Delivery = *req.Delivery
		} else {
			order.Delivery = models.Delivery{Type: "pickup"}
		}
		if req.Tax != nil {
			order.Tax = *req.Tax
		}
		order.AppendNote(models.RoleCustomer, req.Notes)

		for i, line := range req.Items {
			menuItem, ok := byID[itemIDs[i]]
			if !ok {
				badRequest(c, "Some menu items are not available")
				return
			}
			// A sold-out item reads as a stock problem, not a vendor-disabled one.
			if menuItem.Stock < line.Quantity {
				conflict(c, http.StatusBadRequest,
					fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d",
						menuItem.Name, menuItem.Stock, line.Quantity),
					"INSUFFICIENT_STOCK")
				return
			}
			if !menuItem.Available {
				badRequest(c, "Some menu items are not available")
				return
			}
			order.Items = append(order.Items, models.OrderItem{
				MenuItem:            menuItem.ID,
				Name:                menuItem.Name,
				Price:               menuItem.Price,
				Quantity:            line.Quantity,
				SpecialInstructions: line.SpecialInstructions,
			})
		}
		order.ComputeTotals()

		tokenID, err := nextTokenID(ctx, now)
		if err != nil {
			internalError(c, "Server error creating order", err)
			return
		}
		order.TokenID = tokenID

		session, err := database.Client.StartSession()
		if err != nil {
			internalError(c, "Server error creating order", err)
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := orderCollection.InsertOne(sc, order); err != nil {
				return nil, err
			}
			for _, line := range order.Items {
				if err := decrementStock(sc, line.MenuItem, line.Quantity); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		if err != nil {
			var insufficient *insufficientStockError
			if errors.As(err, &insufficient) {
				conflict(c, http.StatusBadRequest, insufficient.Error(), "INSUFFICIENT_STOCK")
				return
			}
			internalError(c, "Server error creating order", err)
			return
		}

		realtime.OrderCreated(order)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order placed successfully", "order": order})
	}
}

type insufficientStockError struct {
	name      string
	available int
	requested int
}

func (e *insufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", e.name, e.available, e.requested)
}

// decrementStock takes quantity units off a menu item, guarded so stock can
// never go below zero even under concurrent placements. Hitting zero flips the
// item unavailable in the same logical unit.
func decrementStock(ctx context.Context, itemID primitive.ObjectID, quantity int) error {
	result, err := menuItemCollection.UpdateOne(ctx,
		bson.M{"_id": itemID, "stock": bson.M{"$gte": quantity}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: -quantity}}}})
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		var item models.MenuItem
		if err := menuItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			return fmt.Errorf("menu item %s no longer exists", itemID.Hex())
		}
		return &insufficientStockError{name: item.Name, available: item.Stock, requested: quantity}
	}

	_, err = menuItemCollection.UpdateOne(ctx,
		bson.M{"_id": itemID, "stock": 0},
		bson.D{{Key: "$set", Value: bson.D{{Key: "available", Value: false}}}})
	return err
}

// restoreStock is the inverse of decrementStock, used on cancellation and hard
// delete of non-terminal orders.
func restoreStock(ctx context.Context, order models.Order) error {
	for _, line := range order.Items {
		_, err := menuItemCollection.UpdateOne(ctx,
			bson.M{"_id": line.MenuItem},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: line.Quantity}}}})
		if err != nil {
			return err
		}
		_, err = menuItemCollection.UpdateOne(ctx,
			bson.M{"_id": line.MenuItem, "stock": bson.M{"$gt": 0}, "isActive": true},
			bson.D{{Key: "$set", Value: bson.D{{Key: "available", Value: true}}}})
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateOrder mutates the vendor-adjustable order details outside the status
// machine, currently the estimated preparation time and notes.
func UpdateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		var req struct {
			EstimatedTime *int    `json:"estimatedTime"`
			Notes         *string `json:"notes"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}

		var updateObj primitive.D
		if req.EstimatedTime != nil {
			if *req.EstimatedTime < 0 {
				badRequest(c, "Estimated time must not be negative")
				return
			}
			updateObj = append(updateObj, bson.E{Key: "estimatedTime", Value: *req.EstimatedTime})
		}
		if req.Notes != nil {
			order.AppendNote(models.RoleVendor, *req.Notes)
			updateObj = append(updateObj, bson.E{Key: "notes", Value: order.Notes})
		}
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

		err = orderCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": orderID},
			bson.D{{Key: "$set", Value: updateObj}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err != nil {
			internalError(c, "Server error updating order", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order updated successfully", "order": order})
	}
}

func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		var req struct {
			Status        string `json:"status"`
			Notes         string `json:"notes"`
			EstimatedTime *int   `json:"estimatedTime"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if !models.ValidStatus(req.Status) {
			badRequest(c, "Invalid status")
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}

		if err := order.ApplyStatus(req.Status, time.Now()); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.EstimatedTime != nil {
			order.EstimatedTime = *req.EstimatedTime
		}
		order.AppendNote(models.RoleVendor, req.Notes)
		order.UpdatedAt = time.Now()

		_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: order.Status},
			{Key: "timestamps", Value: order.Timestamps},
			{Key: "actualTime", Value: order.ActualTime},
			{Key: "estimatedTime", Value: order.EstimatedTime},
			{Key: "notes", Value: order.Notes},
			{Key: "updatedAt", Value: order.UpdatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error updating order status", err)
			return
		}

		realtime.OrderStatusUpdated(order)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated successfully", "order": order})
	}
}

// CancelOrder cancels a non-terminal order and gives the consumed stock back
// to the catalog, both inside one transaction.
func CancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		// Reason and cancelledBy are optional; a bodyless cancel is valid.
		var req struct {
			Reason      string `json:"reason"`
			CancelledBy string `json:"cancelledBy"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err.Error())
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}
		if order.Terminal() {
			badRequest(c, "Cannot cancel completed or already cancelled orders")
			return
		}

		now := time.Now()
		if err := order.ApplyStatus(models.StatusCancelled, now); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Reason != "" {
			if req.CancelledBy == models.RoleCustomer {
				order.AppendNote(models.RoleCustomer, "Cancelled by customer: "+req.Reason)
			} else {
				order.AppendNote(models.RoleVendor, "Cancelled: "+req.Reason)
			}
		}
		order.UpdatedAt = now

		session, err := database.Client.StartSession()
		if err != nil {
			internalError(c, "Server error cancelling order", err)
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if err := restoreStock(sc, order); err != nil {
				return nil, err
			}
			_, err := orderCollection.UpdateOne(sc, bson.M{"_id": orderID}, bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: order.Status},
				{Key: "timestamps", Value: order.Timestamps},
				{Key: "notes", Value: order.Notes},
				{Key: "updatedAt", Value: order.UpdatedAt},
			}}})
			return nil, err
		})
		if err != nil {
			internalError(c, "Server error cancelling order", err)
			return
		}

		realtime.OrderCancelled(order)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully", "order": order})
	}
}

// DeleteOrder removes the record permanently. Orders that never reached a
// terminal state hand their stock back first.
func DeleteOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}

		session, err := database.Client.StartSession()
		if err != nil {
			internalError(c, "Server error deleting order", err)
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if !order.Terminal() {
				if err := restoreStock(sc, order); err != nil {
					return nil, err
				}
			}
			_, err := orderCollection.DeleteOne(sc, bson.M{"_id": orderID})
			return nil, err
		})
		if err != nil {
			internalError(c, "Server error deleting order", err)
			return
		}

		realtime.OrderDeleted(orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully"})
	}
}

func RateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid order id")
			return
		}

		var rating models.OrderRating
		if err := c.BindJSON(&rating); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := validate.Struct(&rating); err != nil {
			badRequest(c, "Food, service, and overall ratings must be between 1 and 5")
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			notFound(c, "Order not found")
			return
		}
		if order.Status != models.StatusCompleted {
			badRequest(c, "Can only rate completed orders")
			return
		}

		rating.RatedAt = time.Now()
		order.Rating = &rating

		_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: rating},
			{Key: "updatedAt", Value: rating.RatedAt},
		}}})
		if err != nil {
			internalError(c, "Server error adding rating", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rating added successfully", "order": order})
	}
}

func GetCustomerOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		customerID, err := primitive.ObjectIDFromHex(c.Param("customerId"))
		if err != nil {
			badRequest(c, "Invalid customer id")
			return
		}

		filter := bson.M{"customer": customerID}
		if status := c.Query("status"); status != "" {
			if !models.ValidStatus(status) {
				badRequest(c, "Invalid status")
				return
			}
			filter["status"] = status
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 {
			limit = 20
		}

		cursor, err := orderCollection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)))
		if err != nil {
			internalError(c, "Server error fetching customer orders", err)
			return
		}

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			internalError(c, "Server error fetching customer orders", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "orders": orders})
	}
}

func GetVendorOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		vendorID, err := primitive.ObjectIDFromHex(c.Param("vendorId"))
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		filter := bson.M{"vendor": vendorID}
		if status := c.Query("status"); status != "" {
			if !models.ValidStatus(status) {
				badRequest(c, "Invalid status")
				return
			}
			filter["status"] = status
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 {
			limit = 50
		}

		cursor, err := orderCollection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)))
		if err != nil {
			internalError(c, "Server error fetching vendor orders", err)
			return
		}

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			internalError(c, "Server error fetching vendor orders", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "orders": orders})
	}
}

// GetAnalytics aggregates completed-order revenue and the most ordered items
// for a vendor over the trailing N days.
func GetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		vendorID, err := primitive.ObjectIDFromHex(c.Param("vendorId"))
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
		if err != nil || days < 1 {
			days = 7
		}
		endDate := time.Now()
		startDate := endDate.AddDate(0, 0, -days)

		match := bson.D{{Key: "$match", Value: bson.M{
			"vendor": vendorID,
			"status": models.StatusCompleted,
			"timestamps.completed": bson.M{
				"$gte": startDate,
				"$lte": endDate,
			},
		}}}

		summaryGroup := bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
			{Key: "averageOrderValue", Value: bson.D{{Key: "$avg", Value: "$totalAmount"}}},
			{Key: "averagePreparationTime", Value: bson.D{{Key: "$avg", Value: "$actualTime"}}},
		}}}

		cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{match, summaryGroup})
		if err != nil {
			internalError(c, "Server error fetching analytics", err)
			return
		}
		var summaries []bson.M
		if err := cursor.All(ctx, &summaries); err != nil {
			internalError(c, "Server error fetching analytics", err)
			return
		}

		analytics := bson.M{
			"totalOrders":            0,
			"totalRevenue":           0,
			"averageOrderValue":      0,
			"averagePreparationTime": 0,
		}
		if len(summaries) > 0 {
			analytics = summaries[0]
		}

		unwind := bson.D{{Key: "$unwind", Value: "$items"}}
		itemGroup := bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.menuItem"},
			{Key: "itemName", Value: bson.D{{Key: "$first", Value: "$items.name"}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$items.subtotal"}}},
			{Key: "orderCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}
		sort := bson.D{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}}
		limit := bson.D{{Key: "$limit", Value: 10}}
		lookup := bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "menuItems"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItem"},
		}}}

		cursor, err = orderCollection.Aggregate(ctx, mongo.Pipeline{match, unwind, itemGroup, sort, limit, lookup})
		if err != nil {
			internalError(c, "Server error fetching analytics", err)
			return
		}
		var popularItems []bson.M
		if err := cursor.All(ctx, &popularItems); err != nil {
			internalError(c, "Server error fetching analytics", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"period": gin.H{
				"startDate": startDate,
				"endDate":   endDate,
				"days":      days,
			},
			"analytics":    analytics,
			"popularItems": popularItems,
		})
	}
}
