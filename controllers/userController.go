package controllers

import (
	"context"
	"net/http"
	"time"

	"khana-lineup/database"
	"khana-lineup/helpers"
	"khana-lineup/models"
	"khana-lineup/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "users")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(providedPassword string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)) == nil
}

func Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			badRequest(c, err.Error())
			return
		}
		if user.Role == "" {
			user.Role = models.RoleCustomer
		}
		user.Email = models.NormalizeEmail(user.Email)

		if err := validate.Struct(&user); err != nil {
			badRequest(c, err.Error())
			return
		}

		count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
		if err != nil {
			internalError(c, "Server error during registration", err)
			return
		}
		if count > 0 {
			conflict(c, http.StatusBadRequest, "User with this email already exists", "EMAIL_EXISTS")
			return
		}

		hashed, err := HashPassword(user.Password)
		if err != nil {
			internalError(c, "Server error during registration", err)
			return
		}
		user.Password = hashed

		user.ID = primitive.NewObjectID()
		user.IsActive = true
		user.IsApproved = user.Role != models.RoleVendor
		if user.Role == models.RoleVendor && user.RestaurantName == "" {
			user.RestaurantName = models.DefaultRestaurantName(user.Name)
		}
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		token, refreshToken, err := helpers.GenerateAllTokens(user.Email, user.Name, user.ID.Hex(), user.Role)
		if err != nil {
			internalError(c, "Server error during registration", err)
			return
		}
		user.Token = token
		user.RefreshToken = refreshToken

		if _, err := userCollection.InsertOne(ctx, user); err != nil {
			internalError(c, "Server error during registration", err)
			return
		}

		user.Sanitize()
		user.Token = token
		user.RefreshToken = refreshToken
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"user":    user,
		})
	}
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&creds); err != nil {
			badRequest(c, err.Error())
			return
		}
		if creds.Email == "" || creds.Password == "" {
			badRequest(c, "Email and password are required")
			return
		}

		var user models.User
		err := userCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(creds.Email)}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			conflict(c, http.StatusNotFound, "Email not found. Please check your email or register for a new account.", "EMAIL_NOT_FOUND")
			return
		}
		if err != nil {
			internalError(c, "Server error during login", err)
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Account is deactivated. Please contact support."})
			return
		}
		if user.Role == models.RoleVendor && !user.IsApproved {
			conflict(c, http.StatusForbidden, "Your vendor account is awaiting admin approval", "VENDOR_PENDING_APPROVAL")
			return
		}
		if !VerifyPassword(creds.Password, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		token, refreshToken, err := helpers.GenerateAllTokens(user.Email, user.Name, user.ID.Hex(), user.Role)
		if err != nil {
			internalError(c, "Server error during login", err)
			return
		}

		now := time.Now()
		_, err = userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "token", Value: token},
			{Key: "refreshToken", Value: refreshToken},
			{Key: "lastLogin", Value: now},
			{Key: "updatedAt", Value: now},
		}}})
		if err != nil {
			internalError(c, "Server error during login", err)
			return
		}

		user.LastLogin = &now
		user.Sanitize()
		user.Token = token
		user.RefreshToken = refreshToken
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"user":    user,
		})
	}
}

func GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		filter := bson.M{}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}
		if active := c.Query("active"); active != "" {
			filter["isActive"] = active == "true"
		}

		cursor, err := userCollection.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			internalError(c, "Server error fetching users", err)
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			internalError(c, "Server error fetching users", err)
			return
		}
		for i := range users {
			users[i].Sanitize()
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "users": users})
	}
}

func GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid user id")
			return
		}

		var user models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			notFound(c, "User not found")
			return
		}
		user.Sanitize()
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid user id")
			return
		}

		var req struct {
			Name           *string         `json:"name"`
			Phone          *string         `json:"phone"`
			Address        *models.Address `json:"address"`
			RestaurantName *string         `json:"restaurantName"`
			Password       *string         `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var updateObj primitive.D
		if req.Name != nil {
			updateObj = append(updateObj, bson.E{Key: "name", Value: *req.Name})
		}
		if req.Phone != nil {
			updateObj = append(updateObj, bson.E{Key: "phone", Value: *req.Phone})
		}
		if req.Address != nil {
			updateObj = append(updateObj, bson.E{Key: "address", Value: *req.Address})
		}
		if req.RestaurantName != nil {
			updateObj = append(updateObj, bson.E{Key: "restaurantName", Value: *req.RestaurantName})
		}
		if req.Password != nil {
			if len(*req.Password) < 6 {
				badRequest(c, "Password must be at least 6 characters long")
				return
			}
			hashed, err := HashPassword(*req.Password)
			if err != nil {
				internalError(c, "Server error updating user", err)
				return
			}
			updateObj = append(updateObj, bson.E{Key: "password", Value: hashed})
		}
		updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

		var user models.User
		err = userCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.D{{Key: "$set", Value: updateObj}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			notFound(c, "User not found")
			return
		}
		if err != nil {
			internalError(c, "Server error updating user", err)
			return
		}

		user.Sanitize()
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated successfully", "user": user})
	}
}

func ChangePassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid user id")
			return
		}

		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := c.BindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			badRequest(c, "Current password and new password are required")
			return
		}
		if len(req.NewPassword) < 6 {
			badRequest(c, "New password must be at least 6 characters long")
			return
		}

		var user models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			notFound(c, "User not found")
			return
		}
		if !VerifyPassword(req.CurrentPassword, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Current password is incorrect"})
			return
		}

		hashed, err := HashPassword(req.NewPassword)
		if err != nil {
			internalError(c, "Server error changing password", err)
			return
		}
		_, err = userCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.D{{Key: "$set", Value: bson.D{
			{Key: "password", Value: hashed},
			{Key: "updatedAt", Value: time.Now()},
		}}})
		if err != nil {
			internalError(c, "Server error changing password", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	}
}

// DeactivateUser soft-deactivates an account. Deactivating a vendor also
// soft-deletes every menu item they own so the catalog stops listing them.
func DeactivateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid user id")
			return
		}

		var user models.User
		err = userCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "isActive", Value: false},
				{Key: "updatedAt", Value: time.Now()},
			}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			notFound(c, "User not found")
			return
		}
		if err != nil {
			internalError(c, "Server error deactivating user", err)
			return
		}

		var deletedMenuItemsCount int64
		if user.Role == models.RoleVendor {
			result, err := menuItemCollection.UpdateMany(ctx,
				bson.M{"vendor": userID, "isActive": true},
				bson.D{{Key: "$set", Value: bson.D{
					{Key: "isActive", Value: false},
					{Key: "available", Value: false},
					{Key: "updatedAt", Value: time.Now()},
				}}})
			if err != nil {
				internalError(c, "Server error deactivating user", err)
				return
			}
			deletedMenuItemsCount = result.ModifiedCount
		}

		user.Sanitize()
		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"message":               "User account deactivated successfully",
			"user":                  user,
			"deletedMenuItemsCount": deletedMenuItemsCount,
		})
	}
}

func GetPendingVendors() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		cursor, err := userCollection.Find(ctx,
			bson.M{"role": models.RoleVendor, "isApproved": false, "isActive": true},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
		if err != nil {
			internalError(c, "Server error fetching pending vendors", err)
			return
		}

		var vendors []models.User
		if err := cursor.All(ctx, &vendors); err != nil {
			internalError(c, "Server error fetching pending vendors", err)
			return
		}
		for i := range vendors {
			vendors[i].Sanitize()
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(vendors), "vendors": vendors})
	}
}

func ApproveVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		var vendor models.User
		err = userCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": vendorID, "role": models.RoleVendor},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "isApproved", Value: true},
				{Key: "updatedAt", Value: time.Now()},
			}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&vendor)
		if err == mongo.ErrNoDocuments {
			notFound(c, "Vendor not found")
			return
		}
		if err != nil {
			internalError(c, "Server error approving vendor", err)
			return
		}

		realtime.Notify(vendor.ID.Hex(), realtime.Notification{
			Title:   "Account Approved",
			Message: "Your vendor account has been approved. You can now log in.",
			Type:    "success",
		})

		vendor.Sanitize()
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor approved successfully", "vendor": vendor})
	}
}

// RejectVendor permanently removes a pending vendor together with every menu
// item they created.
func RejectVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			badRequest(c, "Invalid vendor id")
			return
		}

		var vendor models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": vendorID, "role": models.RoleVendor}).Decode(&vendor); err != nil {
			notFound(c, "Vendor not found")
			return
		}

		itemsResult, err := menuItemCollection.DeleteMany(ctx, bson.M{"vendor": vendorID})
		if err != nil {
			internalError(c, "Server error rejecting vendor", err)
			return
		}
		if _, err := userCollection.DeleteOne(ctx, bson.M{"_id": vendorID}); err != nil {
			internalError(c, "Server error rejecting vendor", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"message":               "Vendor rejected and removed",
			"deletedMenuItemsCount": itemsResult.DeletedCount,
		})
	}
}
