package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

const requestTimeout = 100 * time.Second

// internalError logs the cause server-side and hands the client a generic
// failure message.
func internalError(c *gin.Context, message string, err error) {
	logrus.Printf("%s: %v", message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// conflict reports a business-rule conflict with a tag the client can branch on.
func conflict(c *gin.Context, status int, message, errorType string) {
	c.JSON(status, gin.H{"success": false, "message": message, "errorType": errorType})
}

func pagination(c *gin.Context, defaultLimit int) (page int, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
