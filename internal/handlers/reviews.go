package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/models"
)

// CreateReview adds a review to a restaurant.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Username string `json:"username" binding:"required"`
			Rating   int    `json:"rating" binding:"required,min=1,max=5"`
			Comment  string `json:"comment"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, restaurantID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Restaurant not found"})
			return
		}

		review := models.Review{
			Username:     input.Username,
			Rating:       input.Rating,
			Comment:      input.Comment,
			RestaurantID: restaurantID,
		}

		if err := db.Create(&review).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create review"})
			return
		}

		c.JSON(201, review)
	}
}

// GetRestaurantReviews lists all reviews for a restaurant.
func GetRestaurantReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, restaurantID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Restaurant not found"})
			return
		}

		var reviews []models.Review
		if err := db.Where("restaurant_id = ?", restaurantID).Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		c.JSON(200, reviews)
	}
}
