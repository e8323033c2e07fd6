package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/models"
)

type restaurantInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	Address      string  `json:"address"`
	Category     string  `json:"category"`
	Capacity     int     `json:"capacity"`
	Rating       float64 `json:"rating"`
	PriceRange   string  `json:"priceRange"`
	Features     string  `json:"features"`
	Cuisines     string  `json:"cuisines"`
	ContactPhone string  `json:"contactPhone"`
	ContactEmail string  `json:"contactEmail"`
}

// CreateRestaurant registers a new restaurant owned by the calling admin.
func CreateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		if role != string(models.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Only admins can create restaurants"})
			return
		}

		var input restaurantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		restaurant := models.Restaurant{
			Name:         input.Name,
			Description:  input.Description,
			Location:     input.Location,
			Address:      input.Address,
			Category:     input.Category,
			Capacity:     input.Capacity,
			Rating:       input.Rating,
			PriceRange:   input.PriceRange,
			Features:     input.Features,
			Cuisines:     input.Cuisines,
			ContactPhone: input.ContactPhone,
			ContactEmail: input.ContactEmail,
			OwnerID:      userId,
		}

		if err := db.Create(&restaurant).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create restaurant"})
			return
		}

		c.JSON(201, restaurant)
	}
}

// GetRestaurants lists all restaurants.
func GetRestaurants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurants []models.Restaurant
		if err := db.Find(&restaurants).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch restaurants"})
			return
		}

		c.JSON(200, restaurants)
	}
}

// GetRestaurant retrieves a single restaurant by id.
func GetRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurant models.Restaurant
		if err := db.First(&restaurant, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Restaurant not found"})
			return
		}

		c.JSON(200, restaurant)
	}
}

// UpdateRestaurant updates a restaurant owned by the calling admin.
func UpdateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		var restaurant models.Restaurant
		if err := db.First(&restaurant, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Restaurant not found"})
			return
		}

		if role != string(models.RoleAdmin) || restaurant.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Not authorized to update this restaurant"})
			return
		}

		var input restaurantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		restaurant.Name = input.Name
		restaurant.Description = input.Description
		restaurant.Location = input.Location
		restaurant.Address = input.Address
		restaurant.Category = input.Category
		restaurant.Capacity = input.Capacity
		restaurant.Rating = input.Rating
		restaurant.PriceRange = input.PriceRange
		restaurant.Features = input.Features
		restaurant.Cuisines = input.Cuisines
		restaurant.ContactPhone = input.ContactPhone
		restaurant.ContactEmail = input.ContactEmail

		if err := db.Save(&restaurant).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update restaurant"})
			return
		}

		c.JSON(200, restaurant)
	}
}

// DeleteRestaurant soft deletes a restaurant owned by the calling admin.
func DeleteRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		var restaurant models.Restaurant
		if err := db.First(&restaurant, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Restaurant not found"})
			return
		}

		if role != string(models.RoleAdmin) || restaurant.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Not authorized to delete this restaurant"})
			return
		}

		if err := db.Delete(&restaurant).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete restaurant"})
			return
		}

		c.JSON(200, gin.H{"message": "Restaurant successfully deleted"})
	}
}
