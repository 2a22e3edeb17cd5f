package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"milktea-server/internal/database"
	"milktea-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- GET: List the menu ---
// Storefront view: only available drinks, with the full customization schedule.
func GetProducts(c *gin.Context) {
	var products []models.Product

	result := database.DB.
		Preload("Sizes").
		Preload("Addons").
		Where("available = ?", true).
		Find(&products)
	if result.Error != nil {
		zap.L().Error("menu query failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"base_price"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
	Sizes       []struct {
		Name       string  `json:"name" binding:"required"`
		PriceDelta float64 `json:"price_delta"`
	} `json:"sizes" binding:"required,min=1"`
	Addons []struct {
		Name       string  `json:"name" binding:"required"`
		PriceDelta float64 `json:"price_delta"`
	} `json:"addons"`
	SugarLevels []string `json:"sugar_levels"`
	IceLevels   []string `json:"ice_levels"`
}

// toModel checks the catalog invariants (at least one size, no negative
// deltas) and builds the gorm record.
func (in *ProductInput) toModel() (*models.Product, error) {
	if in.BasePrice < 0 {
		return nil, fmt.Errorf("base price must not be negative")
	}
	if len(in.Sizes) == 0 {
		return nil, fmt.Errorf("a product needs at least one size")
	}

	p := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		BasePrice:   in.BasePrice,
		ImageURL:    in.ImageURL,
		Available:   true,
		SugarLevels: in.SugarLevels,
		IceLevels:   in.IceLevels,
	}
	if in.Available != nil {
		p.Available = *in.Available
	}

	for _, s := range in.Sizes {
		if s.PriceDelta < 0 {
			return nil, fmt.Errorf("size %q has a negative price delta", s.Name)
		}
		p.Sizes = append(p.Sizes, models.ProductSize{Name: s.Name, PriceDelta: s.PriceDelta})
	}
	for _, a := range in.Addons {
		if a.PriceDelta < 0 {
			return nil, fmt.Errorf("addon %q has a negative price delta", a.Name)
		}
		p.Addons = append(p.Addons, models.ProductAddon{Name: a.Name, PriceDelta: a.PriceDelta})
	}
	return &p, nil
}

// --- POST: Add a drink to the menu (admin) ---
func AddProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Create(product).Error; err != nil {
		zap.L().Error("product create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- PUT: Edit a drink (admin) ---
// Full replace of the record including its customization schedule.
func UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var existing models.Product
	if err := database.DB.First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = existing.ID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Replace the schedule wholesale; stale options must not linger
		if err := tx.Where("product_id = ?", existing.ID).Delete(&models.ProductSize{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", existing.ID).Delete(&models.ProductAddon{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
	})
	if err != nil {
		zap.L().Error("product update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a drink (admin) ---
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := database.DB.Select("Sizes", "Addons").Delete(&product).Error; err != nil {
		zap.L().Error("product delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- UPLOAD: Product images (admin) ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Unique filename, e.g. "1756600000_taro.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		zap.L().Error("image save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
