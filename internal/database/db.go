package database

import (
	"os"
	"time"

	"milktea-server/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		zap.L().Fatal("DB_DSN not set; configure the database in .env")
	}

	var err error

	// Wait for the DB container to come up
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		zap.L().Warn("failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		zap.L().Fatal("failed to connect to database after 5 attempts", zap.Error(err))
	}

	zap.L().Info("connected to MySQL")

	Migrate(DB)
	SeedMenu(DB)
}

// Migrate syncs the schema. Split out from Connect so tests can run it
// against an in-memory sqlite instance.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductSize{},
		&models.ProductAddon{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
		&models.AdminGuard{},
	)
	if err != nil {
		zap.L().Fatal("schema migration failed", zap.Error(err))
	}
}

// SeedMenu loads the sample milk-tea catalog on first run. It is a no-op
// once any product exists, so admin edits survive restarts.
func SeedMenu(db *gorm.DB) {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}

	sugar := []string{"0%", "25%", "50%", "75%", "100%"}
	ice := []string{"No Ice", "Less Ice", "Regular Ice", "Extra Ice"}

	sizes := func() []models.ProductSize {
		return []models.ProductSize{
			{Name: "Medium", PriceDelta: 0},
			{Name: "Large", PriceDelta: 20},
		}
	}
	addons := func() []models.ProductAddon {
		return []models.ProductAddon{
			{Name: "Pearls", PriceDelta: 15},
			{Name: "Nata de Coco", PriceDelta: 15},
			{Name: "Cream Cheese", PriceDelta: 25},
			{Name: "Pudding", PriceDelta: 20},
		}
	}

	menu := []models.Product{
		{
			Name: "Classic Milk Tea", Category: "Milk Tea", BasePrice: 120,
			Description: "Black tea with fresh milk and brown sugar syrup.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Wintermelon Milk Tea", Category: "Milk Tea", BasePrice: 130,
			Description: "Caramelized wintermelon with creamy milk tea.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Okinawa Milk Tea", Category: "Milk Tea", BasePrice: 130,
			Description: "Roasted brown sugar milk tea, Okinawa style.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Taro Milk Tea", Category: "Milk Tea", BasePrice: 140,
			Description: "Sweet taro root blended with milk tea.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Matcha Latte", Category: "Specialty", BasePrice: 150,
			Description: "Stone-ground matcha with fresh milk.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Brown Sugar Fresh Milk", Category: "Specialty", BasePrice: 145,
			Description: "Fresh milk over brown sugar pearls, no tea.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Lychee Fruit Tea", Category: "Fruit Tea", BasePrice: 110,
			Description: "Green tea with lychee bits and syrup.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
		{
			Name: "Passionfruit Green Tea", Category: "Fruit Tea", BasePrice: 110,
			Description: "Tangy passionfruit over jasmine green tea.",
			Sizes:       sizes(), Addons: addons(), SugarLevels: sugar, IceLevels: ice,
		},
	}

	if err := db.Create(&menu).Error; err != nil {
		zap.L().Error("failed to seed sample menu", zap.Error(err))
		return
	}
	zap.L().Info("seeded sample menu", zap.Int("products", len(menu)))
}
