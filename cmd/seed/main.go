package main

import (
	"fmt"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, audio gear and smart devices"},
		{Name: "Books", Description: "Fiction, reference and textbooks"},
		{Name: "Groceries", Description: "Everyday food and household items"},
		{Name: "Clothing", Description: "Apparel and fashion accessories"},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}

	// 添加商品
	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, long battery life, comfortable to wear",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(2499.00)),
			Stock:       50,
			CategoryID:  categoryIDs["Electronics"],
		},
		{
			Name:        "Smart Watch",
			Description: "Health monitoring, fitness tracking, message notifications",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(4999.00)),
			Stock:       30,
			CategoryID:  categoryIDs["Electronics"],
		},
		{
			Name:        "Portable Power Bank",
			Description: "High capacity, fast charging, multi-device compatible",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(1299.50)),
			Stock:       100,
			CategoryID:  categoryIDs["Electronics"],
		},
		{
			Name:        "Introduction to Algorithms",
			Description: "Comprehensive textbook covering modern algorithm design",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(850.00)),
			Stock:       20,
			CategoryID:  categoryIDs["Books"],
		},
		{
			Name:        "Organic Basmati Rice 5kg",
			Description: "Premium long grain rice, freshly packed",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(620.00)),
			Stock:       200,
			CategoryID:  categoryIDs["Groceries"],
		},
		{
			Name:        "Cotton T-Shirt",
			Description: "Breathable everyday wear, multiple sizes",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(450.00)),
			Stock:       80,
			CategoryID:  categoryIDs["Clothing"],
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Name)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ?", prod.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
			}
		} else {
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Stock = prod.Stock
			existing.CategoryID = prod.CategoryID
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Name)
			}
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Categories")
	fmt.Println("- 6 Products")
}
