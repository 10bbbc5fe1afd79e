// Package seed loads the demo fabric catalog. It is idempotent: nothing is
// written if categories already exist.
package seed

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/models"
)

func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{ID: "silk", Name: "Silk", Description: "Premium silk fabrics"},
		{ID: "cotton", Name: "Cotton", Description: "Natural cotton blends"},
		{ID: "wool", Name: "Wool", Description: "Cozy wool fabrics"},
		{ID: "synthetic", Name: "Synthetic", Description: "Modern synthetic blends"},
	}

	products := []models.Product{
		{
			ID:          "BL001",
			Name:        "Premium Blue Silk",
			Description: "Luxurious blue silk fabric perfect for formal wear and special occasions.",
			Price:       decimal.RequireFromString("45.00"),
			CategoryID:  "silk",
			Stock:       156,
			Specifications: map[string]string{
				"material": "100% Natural Silk",
				"width":    "150cm",
				"weight":   "120 GSM",
				"care":     "Dry Clean Only",
			},
			Barcode:  "||||| |||| ||||",
			IsActive: true,
		},
		{
			ID:          "CT002",
			Name:        "Organic Red Cotton",
			Description: "Premium organic cotton fabric in rich red color.",
			Price:       decimal.RequireFromString("32.00"),
			CategoryID:  "cotton",
			Stock:       8,
			Specifications: map[string]string{
				"material": "100% Organic Cotton",
				"width":    "140cm",
				"weight":   "200 GSM",
				"care":     "Machine Wash Cold",
			},
			Barcode:  "|||| ||| |||||",
			IsActive: true,
		},
		{
			ID:          "WL003",
			Name:        "Merino Green Wool",
			Description: "Premium merino wool fabric in forest green.",
			Price:       decimal.RequireFromString("58.00"),
			CategoryID:  "wool",
			Stock:       43,
			Specifications: map[string]string{
				"material": "100% Merino Wool",
				"width":    "150cm",
				"weight":   "300 GSM",
				"care":     "Hand Wash Only",
			},
			Barcode:  "||| |||| ||||||",
			IsActive: true,
		},
		{
			ID:          "PL004",
			Name:        "Patterned Polyester",
			Description: "Modern patterned polyester fabric with geometric designs.",
			Price:       decimal.RequireFromString("28.00"),
			CategoryID:  "synthetic",
			Stock:       67,
			Specifications: map[string]string{
				"material": "100% Polyester",
				"width":    "145cm",
				"weight":   "150 GSM",
				"care":     "Machine Wash Warm",
			},
			Barcode:  "|||| ||| |||| ||",
			IsActive: true,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
		return tx.Create(&products).Error
	})
}
