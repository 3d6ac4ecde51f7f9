package database

import (
	"tradedocs/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Company{},
		&model.User{},
		&model.ProductCategory{},
		&model.PackagingUnit{},
		&model.ConversionEdge{},
		&model.Product{},
		&model.ProductPackagingProfile{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
		&model.Payment{},
		&model.Order{},
		&model.InvoiceHistory{},
	)
	if err != nil {
		logrus.WithError(err).Warn("failed to auto-migrate models")
	}

	return db, nil
}
