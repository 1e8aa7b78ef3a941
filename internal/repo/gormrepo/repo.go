package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/Skotchmaster/furniture_shop/internal/db"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

var _ repo.Store = (*GormRepo)(nil)

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// Connect opens the database for driver and migrates the schema.
func Connect(ctx context.Context, driver, dsn string) (*GormRepo, error) {
	gdb, err := pkgdb.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	r := New(gdb)
	if err := r.Migrate(ctx); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.PaymentToken{},
	)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close(context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case isDuplicate(err):
		return repo.ErrDuplicate
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
