package infra

import (
	"fmt"

	"negociopos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the SQL patches that GORM cannot
// express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and applies the schema patches.
// Also used by the integration test suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.ProductVariant{},
		&model.StockMovement{},
		&model.CashSession{},
		&model.CashMovement{},
		&model.Customer{},
		&model.AccountMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Promotion{},
		&model.PromotionItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot emit.
// Each statement is guarded by an existence check so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one OPEN cash session per store. The service layer checks
		// before opening, but the partial unique index makes the invariant
		// hold even under concurrent opens.
		{"unique open session per store", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_open_store') THEN
    CREATE UNIQUE INDEX idx_cash_sessions_open_store
        ON cash_sessions (store_id)
        WHERE status = 'OPEN';
  END IF;
END $$`},
		// Barcode is unique within a store, not globally.
		{"unique barcode per store", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_variants_store_barcode') THEN
    CREATE UNIQUE INDEX idx_variants_store_barcode
        ON product_variants (store_id, barcode);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
