package persistence

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/infrastructure/persistence/models"
)

// uniqueColumns lists the case-insensitive uniqueness rule of each
// master-data table. The stores check it before writing; the index below
// is the authoritative guard.
var uniqueColumns = map[string]string{
	"customer_groups": "name",
	"vendor_groups":   "name",
	"customers":       "code",
	"vendors":         "code",
	"uoms":            "code",
	"uom_groups":      "code",
	"products":        "code",
	"tax_codes":       "code",
	"warehouses":      "code",
	"routes":          "name",
	"shipping_types":  "name",
	"sales_employees": "name",
}

// AutoMigrate creates the schema with GORM. PostgreSQL deployments use the
// SQL migrations instead; this path serves SQLite and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CustomerGroupModel{},
		&models.VendorGroupModel{},
		&models.RouteModel{},
		&models.CustomerModel{},
		&models.VendorModel{},
		&models.UOMModel{},
		&models.UOMGroupModel{},
		&models.ProductModel{},
		&models.TaxCodeModel{},
		&models.WarehouseModel{},
		&models.ShippingTypeModel{},
		&models.SalesEmployeeModel{},
		&models.DocumentTrackerModel{},
	); err != nil {
		return fmt.Errorf("auto-migrate master data: %w", err)
	}

	for table, column := range uniqueColumns {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS ux_%s_%s ON %s (LOWER(%s))", table, column, table, column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create unique index on %s: %w", table, err)
		}
	}

	for _, kind := range document.Kinds() {
		if err := migrateDocumentTables(db, kind); err != nil {
			return err
		}
	}
	return nil
}

func migrateDocumentTables(db *gorm.DB, kind document.Kind) error {
	if err := db.Table(kind.Table()).AutoMigrate(&models.DocumentModel{}); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", kind.Table(), err)
	}
	if err := db.Table(kind.ItemTable()).AutoMigrate(&models.DocumentItemModel{}); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", kind.ItemTable(), err)
	}
	if err := db.Table(kind.AttachmentTable()).AutoMigrate(&models.DocumentAttachmentModel{}); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", kind.AttachmentTable(), err)
	}

	stmts := []string{
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS ux_%[1]s_number ON %[1]s (number)", kind.Table()),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%[1]s_doc_date ON %[1]s (doc_date)", kind.Table()),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%[1]s_document_id ON %[1]s (document_id)", kind.ItemTable()),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%[1]s_document_id ON %[1]s (document_id)", kind.AttachmentTable()),
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index for %s: %w", kind, err)
		}
	}
	return nil
}
