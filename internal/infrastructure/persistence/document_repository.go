package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/persistence/models"
)

// GormDocumentRepository implements document.Repository using GORM. Each
// kind lives in its own header, item and attachment tables.
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

var _ document.Repository = (*GormDocumentRepository)(nil)

// List returns document headers, newest first. Items and attachments are
// loaded by FindByID only.
func (r *GormDocumentRepository) List(ctx context.Context, kind document.Kind, filter document.ListFilter) ([]document.Document, error) {
	q := r.db.WithContext(ctx).Table(kind.Table())
	if filter.PartnerName != "" {
		// LIKE is case-insensitive on SQLite; the partner filter is not.
		if r.db.Dialector.Name() == "sqlite" {
			q = q.Where("instr(partner_name, ?) > 0", filter.PartnerName)
		} else {
			q = q.Where("strpos(partner_name, ?) > 0", filter.PartnerName)
		}
	}
	if filter.From != nil {
		q = q.Where("doc_date >= ?", startOfDay(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("doc_date < ?", startOfDay(*filter.To).AddDate(0, 0, 1))
	}
	q = q.Order("doc_date DESC").Order("number DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.DocumentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Table(), err)
	}
	docs := make([]document.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, *rows[i].ToDomain(kind))
	}
	return docs, nil
}

// FindByID loads a document with its items and attachments.
func (r *GormDocumentRepository) FindByID(ctx context.Context, kind document.Kind, id int64) (*document.Document, error) {
	db := r.db.WithContext(ctx)

	var header models.DocumentModel
	if err := db.Table(kind.Table()).Where("id = ?", id).Take(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(kind.Label(), strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("find %s %d: %w", kind.Table(), id, err)
	}
	doc := header.ToDomain(kind)

	var items []models.DocumentItemModel
	if err := db.Table(kind.ItemTable()).Where("document_id = ?", id).Order("line_no ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", kind.ItemTable(), err)
	}
	for i := range items {
		doc.Items = append(doc.Items, items[i].ToDomain())
	}

	var attachments []models.DocumentAttachmentModel
	if err := db.Table(kind.AttachmentTable()).Where("document_id = ?", id).Order("id ASC").Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", kind.AttachmentTable(), err)
	}
	for i := range attachments {
		doc.Attachments = append(doc.Attachments, attachments[i].ToDomain())
	}
	return doc, nil
}

// Create numbers and stores doc in one transaction. On success doc carries
// the assigned ID, Number and DocNo.
func (r *GormDocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	kind := doc.Kind
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextNumber(tx, kind)
		if err != nil {
			return err
		}

		var header models.DocumentModel
		header.FromDomain(doc)
		header.ID = 0
		header.Number = number
		header.DocNo = kind.FormatNumber(number)
		if err := tx.Table(kind.Table()).Create(&header).Error; err != nil {
			return fmt.Errorf("insert %s: %w", kind.Table(), err)
		}

		if err := insertItems(tx, kind, header.ID, doc.Items); err != nil {
			return err
		}
		if err := insertAttachments(tx, kind, header.ID, doc.Attachments); err != nil {
			return err
		}

		doc.ID = header.ID
		doc.Number = header.Number
		doc.DocNo = header.DocNo
		doc.CreatedAt = header.CreatedAt
		doc.UpdatedAt = header.UpdatedAt
		return nil
	})
}

// Update replaces the header and items of doc, removes the attachments in
// deleteIDs and appends attachments without an ID.
func (r *GormDocumentRepository) Update(ctx context.Context, doc *document.Document, deleteIDs []int64) ([]document.Attachment, error) {
	kind := doc.Kind
	var removed []document.Attachment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Table(kind.Table()).Where("id = ?", doc.ID).Updates(map[string]any{
			"partner_code":      doc.PartnerCode,
			"partner_name":      doc.PartnerName,
			"doc_date":          doc.DocDate,
			"due_date":          doc.DueDate,
			"reference":         doc.Reference,
			"warehouse_code":    doc.WarehouseCode,
			"sales_employee_id": nullableInt(doc.SalesEmployeeID),
			"remarks":           doc.Remarks,
			"total":             doc.Total,
			"updated_at":        time.Now(),
		})
		if result.Error != nil {
			return fmt.Errorf("update %s %d: %w", kind.Table(), doc.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(kind.Label(), strconv.FormatInt(doc.ID, 10))
		}

		if err := tx.Table(kind.ItemTable()).Where("document_id = ?", doc.ID).Delete(&models.DocumentItemModel{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", kind.ItemTable(), err)
		}
		if err := insertItems(tx, kind, doc.ID, doc.Items); err != nil {
			return err
		}

		if len(deleteIDs) > 0 {
			var rows []models.DocumentAttachmentModel
			if err := tx.Table(kind.AttachmentTable()).
				Where("document_id = ? AND id IN ?", doc.ID, deleteIDs).
				Find(&rows).Error; err != nil {
				return fmt.Errorf("load %s: %w", kind.AttachmentTable(), err)
			}
			if len(rows) > 0 {
				ids := make([]int64, len(rows))
				for i := range rows {
					ids[i] = rows[i].ID
					removed = append(removed, rows[i].ToDomain())
				}
				if err := tx.Table(kind.AttachmentTable()).Where("id IN ?", ids).Delete(&models.DocumentAttachmentModel{}).Error; err != nil {
					return fmt.Errorf("delete %s: %w", kind.AttachmentTable(), err)
				}
			}
		}

		var added []document.Attachment
		for _, a := range doc.Attachments {
			if a.ID == 0 {
				added = append(added, a)
			}
		}
		return insertAttachments(tx, kind, doc.ID, added)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Delete removes a document together with its items and attachment rows.
func (r *GormDocumentRepository) Delete(ctx context.Context, kind document.Kind, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(kind.ItemTable()).Where("document_id = ?", id).Delete(&models.DocumentItemModel{}).Error; err != nil {
			return fmt.Errorf("delete %s: %w", kind.ItemTable(), err)
		}
		if err := tx.Table(kind.AttachmentTable()).Where("document_id = ?", id).Delete(&models.DocumentAttachmentModel{}).Error; err != nil {
			return fmt.Errorf("delete %s: %w", kind.AttachmentTable(), err)
		}
		result := tx.Table(kind.Table()).Where("id = ?", id).Delete(&models.DocumentModel{})
		if result.Error != nil {
			return fmt.Errorf("delete %s %d: %w", kind.Table(), id, result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(kind.Label(), strconv.FormatInt(id, 10))
		}
		return nil
	})
}

func insertItems(tx *gorm.DB, kind document.Kind, docID int64, items []document.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.DocumentItemModel, len(items))
	for i := range items {
		rows[i] = models.NewDocumentItemModel(docID, &items[i])
	}
	if err := tx.Table(kind.ItemTable()).Create(rows).Error; err != nil {
		return fmt.Errorf("insert %s: %w", kind.ItemTable(), err)
	}
	return nil
}

func insertAttachments(tx *gorm.DB, kind document.Kind, docID int64, attachments []document.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	rows := make([]*models.DocumentAttachmentModel, len(attachments))
	for i := range attachments {
		rows[i] = models.NewDocumentAttachmentModel(docID, &attachments[i])
	}
	if err := tx.Table(kind.AttachmentTable()).Create(rows).Error; err != nil {
		return fmt.Errorf("insert %s: %w", kind.AttachmentTable(), err)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nullableInt(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
