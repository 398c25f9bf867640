package models

import (
	"time"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// DocumentModel is the header row shared by every document kind. The
// table is chosen per kind with db.Table, so the model has no TableName.
type DocumentModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Number          int64           `gorm:"not null"`
	DocNo           string          `gorm:"type:varchar(20);not null"`
	PartnerCode     string          `gorm:"type:varchar(15)"`
	PartnerName     string          `gorm:"type:varchar(100);not null"`
	DocDate         time.Time       `gorm:"not null"`
	DueDate         *time.Time
	Reference       string          `gorm:"type:varchar(100)"`
	WarehouseCode   string          `gorm:"type:varchar(8)"`
	SalesEmployeeID *int64
	Remarks         string          `gorm:"type:text"`
	Total           decimal.Decimal `gorm:"type:decimal(19,6);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// DocumentItemModel is one document line.
type DocumentItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	DocumentID  int64           `gorm:"not null"`
	LineNo      int             `gorm:"not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Description string          `gorm:"type:varchar(200)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	UOM         string          `gorm:"column:uom;type:varchar(20)"`
	TaxCode     string          `gorm:"type:varchar(8)"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(19,6);not null"`
}

// DocumentAttachmentModel records an uploaded file.
type DocumentAttachmentModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	DocumentID  int64     `gorm:"not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	Path        string    `gorm:"type:varchar(500);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
}

// DocumentTrackerModel holds the last number issued per document kind.
type DocumentTrackerModel struct {
	DocType    string `gorm:"type:varchar(30);primaryKey"`
	LastNumber int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentTrackerModel) TableName() string {
	return "document_trackers"
}

// ToDomain converts the header, leaving items and attachments empty.
func (m *DocumentModel) ToDomain(kind document.Kind) *document.Document {
	return &document.Document{
		ID:              m.ID,
		Kind:            kind,
		Number:          m.Number,
		DocNo:           m.DocNo,
		PartnerCode:     m.PartnerCode,
		PartnerName:     m.PartnerName,
		DocDate:         m.DocDate,
		DueDate:         m.DueDate,
		Reference:       m.Reference,
		WarehouseCode:   m.WarehouseCode,
		SalesEmployeeID: idOrZero(m.SalesEmployeeID),
		Remarks:         m.Remarks,
		Total:           m.Total,
		Items:           []document.Item{},
		Attachments:     []document.Attachment{},
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the header columns.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.ID = d.ID
	m.Number = d.Number
	m.DocNo = d.DocNo
	m.PartnerCode = d.PartnerCode
	m.PartnerName = d.PartnerName
	m.DocDate = d.DocDate
	m.DueDate = d.DueDate
	m.Reference = d.Reference
	m.WarehouseCode = d.WarehouseCode
	m.SalesEmployeeID = nullableID(d.SalesEmployeeID)
	m.Remarks = d.Remarks
	m.Total = d.Total
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
}

func (m *DocumentItemModel) ToDomain() document.Item {
	return document.Item{
		ID:          m.ID,
		LineNo:      m.LineNo,
		ProductCode: m.ProductCode,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		UOM:         m.UOM,
		TaxCode:     m.TaxCode,
		LineTotal:   m.LineTotal,
	}
}

// NewDocumentItemModel converts a line of document docID.
func NewDocumentItemModel(docID int64, it *document.Item) *DocumentItemModel {
	return &DocumentItemModel{
		DocumentID:  docID,
		LineNo:      it.LineNo,
		ProductCode: it.ProductCode,
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		UOM:         it.UOM,
		TaxCode:     it.TaxCode,
		LineTotal:   it.LineTotal,
	}
}

func (m *DocumentAttachmentModel) ToDomain() document.Attachment {
	return document.Attachment{
		ID:          m.ID,
		FileName:    m.FileName,
		Path:        m.Path,
		ContentType: m.ContentType,
		Size:        m.Size,
		CreatedAt:   m.CreatedAt,
	}
}

// NewDocumentAttachmentModel converts an attachment of document docID.
func NewDocumentAttachmentModel(docID int64, a *document.Attachment) *DocumentAttachmentModel {
	return &DocumentAttachmentModel{
		DocumentID:  docID,
		FileName:    a.FileName,
		Path:        a.Path,
		ContentType: a.ContentType,
		Size:        a.Size,
	}
}
