package document

import "context"

// Repository persists documents of every kind. Create and Update run as one
// transaction each.
type Repository interface {
	List(ctx context.Context, kind Kind, filter ListFilter) ([]Document, error)
	FindByID(ctx context.Context, kind Kind, id int64) (*Document, error)
	// Create assigns the next number for the document's kind and stores the
	// header, items and attachments.
	Create(ctx context.Context, doc *Document) error
	// Update replaces the header and all items, removes the attachments
	// listed in deleteAttachmentIDs and appends doc.Attachments that have no
	// ID yet. It returns the removed attachment rows.
	Update(ctx context.Context, doc *Document, deleteAttachmentIDs []int64) ([]Attachment, error)
	Delete(ctx context.Context, kind Kind, id int64) error
}
