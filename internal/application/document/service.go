// Package document implements the sales and purchasing document use cases:
// multipart create/update with attachments, numbering, listing and delete.
package document

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/storage"
	"github.com/distributor/backend/internal/infrastructure/telemetry"
)

// MaxPageSize caps the page size of document lists.
const MaxPageSize = 500

// DefaultIdempotencyTTL is used when WithIdempotency is given no TTL.
const DefaultIdempotencyTTL = 24 * time.Hour

// PartnerLister finds customers or vendors; the master-data services of the
// active backend satisfy it.
type PartnerLister interface {
	List(ctx context.Context, filter shared.Filter) ([]masterdata.BusinessPartner, error)
}

// Upload is a file received with a create or update request.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Command carries the raw multipart fields of a create or update.
type Command struct {
	Payload              []byte
	Items                []byte
	DeletedAttachmentIDs []byte
	Files                []Upload
	// IdempotencyKey is honoured on create only.
	IdempotencyKey string
}

// Service handles documents of every kind.
type Service struct {
	repo      document.Repository
	files     storage.FileStorage
	partners  map[masterdata.PartnerKind]PartnerLister
	idem      shared.IdempotencyStore
	idemTTL   time.Duration
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	newPrefix func() string
}

// Option configures a Service
type Option func(*Service)

// WithIdempotency enables Idempotency-Key handling on create.
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idem = store
		if ttl > 0 {
			s.idemTTL = ttl
		}
	}
}

// WithMetrics counts created documents on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a document service. customers and vendors resolve
// partner names for documents that only carry a partner code.
func NewService(repo document.Repository, files storage.FileStorage, customers, vendors PartnerLister, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		repo:  repo,
		files: files,
		partners: map[masterdata.PartnerKind]PartnerLister{
			masterdata.PartnerCustomer: customers,
			masterdata.PartnerVendor:   vendors,
		},
		idemTTL:   DefaultIdempotencyTTL,
		logger:    log,
		newPrefix: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns document headers of kind matching filter.
func (s *Service) List(ctx context.Context, kind document.Kind, filter document.ListFilter) ([]document.Document, error) {
	if !kind.Valid() {
		return nil, shared.NewValidationError("unknown document kind '%s'", kind)
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	if filter.PageSize > 0 && filter.Page < 1 {
		filter.Page = 1
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewValidationError("'to' date cannot be before 'from' date")
	}
	return s.repo.List(ctx, kind, filter)
}

// Get returns the document with its items and attachments.
func (s *Service) Get(ctx context.Context, kind document.Kind, key string) (*document.Document, error) {
	id, err := ParseID(kind, key)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, kind, id)
}

// Create parses cmd, stores its files and inserts the document with the
// next number of its kind.
func (s *Service) Create(ctx context.Context, kind document.Kind, cmd Command) (_ *document.Document, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, string(kind), "create")
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	log := s.log(ctx, kind)

	if cmd.IdempotencyKey != "" && s.idem != nil {
		idemKey := string(kind) + ":" + cmd.IdempotencyKey
		isNew, merr := s.idem.MarkProcessed(ctx, idemKey, s.idemTTL)
		if merr != nil {
			return nil, fmt.Errorf("check idempotency key: %w", merr)
		}
		if !isNew {
			return nil, shared.NewConflictError("a request with this Idempotency-Key has already been processed")
		}
		defer func() {
			if err == nil {
				return
			}
			if ferr := s.idem.Forget(context.WithoutCancel(ctx), idemKey); ferr != nil {
				log.Warn("Failed to release idempotency key", zap.Error(ferr))
			}
		}()
	}

	doc, err := s.prepare(ctx, kind, cmd)
	if err != nil {
		return nil, err
	}

	saved, err := s.saveFiles(ctx, kind, cmd.Files)
	if err != nil {
		return nil, err
	}
	doc.Attachments = saved

	if err := s.repo.Create(ctx, doc); err != nil {
		s.removeFiles(ctx, log, saved)
		log.Warn("Create failed", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.String("doc_no", doc.DocNo))
	s.metrics.DocumentCreated(ctx, string(kind))
	log.Info("Document created",
		zap.Int64("id", doc.ID),
		zap.String("doc_no", doc.DocNo),
		zap.Int("items", len(doc.Items)),
		zap.Int("attachments", len(doc.Attachments)),
	)
	return doc, nil
}

// Update replaces the header and items of the document identified by key,
// removes the attachments listed in cmd and appends the uploaded files.
func (s *Service) Update(ctx context.Context, kind document.Kind, key string, cmd Command) (_ *document.Document, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, string(kind), "update")
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	log := s.log(ctx, kind)

	id, err := ParseID(kind, key)
	if err != nil {
		return nil, err
	}
	doc, err := s.prepare(ctx, kind, cmd)
	if err != nil {
		return nil, err
	}
	doc.ID = id

	deleteIDs, err := ParseIDs("deletedAttachmentIds", cmd.DeletedAttachmentIDs)
	if err != nil {
		return nil, err
	}

	saved, err := s.saveFiles(ctx, kind, cmd.Files)
	if err != nil {
		return nil, err
	}
	doc.Attachments = saved

	removed, err := s.repo.Update(ctx, doc, deleteIDs)
	if err != nil {
		s.removeFiles(ctx, log, saved)
		log.Warn("Update failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	s.removeFiles(ctx, log, removed)

	log.Info("Document updated",
		zap.Int64("id", id),
		zap.Int("attachments_added", len(saved)),
		zap.Int("attachments_removed", len(removed)),
	)
	return s.repo.FindByID(ctx, kind, id)
}

// Delete removes the document's files and then the document itself.
// Missing files do not stop the delete.
func (s *Service) Delete(ctx context.Context, kind document.Kind, key string) error {
	id, err := ParseID(kind, key)
	if err != nil {
		return err
	}
	doc, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return err
	}

	log := s.log(ctx, kind)
	s.removeFiles(ctx, log, doc.Attachments)

	if err := s.repo.Delete(ctx, kind, id); err != nil {
		log.Warn("Delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	log.Info("Document deleted", zap.Int64("id", id), zap.String("doc_no", doc.DocNo))
	return nil
}

func (s *Service) prepare(ctx context.Context, kind document.Kind, cmd Command) (*document.Document, error) {
	doc, err := ParseDocument(kind, cmd.Payload, cmd.Items)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolvePartner(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// resolvePartner fills the partner name from the partner code when the
// caller sent only the code.
func (s *Service) resolvePartner(ctx context.Context, doc *document.Document) error {
	if doc.PartnerName != "" || doc.PartnerCode == "" {
		return nil
	}
	pk := doc.Kind.PartnerKind()
	lister := s.partners[pk]
	if lister == nil {
		return nil
	}
	partners, err := lister.List(ctx, shared.Filter{Code: doc.PartnerCode})
	if err != nil {
		return err
	}
	for _, p := range partners {
		if strings.EqualFold(p.Code, doc.PartnerCode) {
			doc.PartnerCode = p.Code
			doc.PartnerName = p.Name
			return nil
		}
	}
	return shared.NewValidationError("%s '%s' does not exist", strings.ToLower(pk.Label()), doc.PartnerCode)
}

func (s *Service) saveFiles(ctx context.Context, kind document.Kind, uploads []Upload) ([]document.Attachment, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if s.files == nil {
		return nil, shared.NewValidationError("attachments are not supported")
	}

	saved := make([]document.Attachment, 0, len(uploads))
	for _, u := range uploads {
		name := storage.SafeFileName(u.FileName)
		key := path.Join(kind.Folder(), s.newPrefix()+"_"+name)
		if err := s.files.Save(ctx, key, u.Body, u.Size, u.ContentType); err != nil {
			s.removeFiles(ctx, s.log(ctx, kind), saved)
			return nil, fmt.Errorf("save attachment %s: %w", name, err)
		}
		saved = append(saved, document.Attachment{
			FileName:    name,
			Path:        key,
			ContentType: u.ContentType,
			Size:        u.Size,
		})
	}
	return saved, nil
}

// removeFiles deletes stored files, logging failures.
func (s *Service) removeFiles(ctx context.Context, log *zap.Logger, attachments []document.Attachment) {
	if s.files == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, a := range attachments {
		if a.Path == "" {
			continue
		}
		if err := s.files.Delete(ctx, a.Path); err != nil {
			log.Warn("Failed to delete attachment file", zap.String("path", a.Path), zap.Error(err))
		}
	}
}

func (s *Service) log(ctx context.Context, kind document.Kind) *zap.Logger {
	return logger.FromContext(ctx, s.logger).With(zap.String("document", string(kind)))
}
