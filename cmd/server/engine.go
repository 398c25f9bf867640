package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	docapp "github.com/distributor/backend/internal/application/document"
	mdapp "github.com/distributor/backend/internal/application/masterdata"
	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/storage"
	"github.com/distributor/backend/internal/interfaces/http/handler"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/distributor/backend/internal/interfaces/http/router"
)

// components are the services the HTTP layer is built on.
type components struct {
	db        handler.Pinger
	session   handler.SessionClient // nil in local mode
	services  *mdapp.Services
	documents *docapp.Service
	files     storage.FileStorage
}

// newEngine assembles middleware and routes.
func newEngine(cfg *config.Config, log *zap.Logger, deps components) *gin.Engine {
	engine := gin.New()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			Backend:     string(cfg.Backend.Mode),
		}),
		middleware.SpanAttributes(),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	health := handler.NewHealthHandler(string(cfg.Backend.Mode), deps.db, deps.session)
	engine.GET("/health", health.Check)

	if deps.files != nil {
		engine.GET(cfg.Storage.PublicPath+"/*key", handler.NewFileHandler(deps.files).Serve)
	}

	s := deps.services
	r := router.NewRouter(engine).
		Register(handler.NewEntityHandler[masterdata.BusinessPartner]("Customer", s.Customers).Routes()).
		Register(handler.NewEntityHandler[masterdata.BusinessPartner]("Vendor", s.Vendors).Routes()).
		Register(handler.NewEntityHandler[masterdata.PartnerGroup]("CustomerGroup", s.CustomerGroups).Routes()).
		Register(handler.NewEntityHandler[masterdata.PartnerGroup]("VendorGroup", s.VendorGroups).Routes()).
		Register(handler.NewEntityHandler[masterdata.Product]("Product", s.Products).Routes()).
		Register(handler.NewEntityHandler[masterdata.UOM]("UOM", s.UOMs).Routes()).
		Register(handler.NewEntityHandler[masterdata.UOMGroup]("UOMGroup", s.UOMGroups).Routes()).
		Register(handler.NewEntityHandler[masterdata.TaxCode]("TaxCode", s.TaxCodes).Routes()).
		Register(handler.NewEntityHandler[masterdata.Warehouse]("Warehouse", s.Warehouses).Routes()).
		Register(handler.NewEntityHandler[masterdata.Route]("Route", s.Routes).Routes()).
		Register(handler.NewEntityHandler[masterdata.ShippingType]("ShippingType", s.ShippingTypes).Routes()).
		Register(handler.NewEntityHandler[masterdata.SalesEmployee]("SalesEmployee", s.SalesEmployees).Routes()).
		Register(handler.NewDocumentHandler("SalesOrder", document.KindSalesOrder, deps.documents).Routes()).
		Register(handler.NewDocumentHandler("PurchaseOrder", document.KindPurchaseOrder, deps.documents).Routes()).
		Register(handler.NewDocumentHandler("GRPO", document.KindGoodsReceipt, deps.documents).Routes()).
		Register(handler.NewDocumentHandler("ARInvoice", document.KindARInvoice, deps.documents).Routes())

	if deps.session != nil {
		r.Register(handler.NewSessionHandler(deps.session).Routes())
	}
	r.Setup()

	return engine
}
