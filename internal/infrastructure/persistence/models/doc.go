// Package models contains the GORM persistence models. They are kept apart
// from the domain entities so that the domain stays free of ORM tags;
// ToDomain/FromDomain convert between the two.
//
// Files:
// - base.go: shared columns
// - partner.go: customers, vendors and their groups
// - catalog.go: products, units of measure, tax codes
// - reference.go: warehouses, routes, shipping types, sales employees
// - trade.go: document headers, lines, attachments and the number tracker
package models
