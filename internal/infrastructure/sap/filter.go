package sap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Escape doubles single quotes so s can sit inside an OData string literal.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Literal formats v as an OData literal: strings are single-quoted and
// escaped, integers are bare.
func Literal(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + Escape(x) + "'"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// literalEscaper percent-encodes a literal for a URL while keeping the
// characters OData uses structurally readable.
var literalEscaper = strings.NewReplacer("%27", "'", "%28", "(", "%29", ")", "%2C", ",", "+", "%20")

func escapeComponent(s string) string {
	return literalEscaper.Replace(url.QueryEscape(s))
}

// KeyPath returns the single-resource path EntitySet(key).
func KeyPath(entitySet string, key any) string {
	return entitySet + "(" + escapeComponent(Literal(key)) + ")"
}

// FilterBuilder assembles a $filter expression. Clauses are joined by "and".
type FilterBuilder struct {
	clauses []string
}

// NewFilter returns an empty builder.
func NewFilter() *FilterBuilder {
	return &FilterBuilder{}
}

// Eq adds field eq value.
func (f *FilterBuilder) Eq(field string, value any) *FilterBuilder {
	f.clauses = append(f.clauses, field+" eq "+Literal(value))
	return f
}

// Contains adds contains(field,'text'). Blank text adds nothing.
func (f *FilterBuilder) Contains(field, text string) *FilterBuilder {
	if strings.TrimSpace(text) == "" {
		return f
	}
	f.clauses = append(f.clauses, "contains("+field+","+Literal(text)+")")
	return f
}

// String returns the expression, or "" when no clause was added.
func (f *FilterBuilder) String() string {
	return strings.Join(f.clauses, " and ")
}

// Query holds the system query options of a collection request.
type Query struct {
	Select  []string
	Filter  string
	OrderBy string
	Top     int
	Skip    int
}

// Encode renders the options in a fixed order.
func (q Query) Encode() string {
	var parts []string
	if len(q.Select) > 0 {
		parts = append(parts, "$select="+escapeComponent(strings.Join(q.Select, ",")))
	}
	if q.Filter != "" {
		parts = append(parts, "$filter="+escapeComponent(q.Filter))
	}
	if q.OrderBy != "" {
		parts = append(parts, "$orderby="+escapeComponent(q.OrderBy))
	}
	if q.Top > 0 {
		parts = append(parts, "$top="+strconv.Itoa(q.Top))
	}
	if q.Skip > 0 {
		parts = append(parts, "$skip="+strconv.Itoa(q.Skip))
	}
	return strings.Join(parts, "&")
}

// CollectionPath returns entitySet with q appended.
func CollectionPath(entitySet string, q Query) string {
	if enc := q.Encode(); enc != "" {
		return entitySet + "?" + enc
	}
	return entitySet
}
