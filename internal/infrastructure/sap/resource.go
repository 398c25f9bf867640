package sap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/distributor/backend/internal/domain/shared"
)

// entitySet performs the CRUD calls shared by every remote store. R is the
// wire shape of one entity as returned by the Service Layer.
type entitySet[R any] struct {
	client *Client
	name   string
	label  string
	fields []string
}

func newEntitySet[R any](client *Client, name, label string, fields ...string) entitySet[R] {
	return entitySet[R]{client: client, name: name, label: label, fields: fields}
}

// list fetches every page matching filter.
func (s entitySet[R]) list(ctx context.Context, filter string, f shared.Filter) ([]R, error) {
	q := Query{Select: s.fields, Filter: filter}
	if f.Paged() {
		q.Top = f.PageSize
		q.Skip = f.Offset()
	}

	page, err := s.client.GetAll(ctx, CollectionPath(s.name, q))
	if err != nil {
		return nil, TranslateError(err, s.label, "")
	}

	out := make([]R, 0, len(page.Value))
	for _, raw := range page.Value {
		var r R
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, shared.ErrUpstreamFailure.WithCause(
				fmt.Errorf("sap: decode %s: %w", s.name, err), string(raw))
		}
		out = append(out, r)
	}
	return out, nil
}

func (s entitySet[R]) get(ctx context.Context, key any) (*R, error) {
	path := KeyPath(s.name, key)
	if len(s.fields) > 0 {
		path += "?" + Query{Select: s.fields}.Encode()
	}
	var r R
	if err := s.client.Get(ctx, path, &r); err != nil {
		return nil, TranslateError(err, s.label, fmt.Sprint(key))
	}
	return &r, nil
}

// create posts payload and decodes the created entity from the response.
func (s entitySet[R]) create(ctx context.Context, payload any) (*R, error) {
	var r R
	if err := s.client.Post(ctx, s.name, payload, &r); err != nil {
		return nil, TranslateError(err, s.label, "")
	}
	return &r, nil
}

// patch applies payload and reads the entity back, since PATCH answers 204.
func (s entitySet[R]) patch(ctx context.Context, key any, payload any) (*R, error) {
	if err := s.client.Patch(ctx, KeyPath(s.name, key), payload); err != nil {
		return nil, TranslateError(err, s.label, fmt.Sprint(key))
	}
	return s.get(ctx, key)
}

func (s entitySet[R]) delete(ctx context.Context, key any) error {
	if err := s.client.Delete(ctx, KeyPath(s.name, key)); err != nil {
		return TranslateError(err, s.label, fmt.Sprint(key))
	}
	return nil
}

// intKey parses the key of an entity whose upstream identifier is numeric.
func intKey(label, key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("invalid %s key '%s'", label, key)
	}
	return id, nil
}

// stringKey validates the key of an entity identified by a code.
func stringKey(label, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", shared.NewValidationError("%s key is required", label)
	}
	return key, nil
}
