// Package service implements the generic CRUD engine shared by every MMWS
// resource kind. A kind is described by a Descriptor; the Service does the
// rest through the transport.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/sanitize"
	"github.com/jroosing/mmws/internal/transport"
)

// ErrNotFound is returned when the server answers a lookup with no content.
var ErrNotFound = errors.New("object not found")

// Descriptor is the configuration that turns the generic engine into a
// concrete resource service.
type Descriptor struct {
	Path          string         // API sub-path, e.g. "Users"
	ObjType       string         // objType sent on update, e.g. "User"
	ItemKey       string         // envelope key of one object, e.g. "user"
	CollectionKey string         // envelope key of a collection, e.g. "users"
	Schema        *entity.Schema // codec for the kind
}

// Service runs list/get/create/update/delete for one resource kind.
type Service struct {
	tr   *transport.Transport
	desc Descriptor
}

// New binds a descriptor to a transport.
func New(tr *transport.Transport, desc Descriptor) *Service {
	return &Service{tr: tr, desc: desc}
}

// Descriptor returns the descriptor the service was built with.
func (s *Service) Descriptor() Descriptor { return s.desc }

// New returns an empty entity of the service's kind.
func (s *Service) New() *entity.Entity { return s.desc.Schema.New() }

// List fetches the collection, filtered by q (filter, limit, offset, ...).
func (s *Service) List(ctx context.Context, q transport.Query) ([]*entity.Entity, error) {
	res, err := s.tr.Get(ctx, s.desc.Path, q)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(res, s.desc.CollectionKey, s.desc.Schema)
}

// Get fetches one object. ref may be a reference, an entity, or a bare
// object name, which the API resolves below the service path. The result is
// empty when the server has nothing to return.
func (s *Service) Get(ctx context.Context, ref entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	path, err := s.itemPath(ref)
	if err != nil {
		return nil, err
	}
	res, err := s.tr.Get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(res, s.desc.ItemKey, s.desc.Schema)
}

// Create posts payload and returns the created objects as the server now
// has them. Each reference in the reply is fetched in order. A reply
// without objRefs is a *entity.DecodeError.
func (s *Service) Create(ctx context.Context, payload entity.Payload, saveComment string) ([]*entity.Entity, error) {
	body := map[string]any{
		"saveComment":  saveComment,
		s.desc.ItemKey: entity.WireOf(payload),
	}
	res, err := s.tr.Post(ctx, s.desc.Path, body)
	if err != nil {
		return nil, err
	}
	if !res.Has("objRefs") {
		return nil, &entity.DecodeError{Path: "result.objRefs", Want: "array of references"}
	}
	refs, err := res.Strings("objRefs")
	if err != nil {
		return nil, err
	}

	created := make([]*entity.Entity, 0, len(refs))
	for _, ref := range refs {
		got, err := s.Get(ctx, entity.Ref(ref), nil)
		if err != nil {
			return created, fmt.Errorf("fetch created %s: %w", ref, err)
		}
		if len(got) == 0 {
			return created, fmt.Errorf("fetch created %s: %w", ref, ErrNotFound)
		}
		created = append(created, got[0])
	}
	return created, nil
}

// Update modifies the object at ref with fields. With deleteUnspecified the
// server clears every field not present in fields; otherwise the update is
// a patch. Only fields are sanitized, the flag is always sent as given.
func (s *Service) Update(ctx context.Context, ref entity.Referent, fields entity.Payload, saveComment string, deleteUnspecified bool) error {
	r, err := entity.Resolve(ref)
	if err != nil {
		return err
	}
	properties := []any{}
	if props := sanitize.Payload(entity.WireOf(fields)); len(props) > 0 {
		properties = append(properties, props)
	}
	body := map[string]any{
		"ref":               r,
		"objType":           s.desc.ObjType,
		"saveComment":       saveComment,
		"deleteUnspecified": deleteUnspecified,
		"properties":        properties,
	}
	return s.tr.Put(ctx, r, body, transport.SkipSanitize())
}

// Delete removes the object at ref. q typically carries saveComment.
func (s *Service) Delete(ctx context.Context, ref entity.Referent, q transport.Query) error {
	r, err := entity.Resolve(ref)
	if err != nil {
		return err
	}
	return s.tr.Delete(ctx, r, q)
}

// Related lists the objects of another kind attached to owner, e.g. the
// roles of a group at "Groups/1/Roles".
func (s *Service) Related(ctx context.Context, owner entity.Referent, sub, key string, schema *entity.Schema, q transport.Query) ([]*entity.Entity, error) {
	r, err := entity.Resolve(owner)
	if err != nil {
		return nil, err
	}
	res, err := s.tr.Get(ctx, r+"/"+sub, q)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(res, key, schema)
}

// Link attaches target to owner with a PUT to "<owner>/<target>".
func (s *Service) Link(ctx context.Context, owner, target entity.Referent, saveComment string) error {
	path, err := pairPath(owner, target)
	if err != nil {
		return err
	}
	return s.tr.Put(ctx, path, map[string]any{"saveComment": saveComment}, transport.SkipSanitize())
}

// Unlink detaches target from owner.
func (s *Service) Unlink(ctx context.Context, owner, target entity.Referent, saveComment string) error {
	path, err := pairPath(owner, target)
	if err != nil {
		return err
	}
	return s.tr.Delete(ctx, path, transport.Query{"saveComment": saveComment})
}

func (s *Service) itemPath(ref entity.Referent) (string, error) {
	r, err := entity.Resolve(ref)
	if err != nil {
		return "", err
	}
	if _, raw := ref.(entity.Ref); raw && !strings.Contains(r, "/") {
		return s.desc.Path + "/" + url.PathEscape(r), nil
	}
	return r, nil
}

func pairPath(owner, target entity.Referent) (string, error) {
	o, err := entity.Resolve(owner)
	if err != nil {
		return "", err
	}
	t, err := entity.Resolve(target)
	if err != nil {
		return "", err
	}
	return o + "/" + t, nil
}

// DecodeCollection decodes result[key] into entities. The key may hold one
// object or an array. An empty result yields an empty slice; a non-empty
// result without the key is a decode error.
func DecodeCollection(res transport.Result, key string, schema *entity.Schema) ([]*entity.Entity, error) {
	if res.Empty() {
		return []*entity.Entity{}, nil
	}
	raw := res.Raw(key)
	if raw == nil {
		return nil, &entity.DecodeError{Path: "result." + key, Want: "object or array", Got: nil}
	}
	return entity.DecodeMany(schema, raw)
}
