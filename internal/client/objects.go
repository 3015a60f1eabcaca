package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/sanitize"
	"github.com/jroosing/mmws/internal/service"
	"github.com/jroosing/mmws/internal/transport"
)

// GetAccess returns the ObjectAccess of the object at ref.
func (c *Client) GetAccess(ctx context.Context, ref entity.Referent, q transport.Query) (*entity.Entity, error) {
	r, err := entity.Resolve(ref)
	if err != nil {
		return nil, err
	}
	res, err := c.tr.Get(ctx, r+"/Access", q)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, fmt.Errorf("access for %s: %w", r, service.ErrNotFound)
	}
	raw := res.Raw("objectAccess")
	if raw == nil {
		return nil, &entity.DecodeError{Path: "result.objectAccess", Want: "object"}
	}
	return entity.DecodeJSON(resources.ObjectAccess, raw)
}

// SetAccess replaces the access entries of the object at ref. objType is the
// object's type name as the server expects it.
func (c *Client) SetAccess(ctx context.Context, ref entity.Referent, objType, saveComment string, identities ...*entity.Entity) error {
	r, err := entity.Resolve(ref)
	if err != nil {
		return err
	}
	wire := make([]any, 0, len(identities))
	for _, ia := range identities {
		if ia != nil {
			wire = append(wire, ia.Wire())
		}
	}
	body := map[string]any{
		"objType":        objType,
		"saveComment":    saveComment,
		"identityAccess": wire,
	}
	return c.tr.Put(ctx, r+"/Access", body)
}

// GetHistory returns the change events recorded for the object at ref.
func (c *Client) GetHistory(ctx context.Context, ref entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	r, err := entity.Resolve(ref)
	if err != nil {
		return nil, err
	}
	res, err := c.tr.Get(ctx, r+"/History", q)
	if err != nil {
		return nil, err
	}
	return service.DecodeCollection(res, "events", resources.Event)
}

// PropertyDefinitions lists the custom property definitions of ref, which
// is an object reference or a kind path such as "Ranges". A non-empty name
// restricts the result to that definition.
func (c *Client) PropertyDefinitions(ctx context.Context, ref entity.Referent, name string) ([]*entity.Entity, error) {
	path, err := propertyPath(ref, name)
	if err != nil {
		return nil, err
	}
	res, err := c.tr.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return service.DecodeCollection(res, "propertyDefinitions", resources.PropertyDefinition)
}

// CreatePropertyDefinition adds a custom property definition to ref.
func (c *Client) CreatePropertyDefinition(ctx context.Context, ref entity.Referent, def entity.Payload, saveComment string) error {
	path, err := propertyPath(ref, "")
	if err != nil {
		return err
	}
	_, err = c.tr.Post(ctx, path, map[string]any{
		"saveComment":        saveComment,
		"propertyDefinition": entity.WireOf(def),
	})
	return err
}

// UpdatePropertyDefinition changes the definition called name. With
// updateExisting the server also rewrites existing property values.
func (c *Client) UpdatePropertyDefinition(ctx context.Context, ref entity.Referent, name string, def entity.Payload, updateExisting bool, saveComment string) error {
	if name == "" {
		return fmt.Errorf("property definition name is required")
	}
	path, err := propertyPath(ref, name)
	if err != nil {
		return err
	}
	body := map[string]any{
		"saveComment":        saveComment,
		"propertyDefinition": sanitize.Payload(entity.WireOf(def)),
		"updateExisting":     updateExisting,
	}
	return c.tr.Put(ctx, path, body, transport.SkipSanitize())
}

// DeletePropertyDefinition removes the definition called name.
func (c *Client) DeletePropertyDefinition(ctx context.Context, ref entity.Referent, name, saveComment string) error {
	if name == "" {
		return fmt.Errorf("property definition name is required")
	}
	path, err := propertyPath(ref, name)
	if err != nil {
		return err
	}
	return c.tr.Delete(ctx, path, transport.Query{"saveComment": saveComment})
}

func propertyPath(ref entity.Referent, name string) (string, error) {
	r, err := entity.Resolve(ref)
	if err != nil {
		return "", err
	}
	path := r + "/PropertyDefinitions"
	if name != "" {
		path += "/" + url.PathEscape(name)
	}
	return path, nil
}
