package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/mmws/internal/fakeapi/models"
	"github.com/jroosing/mmws/internal/fakeapi/store"
)

// Get serves every GET below the API root.
func (h *Handler) Get(c *gin.Context) {
	seg := segments(c)
	if scope, name, ok := propertyScope(seg); ok {
		h.listPropertyDefinitions(c, scope, name)
		return
	}
	switch len(seg) {
	case 1:
		h.list(c, seg[0])
	case 2:
		h.get(c, seg[0]+"/"+seg[1])
	case 3:
		ref := seg[0] + "/" + seg[1]
		switch seg[2] {
		case "Access":
			h.getAccess(c, ref)
		case "History":
			h.getHistory(c, ref)
		default:
			h.related(c, ref, seg[2])
		}
	default:
		unknownPath(c)
	}
}

// Post serves object and property definition creation.
func (h *Handler) Post(c *gin.Context) {
	seg := segments(c)
	if scope, name, ok := propertyScope(seg); ok && name == "" {
		h.createPropertyDefinition(c, scope)
		return
	}
	if len(seg) != 1 {
		unknownPath(c)
		return
	}
	h.create(c, seg[0])
}

// Put serves updates, access changes, property definition updates and
// membership links.
func (h *Handler) Put(c *gin.Context) {
	seg := segments(c)
	if scope, name, ok := propertyScope(seg); ok && name != "" {
		h.updatePropertyDefinition(c, scope, name)
		return
	}
	switch {
	case len(seg) == 2:
		h.update(c, seg[0]+"/"+seg[1])
	case len(seg) == 3 && seg[2] == "Access":
		h.setAccess(c, seg[0]+"/"+seg[1])
	case len(seg) == 4:
		h.link(c, seg[0]+"/"+seg[1], seg[2]+"/"+seg[3])
	default:
		unknownPath(c)
	}
}

// Delete serves object, property definition and membership removal.
func (h *Handler) Delete(c *gin.Context) {
	seg := segments(c)
	comment := c.Query("saveComment")
	if scope, name, ok := propertyScope(seg); ok && name != "" {
		if err := h.store.DeletePropertyDefinition(scope, name); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	switch len(seg) {
	case 2:
		if err := h.store.Delete(seg[0]+"/"+seg[1], user(c), comment); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	case 4:
		if err := h.store.Unlink(seg[0]+"/"+seg[1], seg[2]+"/"+seg[3], user(c), comment); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	default:
		unknownPath(c)
	}
}

func (h *Handler) list(c *gin.Context, path string) {
	desc, ok := h.store.Kind(path)
	if !ok {
		unknownPath(c)
		return
	}
	opts := store.ListOptions{Filter: c.Query("filter")}
	var err error
	if opts.Offset, err = intQuery(c, "offset"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if opts.Limit, err = intQuery(c, "limit"); err != nil {
		badRequest(c, err.Error())
		return
	}

	objs, total, err := h.store.List(path, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{desc.CollectionKey: objs, "totalResults": total})
}

func (h *Handler) get(c *gin.Context, ref string) {
	desc, ok := h.store.Kind(seg0(ref))
	if !ok {
		unknownPath(c)
		return
	}
	obj, err := h.store.Get(ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{desc.ItemKey: obj})
}

func (h *Handler) create(c *gin.Context, path string) {
	desc, ok := h.store.Kind(path)
	if !ok {
		unknownPath(c)
		return
	}
	body, err := decodeBody(c)
	if err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	item, _ := body[desc.ItemKey].(map[string]any)
	comment, _ := body["saveComment"].(string)

	ref, err := h.store.Create(path, item, user(c), comment)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Debug("object created", "ref", ref)
	respondResult(c, http.StatusCreated, models.CreateResult{ObjRefs: []string{ref}})
}

func (h *Handler) update(c *gin.Context, ref string) {
	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	props, err := mergeProperties(req.Properties)
	if err != nil {
		badRequest(c, "invalid properties: "+err.Error())
		return
	}
	if err := h.store.Update(ref, req.ObjType, props, req.DeleteUnspecified, user(c), req.SaveComment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) related(c *gin.Context, owner, sub string) {
	desc, ok := h.store.Kind(sub)
	if !ok {
		unknownPath(c)
		return
	}
	objs, err := h.store.Related(owner, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{desc.CollectionKey: objs, "totalResults": len(objs)})
}

func (h *Handler) link(c *gin.Context, owner, target string) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.store.Link(owner, target, user(c), req.SaveComment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// mergeProperties flattens a list of property maps, or a single map, into
// one map. Later entries win.
func mergeProperties(raw json.RawMessage) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 || string(raw) == "null" {
		return out, nil
	}
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case map[string]any:
		return x, nil
	case []any:
		for _, item := range x {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for k, val := range m {
				out[k] = val
			}
		}
		return out, nil
	default:
		return out, nil
	}
}

func decodeBody(c *gin.Context) (map[string]any, error) {
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	v, err := decodeJSON(b)
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]any)
	return m, nil
}

func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func seg0(ref string) string {
	kind, _, _ := strings.Cut(ref, "/")
	return kind
}
