package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/mmws/internal/fakeapi/models"
)

func (h *Handler) getAccess(c *gin.Context, ref string) {
	doc, err := h.store.Access(ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{"objectAccess": doc})
}

func (h *Handler) setAccess(c *gin.Context, ref string) {
	var req models.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.store.SetAccess(ref, req.ObjType, req.IdentityAccess, user(c), req.SaveComment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getHistory(c *gin.Context, ref string) {
	events, err := h.store.History(ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{"events": events, "totalResults": len(events)})
}

func (h *Handler) listPropertyDefinitions(c *gin.Context, scope, name string) {
	defs, err := h.store.PropertyDefinitions(scope, name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, gin.H{"propertyDefinitions": defs, "totalResults": len(defs)})
}

func (h *Handler) createPropertyDefinition(c *gin.Context, scope string) {
	var req models.PropertyDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.store.CreatePropertyDefinition(scope, req.PropertyDefinition); err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, gin.H{})
}

func (h *Handler) updatePropertyDefinition(c *gin.Context, scope, name string) {
	var req models.PropertyDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.store.UpdatePropertyDefinition(scope, name, req.PropertyDefinition); err != nil {
		respondError(c, err)
		return
	}
	h.logger.Debug("property definition updated", "scope", scope, "name", name, "update_existing", req.UpdateExisting)
	c.Status(http.StatusNoContent)
}
