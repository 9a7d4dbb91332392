package api

import (
	"net/http"

	"github.com/erazemk/dailycost/internal/model"
	"github.com/erazemk/dailycost/internal/service"
)

// TagsHandler handles tag endpoints.
type TagsHandler struct {
	Service *service.Service
}

type tagItemsResponse struct {
	ItemIDs []int64 `json:"item_ids"`
}

// List handles GET /api/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Service.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tags)
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TagDraft
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.Service.CreateTag(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tag)
}

// Get handles GET /api/tags/{id}.
func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	tag, err := h.Service.GetTag(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}

// Update handles PUT /api/tags/{id}.
func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	var req model.TagPatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.Service.UpdateTag(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}

// Delete handles DELETE /api/tags/{id}.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := h.Service.DeleteTag(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}

// Items handles GET /api/tags/{id}/items.
func (h *TagsHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	ids, err := h.Service.ItemsForTag(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tagItemsResponse{ItemIDs: ids})
}
