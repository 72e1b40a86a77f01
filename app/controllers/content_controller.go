package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/response"
)

// updateMessages keeps the per-section success wording the admin UI shows.
var updateMessages = map[string]string{
	"hero":         "Hero data updated successfully",
	"services":     "Services updated successfully",
	"equipment":    "Equipment updated successfully",
	"projects":     "Projects updated successfully",
	"testimonials": "Testimonials updated successfully",
	"contact":      "Contact info updated successfully",
	"booking":      "Booking options updated successfully",
}

// ContentController serves and updates the CMS documents.
type ContentController struct {
	service *services.ContentService
}

func NewContentController(service *services.ContentService) *ContentController {
	return &ContentController{service: service}
}

// Show returns the document for the {key} route param. Unknown keys 404;
// known keys never fail.
func (c *ContentController) Show(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !services.ValidKey(key) {
		response.Fail(w, http.StatusNotFound, "Not found")
		return
	}
	response.JSON(w, http.StatusOK, c.service.Get(key))
}

// Update replaces the document for {key} with the request body wholesale.
func (c *ContentController) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !services.ValidKey(key) {
		response.Fail(w, http.StatusNotFound, "Not found")
		return
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := c.service.Put(key, doc); err != nil {
		logger.WithCtx(r.Context()).Error("content update failed", "key", key, "error", err)
		response.Fail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update %s", key))
		return
	}

	response.OK(w, response.M{"message": updateMessages[key]})
}

// UpdateServices is the legacy services update route, kept for the old
// admin page: the list arrives wrapped in a "services" field.
func (c *ContentController) UpdateServices(w http.ResponseWriter, r *http.Request) {
	c.legacyUpdate(w, r, "services")
}

// UpdateEquipment is the legacy equipment update route.
func (c *ContentController) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	c.legacyUpdate(w, r, "equipment")
}

func (c *ContentController) legacyUpdate(w http.ResponseWriter, r *http.Request, key string) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	items, ok := body[key].([]interface{})
	if !ok {
		items = []interface{}{}
	}

	if err := c.service.Put(key, map[string]interface{}{key: items}); err != nil {
		logger.WithCtx(r.Context()).Error("content update failed", "key", key, "error", err)
		response.Fail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update %s", key))
		return
	}

	response.OK(w, response.M{"message": updateMessages[key]})
}
