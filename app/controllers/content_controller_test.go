package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/pkg/router"
)

// fakeDisk is an in-memory storage disk for content handler tests.
type fakeDisk struct {
	files   map[string][]byte
	putErr  error
	touched []string
}

func newFakeDisk() *fakeDisk { return &fakeDisk{files: map[string][]byte{}} }

func (d *fakeDisk) Put(path string, content []byte) error {
	if d.putErr != nil {
		return d.putErr
	}
	d.files[path] = content
	d.touched = append(d.touched, path)
	return nil
}

func (d *fakeDisk) Get(path string) ([]byte, error) {
	b, ok := d.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return b, nil
}

func (d *fakeDisk) Exists(path string) bool            { _, ok := d.files[path]; return ok }
func (d *fakeDisk) Missing(path string) bool           { return !d.Exists(path) }
func (d *fakeDisk) Delete(path string) error           { delete(d.files, path); return nil }
func (d *fakeDisk) Files(string) ([]string, error)     { return nil, nil }
func (d *fakeDisk) Size(string) (int64, error)         { return 0, nil }
func (d *fakeDisk) LastModified(string) (time.Time, error) {
	return time.Time{}, nil
}

func newContentRouter(disk *fakeDisk) *router.Router {
	c := NewContentController(services.NewContentServiceWith(disk))

	r := router.New()
	api := r.Group("/api")
	api.Get("/{key}", "content.show", c.Show)
	api.Post("/services/update", "content.services_update", c.UpdateServices)
	api.Post("/equipment/update", "content.equipment_update", c.UpdateEquipment)
	admin := api.Group("/admin")
	admin.Put("/{key}", "content.update", c.Update)
	return r
}

func TestContentShowServesDefaults(t *testing.T) {
	r := newContentRouter(newFakeDisk())

	rec, body := do(t, r, http.MethodGet, "/api/booking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["surveyTypes"], 4)
	// Content endpoints return the raw document with no envelope.
	assert.NotContains(t, body, "success")
}

func TestContentShowUnknownKey(t *testing.T) {
	r := newContentRouter(newFakeDisk())

	rec, _ := do(t, r, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentUpdateRoundTrip(t *testing.T) {
	disk := newFakeDisk()
	r := newContentRouter(disk)

	rec, body := do(t, r, http.MethodPut, "/api/admin/hero", map[string]interface{}{
		"slides": []interface{}{map[string]interface{}{"title": "Water you can trust"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hero data updated successfully", body["message"])
	assert.True(t, disk.Exists("hero.json"))

	rec, body = do(t, r, http.MethodGet, "/api/hero", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slides := body["slides"].([]interface{})
	require.Len(t, slides, 1)
}

func TestContentUpdateUnknownKey(t *testing.T) {
	r := newContentRouter(newFakeDisk())

	rec, _ := do(t, r, http.MethodPut, "/api/admin/users", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentUpdateDiskFailure(t *testing.T) {
	disk := newFakeDisk()
	disk.putErr = errors.New("disk full")
	r := newContentRouter(disk)

	rec, body := do(t, r, http.MethodPut, "/api/admin/contact", map[string]interface{}{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestLegacyServicesUpdate(t *testing.T) {
	disk := newFakeDisk()
	r := newContentRouter(disk)

	rec, body := do(t, r, http.MethodPost, "/api/services/update", map[string]interface{}{
		"services": []interface{}{map[string]interface{}{"name": "Borehole Drilling"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Services updated successfully", body["message"])

	rec, body = do(t, r, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["services"], 1)
}

func TestLegacyEquipmentUpdateWithMissingList(t *testing.T) {
	disk := newFakeDisk()
	r := newContentRouter(disk)

	// No "equipment" field in the body: the document resets to empty.
	rec, body := do(t, r, http.MethodPost, "/api/equipment/update", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Equipment updated successfully", body["message"])

	rec, body = do(t, r, http.MethodGet, "/api/equipment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["equipment"])
}
