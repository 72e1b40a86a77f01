package services

import (
	"encoding/json"
	"time"

	"github.com/adeqintegrated/adeqsite/pkg/cache"
	"github.com/adeqintegrated/adeqsite/pkg/collection"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/metrics"
	"github.com/adeqintegrated/adeqsite/pkg/storage"
)

// ContentKeys are the named documents the CMS manages.
var ContentKeys = []string{
	"hero", "services", "equipment", "projects", "testimonials", "contact", "booking",
}

// contentCacheTTL bounds staleness if an invalidation is ever missed.
const contentCacheTTL = 10 * time.Minute

// ContentService reads and writes the site's CMS documents: one JSON file
// per key on the configured storage disk, with an optional Redis
// read-through cache. Reads never fail the caller; a missing or unreadable
// file falls back to the hardcoded defaults.
type ContentService struct {
	disk     storage.Disk
	useCache bool
}

// NewContentService uses the default storage disk and the shared cache.
func NewContentService() *ContentService {
	return &ContentService{disk: storage.Default(), useCache: true}
}

// NewContentServiceWith pins an explicit disk and no cache, for tests.
func NewContentServiceWith(disk storage.Disk) *ContentService {
	return &ContentService{disk: disk}
}

// ValidKey reports whether key names a managed document.
func ValidKey(key string) bool {
	return collection.Contains(ContentKeys, func(k string) bool { return k == key })
}

// Get returns the document for key. It never returns an error: cache miss
// falls through to the disk, and a missing or corrupt file falls back to
// the defaults.
func (s *ContentService) Get(key string) map[string]interface{} {
	cacheKey := "content:" + key

	if s.useCache {
		var doc map[string]interface{}
		if cache.Get(cacheKey, &doc) {
			metrics.ContentOps.WithLabelValues(key, "read", "cache_hit").Inc()
			return doc
		}
	}

	raw, err := s.disk.Get(key + ".json")
	if err != nil {
		metrics.ContentOps.WithLabelValues(key, "read", "default").Inc()
		return DefaultContent(key)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("content: corrupt document, serving defaults", "key", key, "error", err)
		metrics.ContentOps.WithLabelValues(key, "read", "default").Inc()
		return DefaultContent(key)
	}

	if s.useCache {
		if err := cache.Set(cacheKey, doc, contentCacheTTL); err != nil {
			logger.Debug("content: cache set", "key", key, "error", err)
		}
	}

	metrics.ContentOps.WithLabelValues(key, "read", "ok").Inc()
	return doc
}

// Put replaces the document for key wholesale (last writer wins), pretty
// printed so the files stay hand-editable, and invalidates the cache entry.
func (s *ContentService) Put(key string, doc map[string]interface{}) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		metrics.ContentOps.WithLabelValues(key, "write", "error").Inc()
		return err
	}

	if err := s.disk.Put(key+".json", raw); err != nil {
		metrics.ContentOps.WithLabelValues(key, "write", "error").Inc()
		return err
	}

	if s.useCache {
		if err := cache.Del("content:" + key); err != nil {
			logger.Debug("content: cache invalidate", "key", key, "error", err)
		}
	}

	metrics.ContentOps.WithLabelValues(key, "write", "ok").Inc()
	return nil
}

// Seed writes the default document for every key that has no file yet.
// Used by the content:init command.
func (s *ContentService) Seed() error {
	for _, key := range ContentKeys {
		if s.disk.Exists(key + ".json") {
			continue
		}
		if err := s.Put(key, DefaultContent(key)); err != nil {
			return err
		}
		logger.Info("content: seeded defaults", "key", key)
	}
	return nil
}

// DefaultContent returns the hardcoded fallback document for key. Unknown
// keys get an empty object, matching the storefront's tolerance for
// missing sections.
func DefaultContent(key string) map[string]interface{} {
	switch key {
	case "hero":
		return map[string]interface{}{"slides": []interface{}{}}
	case "services":
		return map[string]interface{}{"services": []interface{}{}}
	case "equipment":
		return map[string]interface{}{"equipment": []interface{}{}}
	case "projects":
		return map[string]interface{}{"projects": []interface{}{}}
	case "testimonials":
		return map[string]interface{}{"testimonials": []interface{}{}}
	case "contact":
		return map[string]interface{}{
			"contact": map[string]interface{}{
				"address": "155 Gbagba Area, Airport Road, Ilorin Kwara State.",
				"phones":  []interface{}{"+234 810 423 7317", "+234 811 427 5025"},
				"emails":  []interface{}{"info@adeqintegrated.com", "support@adeqintegrated.com"},
				"hours": map[string]interface{}{
					"weekdays": "Monday - Friday: 8am - 6pm",
					"saturday": "Saturday: 9am - 2pm",
				},
			},
		}
	case "booking":
		return map[string]interface{}{
			"surveyTypes": []interface{}{
				map[string]interface{}{
					"value": "residential", "label": "Residential Water Survey", "price": 50000,
				},
				map[string]interface{}{
					"value": "commercial", "label": "Commercial Water Survey", "price": 100000,
				},
				map[string]interface{}{
					"value": "mining", "label": "Mining Survey", "price": 150000,
				},
				map[string]interface{}{
					"value": "borehole", "label": "Borehole Drilling Consultation", "price": 25000,
				},
			},
		}
	default:
		return map[string]interface{}{}
	}
}
