package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort   = "3000"
	defaultAppEnv    = "local"
	defaultMongoURI  = "mongodb://localhost:27017"
	defaultMongoDB   = "adeqsite"
	defaultRedisAddr = "localhost:6379"
	defaultDataDir   = "public/data"
	defaultMailHost  = "smtp.gmail.com"
	defaultMailPort  = "587"
	defaultFromName  = "ADEQ Water Solutions"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once, layering them over the built-in
// defaults. Process environment variables win over both.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"PORT":           defaultAppPort,
		"APP_ENV":        defaultAppEnv,
		"MONGO_URI":      defaultMongoURI,
		"MONGO_DB":       defaultMongoDB,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"DATA_DIR":       defaultDataDir,
		"MAIL_HOST":      defaultMailHost,
		"MAIL_PORT":      defaultMailPort,
		"MAIL_FROM_NAME": defaultFromName,
		// JWT_SECRET, EMAIL_USER, EMAIL_PASS and OWNER_EMAIL have no
		// defaults on purpose; see RequireSecrets.
	}
}

func AppPort() string { _ = Load(); return get("PORT", defaultAppPort) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }

func MongoURI() string { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDB() string  { _ = Load(); return get("MONGO_DB", defaultMongoDB) }

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", "") }

// DataDir is where content documents (hero.json, services.json, ...) live
// when the local storage disk is in use.
func DataDir() string { _ = Load(); return get("DATA_DIR", defaultDataDir) }

// ── Mail ─────────────────────────────────────────────────────────────────────

func MailHost() string     { _ = Load(); return get("MAIL_HOST", defaultMailHost) }
func MailPort() string     { _ = Load(); return get("MAIL_PORT", defaultMailPort) }
func MailUser() string     { _ = Load(); return get("EMAIL_USER", "") }
func MailPassword() string { _ = Load(); return get("EMAIL_PASS", "") }
func MailFromName() string { _ = Load(); return get("MAIL_FROM_NAME", defaultFromName) }

// MailFrom falls back to the authenticated account address.
func MailFrom() string {
	_ = Load()
	if from := get("MAIL_FROM", ""); from != "" {
		return from
	}
	return MailUser()
}

// OwnerEmail receives booking and order alerts.
func OwnerEmail() string { _ = Load(); return get("OWNER_EMAIL", "") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string    { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string  { _ = Load(); return get("STORAGE_LOCAL_ROOT", DataDir()) }
func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }

// RequireSecrets verifies that secrets with no safe default are present.
// The server refuses to boot without a signing secret outside local dev;
// the original deployment shipped hardcoded fallbacks, which we do not carry.
func RequireSecrets() error {
	_ = Load()
	if JWTSecret() == "" && AppEnv() != "local" {
		return fmt.Errorf("config: JWT_SECRET must be set when APP_ENV=%s", AppEnv())
	}
	return nil
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// .env entries; a missing file is fine.
	if env, err := godotenv.Read(envPath); err == nil {
		for key, val := range env {
			k := strings.ToUpper(strings.TrimSpace(key))
			if k != "" {
				loaded[k] = strings.TrimSpace(val)
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: read %s: %w", envPath, err)
	}

	// Real environment variables override files, including keys that have
	// no entry in the defaults map (secrets).
	for _, key := range knownKeys(loaded) {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = v
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func knownKeys(loaded map[string]string) []string {
	keys := []string{
		"JWT_SECRET", "EMAIL_USER", "EMAIL_PASS", "OWNER_EMAIL", "MAIL_FROM",
		"STORAGE_DISK", "STORAGE_LOCAL_ROOT",
		"S3_BUCKET", "S3_REGION", "S3_KEY", "S3_SECRET", "S3_ENDPOINT",
		"LOG_MONGO", "QUEUE_DRIVER", "ALERT_WEBHOOK", "MAX_BODY_BYTES", "CORS_ORIGINS",
	}
	for k := range loaded {
		keys = append(keys, k)
	}
	return keys
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}
	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a config key at runtime. Meant for tests and one-off
// tooling; the server itself only reads.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(strings.TrimSpace(key))] = value
	mu.Unlock()
}
