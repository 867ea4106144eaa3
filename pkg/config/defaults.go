package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "go2koereskole"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "3002"

	DefaultSessionTTL        = 7 * 24 * time.Hour
	DefaultSessionCookieName = "go2_sid"

	DefaultDefaultLessonType    = "Kørelektion"
	DefaultMaxLessonDurationMin = 480

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

// The four fixed pickup locations the school operates from. Overridable via
// ALLOWED_LOCATIONS so the list lives in exactly one place.
var DefaultAllowedLocations = []string{
	"Valby – Langgade St.",
	"Nørrebro – Nørrebro Station",
	"Amager – Sundbyvester Plads",
	"Hvidovre – Friheden Station",
}
