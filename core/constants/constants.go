package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Auth defaults
const (
	AccessTokenTTL = 24 * time.Hour
	UserCacheTTL   = 5 * time.Minute
)

// Scheduling defaults
const (
	// DefaultEventDuration is used when a calendar has no explicit default.
	DefaultEventDuration = time.Hour

	// MaxOccurrencesPerExpansion caps a single recurrence expansion so an
	// unbounded weekly rule cannot blow up a range query.
	MaxOccurrencesPerExpansion = 5000

	// WorkerOvercommitFactor flags events staffed beyond factor*required.
	WorkerOvercommitFactor = 2

	// UpcomingEventsHorizon is how far ahead the upcoming-events view looks.
	UpcomingEventsHorizon = 7 * 24 * time.Hour
)

// Asynq task types
const (
	TaskEventReminder = "event:reminder"
)
