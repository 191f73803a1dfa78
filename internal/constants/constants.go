package constants

import "time"

// Context and session keys
const (
	ContextKeyPrincipal = "principal"
	SessionKeyToken     = "token"
	SessionCookieName   = "zen_session"
)

// Task limits
const (
	MinTitleLength       = 3
	MaxTitleLength       = 300
	MinDescriptionLength = 3
	MaxDescriptionLength = 1000
	DaysPerWeek          = 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	MaxAISuggestedTasks = 20
	DefaultSessionAge   = 7 * 24 * time.Hour
)
