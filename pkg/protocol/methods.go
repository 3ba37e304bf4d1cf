package protocol

const (
	// Current protocol revision
	ProtocolRevision = "2025-03-26"

	// Lifecycle
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"

	// Server features
	MethodListTools            = "tools/list"
	MethodCallTool             = "tools/call"
	MethodToolsListChanged     = "notifications/tools/list_changed"
	MethodListResources        = "resources/list"
	MethodReadResource         = "resources/read"
	MethodSubscribeResource    = "resources/subscribe"
	MethodUnsubscribeResource  = "resources/unsubscribe"
	MethodResourceUpdated      = "notifications/resources/updated"
	MethodResourcesListChanged = "notifications/resources/list_changed"
	MethodListPrompts          = "prompts/list"
	MethodGetPrompt            = "prompts/get"
	MethodPromptsListChanged   = "notifications/prompts/list_changed"
	MethodSetLogLevel          = "logging/setLevel"
	MethodLoggingMessage       = "notifications/message"

	// Client features
	MethodCreateMessage    = "sampling/createMessage"
	MethodListRoots        = "roots/list"
	MethodRootsListChanged = "notifications/roots/list_changed"

	// Utilities
	MethodCancelled = "notifications/cancelled"
	MethodProgress  = "notifications/progress"
)

// CapabilityType names a capability advertised during initialization
type CapabilityType string

const (
	CapabilityTools     CapabilityType = "tools"
	CapabilityResources CapabilityType = "resources"
	CapabilityPrompts   CapabilityType = "prompts"
	CapabilityLogging   CapabilityType = "logging"
	CapabilitySampling  CapabilityType = "sampling"
	CapabilityRoots     CapabilityType = "roots"
)

// LogLevel specifies the severity of log messages, following syslog names
type LogLevel string

const (
	LogLevelDebug     LogLevel = "debug"
	LogLevelInfo      LogLevel = "info"
	LogLevelNotice    LogLevel = "notice"
	LogLevelWarning   LogLevel = "warning"
	LogLevelError     LogLevel = "error"
	LogLevelCritical  LogLevel = "critical"
	LogLevelAlert     LogLevel = "alert"
	LogLevelEmergency LogLevel = "emergency"
)

var logLevelRank = map[LogLevel]int{
	LogLevelDebug:     0,
	LogLevelInfo:      1,
	LogLevelNotice:    2,
	LogLevelWarning:   3,
	LogLevelError:     4,
	LogLevelCritical:  5,
	LogLevelAlert:     6,
	LogLevelEmergency: 7,
}

// Valid reports whether l is a known level.
func (l LogLevel) Valid() bool {
	_, ok := logLevelRank[l]
	return ok
}

// AtLeast reports whether l is as severe as min.
func (l LogLevel) AtLeast(min LogLevel) bool {
	return logLevelRank[l] >= logLevelRank[min]
}
