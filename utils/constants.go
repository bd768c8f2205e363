// File: utils/constants.go
package utils

// StationsCachePrefix prefixes redis keys holding cached station lists, one per search query.
const StationsCachePrefix = "stations:q:"

// ContextLoggerKey is the gin context key holding the request-scoped zap logger.
const ContextLoggerKey = "logger"

// ContextRequestIDKey is the gin context key holding the request id.
const ContextRequestIDKey = "requestID"
