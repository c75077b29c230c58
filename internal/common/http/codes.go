package http

const (
	CodeUnknown            = "UNKNOWN"
	CodeInternal           = "INTERNAL_ERROR"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInvalidUserID      = "INVALID_USER_ID_FORMAT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
