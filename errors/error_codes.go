package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004
	ErrorCode_FORBIDDEN        ErrorCode = 1005

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 1100
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 1101

	// Videos and uploads
	ErrorCode_VIDEO_NOT_FOUND      ErrorCode = 1200
	ErrorCode_UPLOAD_PRESIGN_FAILED ErrorCode = 1201

	// Planning
	ErrorCode_PLAN_NOT_FOUND     ErrorCode = 1300
	ErrorCode_PLAN_INPUT_INVALID ErrorCode = 1301
	ErrorCode_PLAN_JOB_NOT_FOUND ErrorCode = 1302

	// Model layer
	ErrorCode_MODEL_EXHAUSTED   ErrorCode = 1400
	ErrorCode_MODEL_UNAVAILABLE ErrorCode = 1401

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 1500
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 1501

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 1600
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_VIDEO_NOT_FOUND:            "VIDEO_NOT_FOUND",
	ErrorCode_UPLOAD_PRESIGN_FAILED:      "UPLOAD_PRESIGN_FAILED",
	ErrorCode_PLAN_NOT_FOUND:             "PLAN_NOT_FOUND",
	ErrorCode_PLAN_INPUT_INVALID:         "PLAN_INPUT_INVALID",
	ErrorCode_PLAN_JOB_NOT_FOUND:         "PLAN_JOB_NOT_FOUND",
	ErrorCode_MODEL_EXHAUSTED:            "MODEL_EXHAUSTED",
	ErrorCode_MODEL_UNAVAILABLE:          "MODEL_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
