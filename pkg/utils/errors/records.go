package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Record-access service errors (AA=20).
//
// Denial and throttling responses stay generic on purpose: the response to
// the client must not reveal which internal rule produced the outcome.
var (
	// ErrAccessDenied is returned for every denied record access,
	// regardless of the rule family that produced the denial.
	ErrAccessDenied = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryPermission, 0),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Access not permitted",
		MessageZH: "无权访问",
	})

	// ErrCSRFTokenInvalid indicates a missing, expired, or already
	// consumed CSRF token.
	ErrCSRFTokenInvalid = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryPermission, 1),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Invalid or expired request token",
		MessageZH: "请求令牌无效或已过期",
	})

	// ErrIdentityUnresolved indicates the session carries no resolvable
	// active account.
	ErrIdentityUnresolved = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryAuth, 0),
		HTTP:      http.StatusUnauthorized,
		GRPCCode:  codes.Unauthenticated,
		MessageEN: "Identity could not be resolved",
		MessageZH: "无法解析身份",
	})

	// ErrRateLimited is returned when the trailing-window caps for a
	// sensitive action are reached.
	ErrRateLimited = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryRateLimit, 0),
		HTTP:      http.StatusTooManyRequests,
		GRPCCode:  codes.ResourceExhausted,
		MessageEN: "Rate limit exceeded",
		MessageZH: "请求过于频繁",
	})

	// ErrPatientNotFound indicates the target patient does not exist.
	// Internal use only; handlers translate it to ErrAccessDenied.
	ErrPatientNotFound = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Patient not found",
		MessageZH: "患者不存在",
	})

	// ErrAuditWriteFailed indicates the append to the audit trail failed.
	// The triggering action is not rolled back; the failure is escalated
	// through the operational channel.
	ErrAuditWriteFailed = Register(&Errno{
		Code:      MakeCode(ServiceRecordAccess, CategoryDatabase, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Audit write failed",
		MessageZH: "审计写入失败",
	})
)
