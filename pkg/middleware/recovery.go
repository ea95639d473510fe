package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/recordguard/pkg/utils/errors"
	"github.com/kart-io/recordguard/pkg/utils/response"
)

// PanicHandler is called after a panic is recovered, before the error
// response is written. Useful for alerting.
type PanicHandler func(c *gin.Context, err interface{}, stack []byte)

// Recovery returns a middleware that recovers from panics and responds with
// a JSON error. The full stack trace is always logged; it is never returned
// to the client.
func Recovery() gin.HandlerFunc {
	return RecoveryWithHandler(nil)
}

// RecoveryWithHandler returns a Recovery middleware with a custom panic handler.
func RecoveryWithHandler(onPanic PanicHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				logger.Errorw("panic recovered",
					"error", fmt.Sprintf("%v", r),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", string(stack),
				)

				if onPanic != nil {
					onPanic(c, r, stack)
				}

				response.Write(c, errors.ErrInternal, nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
