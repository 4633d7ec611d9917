package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both request and response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the ID lives in Fiber's context locals, so
	// the logger and error payloads can correlate entries to a request.
	RequestIDLocalKey = "request_id"
)

// RequestID assigns every request an ID: the inbound X-Request-ID when the
// caller sent one, a fresh UUID otherwise. The ID is stored in locals under
// RequestIDLocalKey and echoed on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
