package viewset

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

///////////////////////////////////////////////////////////////////////////////
// Context
///////////////////////////////////////////////////////////////////////////////

// Context carries everything one dispatched request exposes to an action:
// the action name, the pk path parameter for item-level actions and the
// lazily-read request payload.
//
// One Context is built per request and discarded with it. It is not safe for
// concurrent use.
type Context struct {
	// Action is the canonical action name being dispatched.
	Action string
	// PK is the primary key path parameter. Empty for list/create.
	PK string

	gin *gin.Context

	payload     *Payload
	payloadErr  error
	payloadOnce sync.Once
}

func newContext(c *gin.Context, action string) *Context {
	return &Context{
		Action: action,
		PK:     c.Param(PKParamName),
		gin:    c,
	}
}

// Gin returns the underlying gin context for anything the framework does not
// surface directly (headers, query parameters, ...).
func (c *Context) Gin() *gin.Context {
	return c.gin
}

// Request returns the inbound HTTP request.
func (c *Context) Request() *http.Request {
	return c.gin.Request
}

// Context returns the request-scoped context.Context. Storage hooks receive
// it so cancellation and deadlines flow through from the router.
func (c *Context) Context() context.Context {
	return c.gin.Request.Context()
}

// Payload reads and wraps the request body. The body is read at most once;
// repeated calls return the same Payload.
func (c *Context) Payload() (*Payload, error) {
	c.payloadOnce.Do(func() {
		raw, err := io.ReadAll(c.gin.Request.Body)
		if err != nil {
			c.payloadErr = err
			return
		}
		c.payload = NewPayload(raw)
	})
	return c.payload, c.payloadErr
}

///////////////////////////////////////////////////////////////////////////////
// Response
///////////////////////////////////////////////////////////////////////////////

// Response is what an action hands back to the dispatcher: a status code and
// a JSON-encodable body. A nil body produces an empty response.
type Response struct {
	Status int
	Body   any
}

// OK builds a 200 response.
func OK(body any) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

// Created builds a 201 response.
func Created(body any) *Response {
	return &Response{Status: http.StatusCreated, Body: body}
}

// NoContent builds an empty 204 response.
func NoContent() *Response {
	return &Response{Status: http.StatusNoContent}
}
