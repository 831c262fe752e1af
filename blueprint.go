package viewset

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrEmptyBlueprintName = errors.New("blueprint name cannot be empty")
	ErrNoSupportedActions = errors.New("viewset implements no supported action")
)

///////////////////////////////////////////////////////////////////////////////
// Blueprint
///////////////////////////////////////////////////////////////////////////////

// Route is one registered method/path/action binding, relative to the mount
// prefix.
type Route struct {
	Method string
	Path   string
	Action string
}

type actionFunc func(ctx *Context) (*Response, error)

// Blueprint is a named, relocatable group of routes derived from a viewset.
// Building one is a pure function of the viewset's supported actions;
// registering it on a router group mounts the routes at that group's prefix.
//
// Blueprints are immutable after construction and safe for concurrent use.
type Blueprint struct {
	name     string
	routes   []Route
	handlers map[string]actionFunc
	logger   zerolog.Logger
}

// BlueprintOpts carries optional blueprint configuration.
type BlueprintOpts struct {
	// Logger receives one debug event per dispatched request and an error
	// event for every 5xx translation. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// NewBlueprint translates a viewset into its route set.
//
// The viewset's supported actions are the per-action interfaces it
// implements, optionally narrowed by an ActionProvider declaration. Exactly
// those actions produce routes; unsupported actions yield no route at all,
// leaving the router's own 404/405 handling to answer for them.
func NewBlueprint(name string, vs any, opts BlueprintOpts) (*Blueprint, error) {
	if name == "" {
		return nil, ErrEmptyBlueprintName
	}

	actions := implementedActions(vs)
	if provider, ok := vs.(ActionProvider); ok {
		actions &= provider.Actions()
	}
	if actions == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSupportedActions, name)
	}

	bp := &Blueprint{
		name:     name,
		handlers: make(map[string]actionFunc),
		logger:   zerolog.Nop(),
	}
	if opts.Logger != nil {
		bp.logger = *opts.Logger
	}

	if actions.Has(WithList) {
		bp.addRoute(http.MethodGet, "", ActionList, vs.(Lister).List)
	}
	if actions.Has(WithCreate) {
		bp.addRoute(http.MethodPost, "", ActionCreate, vs.(Creator).Create)
	}
	if actions.Has(WithRetrieve) {
		bp.addRoute(http.MethodGet, pkRoutePath, ActionRetrieve, vs.(Retriever).Retrieve)
	}
	if actions.Has(WithUpdate) {
		update := vs.(Updater).Update
		bp.addRoute(http.MethodPut, pkRoutePath, ActionUpdate, update)
		bp.addRoute(http.MethodPatch, pkRoutePath, ActionUpdate, update)
	}
	if actions.Has(WithDestroy) {
		bp.addRoute(http.MethodDelete, pkRoutePath, ActionDestroy, vs.(Destroyer).Destroy)
	}

	return bp, nil
}

func (bp *Blueprint) addRoute(method, path, action string, fn actionFunc) {
	bp.routes = append(bp.routes, Route{Method: method, Path: path, Action: action})
	bp.handlers[action] = fn
}

// Name returns the blueprint's name.
func (bp *Blueprint) Name() string {
	return bp.name
}

// Routes returns the route set in registration order. The returned slice
// must not be modified.
func (bp *Blueprint) Routes() []Route {
	return bp.routes
}

// Register mounts every route on r. Mount at a prefix by passing a router
// group:
//
//	bp.Register(engine.Group("/cats"))
func (bp *Blueprint) Register(r gin.IRouter) {
	for _, route := range bp.routes {
		r.Handle(route.Method, route.Path, bp.dispatch(route.Action))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Dispatch
///////////////////////////////////////////////////////////////////////////////

// dispatch wraps one action as a gin handler: build the per-request Context,
// run the action, translate the outcome to a wire response.
func (bp *Blueprint) dispatch(action string) gin.HandlerFunc {
	fn := bp.handlers[action]

	return func(c *gin.Context) {
		ctx := newContext(c, action)

		resp, err := fn(ctx)
		if err != nil {
			status, body := ErrorResponse(err)
			if status >= http.StatusInternalServerError {
				bp.logger.Error().
					Err(err).
					Str("blueprint", bp.name).
					Str("action", action).
					Msg("action failed")
			}
			c.JSON(status, body)
			return
		}
		if resp == nil {
			resp = NoContent()
		}

		bp.logger.Debug().
			Str("blueprint", bp.name).
			Str("action", action).
			Int("status", resp.Status).
			Msg("dispatched")

		if resp.Body == nil {
			c.Status(resp.Status)
			return
		}
		c.JSON(resp.Status, resp.Body)
	}
}

// ErrorResponse is the boundary translation from an action error to a wire
// response: status plus JSON body. *APIError values keep their carried
// status and render as {"detail": ...} with an "errors" mapping for
// validation failures. Anything else is an unclassified server error - the
// caller logs it, the client sees a bare 500.
func ErrorResponse(err error) (int, any) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		body := gin.H{"detail": apiErr.Message}
		if len(apiErr.Fields) > 0 {
			body["errors"] = apiErr.Fields
		}
		return apiErr.Status, body
	}

	internal := NewInternalError()
	return internal.Status, gin.H{"detail": internal.Message}
}
