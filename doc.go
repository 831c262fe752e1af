// Package viewset provides a small declarative framework for exposing a
// resource collection as a set of CRUD HTTP endpoints.
//
// A viewset maps the five canonical actions to routes relative to a mount
// prefix:
//   - list:     GET    /
//   - create:   POST   /
//   - retrieve: GET    /{pk}
//   - update:   PUT    /{pk} and PATCH /{pk}
//   - destroy:  DELETE /{pk}
//
// Any value that implements one or more of the action interfaces
// ([Lister], [Creator], [Retriever], [Updater], [Destroyer]) can be turned
// into a [Blueprint] with [NewBlueprint]. A blueprint is a named, relocatable
// group of routes; registering it on a gin router group mounts the routes at
// that group's prefix. Only the actions the viewset actually implements
// produce routes.
//
// Between the wire and your storage sits the [Serializer]. A serializer is
// built from an immutable [Schema] of [Field] declarations (required,
// read-only, default value, validators) and is bound to at most one domain
// instance per request. It validates incoming JSON payloads field by field,
// accumulating every error message for every field in one pass, and shapes
// the outbound representation of a bound instance.
//
// [ModelViewSet] combines the two: given a schema and a storage backend it
// auto-implements the five actions, so a full CRUD resource needs no
// hand-written handler bodies. The backend declares its capabilities through
// small interfaces ([ModelLister], [ModelGetter], [ModelCreator],
// [ModelUpdater], [ModelDestroyer]); actions whose capabilities are missing
// are simply not routed.
//
// Failures travel as [*APIError] values carrying an HTTP status. The
// dispatcher translates them exactly once, at the framework boundary, into
// JSON error responses. Any other error coming out of an action or a storage
// hook is logged and rendered as a plain 500 - the framework deliberately
// does not classify errors it does not own.
//
// Schemas can be declared in code with [NewSchema], or derived from a struct
// prototype with [SchemaFromStruct], using `json` tags for field names,
// a `field` tag for required/readonly/default modifiers and a `validate` tag
// for validation rules.
package viewset
