package viewset

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// Action interfaces
///////////////////////////////////////////////////////////////////////////////

// The per-action interfaces below are how a viewset declares which of the
// five canonical actions it supports. NewBlueprint probes them by type
// assertion and registers routes only for the ones present - there is no
// reflective method lookup.

// Lister handles GET / (the collection).
type Lister interface {
	List(ctx *Context) (*Response, error)
}

// Creator handles POST /.
type Creator interface {
	Create(ctx *Context) (*Response, error)
}

// Retriever handles GET /{pk}.
type Retriever interface {
	Retrieve(ctx *Context) (*Response, error)
}

// Updater handles PUT /{pk} and PATCH /{pk}.
type Updater interface {
	Update(ctx *Context) (*Response, error)
}

// Destroyer handles DELETE /{pk}.
type Destroyer interface {
	Destroy(ctx *Context) (*Response, error)
}

///////////////////////////////////////////////////////////////////////////////
// Action sets
///////////////////////////////////////////////////////////////////////////////

// ActionSet is a flag set of supported actions.
type ActionSet uint8

const (
	WithList ActionSet = 1 << iota
	WithCreate
	WithRetrieve
	WithUpdate
	WithDestroy

	// AllActions is the full CRUD set.
	AllActions = WithList | WithCreate | WithRetrieve | WithUpdate | WithDestroy
	// ReadOnlyActions covers the two non-mutating actions.
	ReadOnlyActions = WithList | WithRetrieve
)

// Has reports whether every action in flags is in the set.
func (s ActionSet) Has(flags ActionSet) bool {
	return s&flags == flags
}

// ActionProvider lets a viewset restrict its routed actions to a subset of
// the action interfaces it implements. NewBlueprint intersects the declared
// set with the implemented one; declaring an unimplemented action does not
// conjure a route.
type ActionProvider interface {
	Actions() ActionSet
}

// implementedActions probes vs for the per-action interfaces.
func implementedActions(vs any) ActionSet {
	var set ActionSet
	if _, ok := vs.(Lister); ok {
		set |= WithList
	}
	if _, ok := vs.(Creator); ok {
		set |= WithCreate
	}
	if _, ok := vs.(Retriever); ok {
		set |= WithRetrieve
	}
	if _, ok := vs.(Updater); ok {
		set |= WithUpdate
	}
	if _, ok := vs.(Destroyer); ok {
		set |= WithDestroy
	}
	return set
}

///////////////////////////////////////////////////////////////////////////////
// Storage backend capabilities
///////////////////////////////////////////////////////////////////////////////

// The storage hooks a ModelViewSet delegates to. A backend implements the
// subset it supports; missing capabilities translate into missing routes.
// The framework performs no I/O of its own - these hooks are the only place
// storage is touched, and they own any concurrent-mutation safety.

// ModelLister supplies the collection for the list action. Output order is
// preserved in the response.
type ModelLister interface {
	ListModels(ctx context.Context) ([]any, error)
}

// ModelGetter resolves one model by primary key for the item-level actions.
// Returning (nil, nil) means the model does not exist and yields a 404.
type ModelGetter interface {
	GetModel(ctx context.Context, pk string) (any, error)
}

// ModelCreator writes a new model from validated data and returns it.
type ModelCreator interface {
	CreateModel(ctx context.Context, data map[string]any) (any, error)
}

// ModelUpdater applies validated data to an existing model and returns the
// updated model. data only contains the fields the payload supplied; absent
// fields must be left untouched.
type ModelUpdater interface {
	UpdateModel(ctx context.Context, instance any, data map[string]any) (any, error)
}

// ModelDestroyer removes a model from storage.
type ModelDestroyer interface {
	DestroyModel(ctx context.Context, instance any) error
}

///////////////////////////////////////////////////////////////////////////////
// ModelViewSet
///////////////////////////////////////////////////////////////////////////////

// ModelViewSet auto-implements the five actions as an orchestration over a
// serializer schema and a storage backend, so a CRUD resource needs no
// hand-written action bodies.
//
// The supported action set is derived from the backend's capabilities:
// list needs ModelLister, retrieve needs ModelGetter, create needs
// ModelCreator, update needs ModelGetter and ModelUpdater, destroy needs
// ModelGetter and ModelDestroyer.
type ModelViewSet struct {
	schema  *Schema
	actions ActionSet

	lister    ModelLister
	getter    ModelGetter
	creator   ModelCreator
	updater   ModelUpdater
	destroyer ModelDestroyer
}

// NewModelViewSet builds a full CRUD viewset over schema and backend.
func NewModelViewSet(schema *Schema, backend any) *ModelViewSet {
	vs := &ModelViewSet{schema: schema}

	vs.lister, _ = backend.(ModelLister)
	vs.getter, _ = backend.(ModelGetter)
	vs.creator, _ = backend.(ModelCreator)
	vs.updater, _ = backend.(ModelUpdater)
	vs.destroyer, _ = backend.(ModelDestroyer)

	if vs.lister != nil {
		vs.actions |= WithList
	}
	if vs.getter != nil {
		vs.actions |= WithRetrieve
	}
	if vs.creator != nil {
		vs.actions |= WithCreate
	}
	if vs.getter != nil && vs.updater != nil {
		vs.actions |= WithUpdate
	}
	if vs.getter != nil && vs.destroyer != nil {
		vs.actions |= WithDestroy
	}

	return vs
}

// NewReadOnlyModelViewSet builds a viewset limited to list and retrieve,
// regardless of the backend's write capabilities.
func NewReadOnlyModelViewSet(schema *Schema, backend any) *ModelViewSet {
	vs := NewModelViewSet(schema, backend)
	vs.actions &= ReadOnlyActions
	return vs
}

// Actions implements ActionProvider.
func (vs *ModelViewSet) Actions() ActionSet {
	return vs.actions
}

// Schema returns the serializer schema backing this viewset.
func (vs *ModelViewSet) Schema() *Schema {
	return vs.schema
}

// List serializes every model the backend returns, one fresh serializer per
// item, preserving backend order.
func (vs *ModelViewSet) List(ctx *Context) (*Response, error) {
	if vs.lister == nil {
		return nil, NewNotImplemented("list is not supported by this resource")
	}

	models, err := vs.lister.ListModels(ctx.Context())
	if err != nil {
		return nil, err
	}

	// Always respond with an array, never null.
	out := make([]map[string]any, 0, len(models))
	for _, model := range models {
		serializer := NewSerializer(vs.schema)
		serializer.Bind(model)

		rep, err := serializer.Serialize()
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}

	return OK(out), nil
}

// Retrieve serializes the model matching ctx.PK, or fails with 404.
func (vs *ModelViewSet) Retrieve(ctx *Context) (*Response, error) {
	model, err := vs.getModelOr404(ctx)
	if err != nil {
		return nil, err
	}

	serializer := NewSerializer(vs.schema)
	serializer.Bind(model)

	rep, err := serializer.Serialize()
	if err != nil {
		return nil, err
	}

	return OK(rep), nil
}

// Create validates the payload in full, hands the cleaned data to the
// backend and responds 201 with the stored model's representation.
func (vs *ModelViewSet) Create(ctx *Context) (*Response, error) {
	if vs.creator == nil {
		return nil, NewNotImplemented("create is not supported by this resource")
	}

	payload, err := ctx.Payload()
	if err != nil {
		return nil, NewBadRequest("could not read request body")
	}

	serializer := NewSerializer(vs.schema)
	if !serializer.IsValid(payload) {
		return nil, NewValidationError(serializer.Errors())
	}

	model, err := vs.creator.CreateModel(ctx.Context(), serializer.ValidatedData())
	if err != nil {
		return nil, err
	}

	serializer.Bind(model)
	rep, err := serializer.Serialize()
	if err != nil {
		return nil, err
	}

	return Created(rep), nil
}

// Update validates the payload partially - only supplied fields are checked,
// required is a creation concern - applies it to the model matching ctx.PK
// and responds with the updated representation. PUT and PATCH both land
// here.
func (vs *ModelViewSet) Update(ctx *Context) (*Response, error) {
	if vs.updater == nil {
		return nil, NewNotImplemented("update is not supported by this resource")
	}

	model, err := vs.getModelOr404(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := ctx.Payload()
	if err != nil {
		return nil, NewBadRequest("could not read request body")
	}

	serializer := NewSerializer(vs.schema)
	serializer.Bind(model)
	if !serializer.IsValidPartial(payload) {
		return nil, NewValidationError(serializer.Errors())
	}

	updated, err := vs.updater.UpdateModel(ctx.Context(), model, serializer.ValidatedData())
	if err != nil {
		return nil, err
	}

	serializer.Bind(updated)
	rep, err := serializer.Serialize()
	if err != nil {
		return nil, err
	}

	return OK(rep), nil
}

// Destroy removes the model matching ctx.PK and responds 204 with no body.
func (vs *ModelViewSet) Destroy(ctx *Context) (*Response, error) {
	if vs.destroyer == nil {
		return nil, NewNotImplemented("destroy is not supported by this resource")
	}

	model, err := vs.getModelOr404(ctx)
	if err != nil {
		return nil, err
	}

	if err := vs.destroyer.DestroyModel(ctx.Context(), model); err != nil {
		return nil, err
	}

	return NoContent(), nil
}

// getModelOr404 resolves ctx.PK through the backend, mapping an absent model
// to a 404 error.
func (vs *ModelViewSet) getModelOr404(ctx *Context) (any, error) {
	if vs.getter == nil {
		return nil, NewNotImplemented("item lookup is not supported by this resource")
	}

	model, err := vs.getter.GetModel(ctx.Context(), ctx.PK)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, NewNotFound("no model with such primary key")
	}

	return model, nil
}
