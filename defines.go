package viewset

// Action names for the five canonical viewset actions.
const (
	ActionList     = "list"
	ActionCreate   = "create"
	ActionRetrieve = "retrieve"
	ActionUpdate   = "update"
	ActionDestroy  = "destroy"
)

// constants for struct tags consumed by SchemaFromStruct
const (
	JSONTagName     = "json"
	FieldTagName    = "field"
	ValidateTagName = "validate"
)

// constants for field tag modifiers
const (
	RequiredFieldModifier = "required"
	ReadOnlyFieldModifier = "readonly"
	DefaultFieldModifier  = "default"
)

// constants for the pk path parameter
const (
	PKParamName = "pk"
	pkRoutePath = "/:pk"
)

// Default messages for field-level validation failures.
const (
	RequiredFieldMessage = "this field is required"
)

// Mime Type constants for content types.
const (
	ContentTypeApplicationJSON string = "application/json"
)
