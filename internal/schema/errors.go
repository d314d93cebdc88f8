package schema

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for schema validation
var (
	ErrSchemaNotFound      = goerr.New("schema: product schema not found")
	ErrMissingProductID    = goerr.New("schema: product_id is required")
	ErrDuplicateTabID      = goerr.New("schema: duplicate tab ID")
	ErrDuplicateFieldID    = goerr.New("schema: duplicate field ID")
	ErrDuplicateOptionID   = goerr.New("schema: duplicate option ID")
	ErrInvalidFieldType    = goerr.New("schema: invalid field type")
	ErrMissingOptions      = goerr.New("schema: select/radio field requires at least one option")
	ErrUnknownDependency   = goerr.New("schema: dependsOn references an unknown field")
	ErrUnknownFilterSource = goerr.New("schema: filterBy references an unknown field")
	ErrInvalidRange        = goerr.New("schema: min is greater than max")
	ErrDuplicateProduct    = goerr.New("schema: duplicate product_id")
)

// Context keys for error values
const (
	pathKey    = "path"
	productKey = "product_id"
	tabKey     = "tab_id"
	fieldKey   = "field_id"
	optionKey  = "option_id"
)
