package go_collection

// Request-level rules for the users table on top of its column types.
const usersInsertSchema = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["name", "email", "age"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 255},
		"email": {"type": "string", "format": "email", "maxLength": 255},
		"age": {"type": "integer", "minimum": 1},
		"nickname": {"type": ["string", "null"], "maxLength": 100},
		"external_ref": {"type": ["string", "null"], "format": "uuid"},
		"balance": {"type": ["string", "number"], "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
	}
}`

const usersUpdateSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 255},
		"email": {"type": "string", "format": "email", "maxLength": 255},
		"age": {"type": "integer", "minimum": 1},
		"nickname": {"type": ["string", "null"], "maxLength": 100},
		"external_ref": {"type": ["string", "null"], "format": "uuid"},
		"balance": {"type": ["string", "number"], "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
	}
}`
