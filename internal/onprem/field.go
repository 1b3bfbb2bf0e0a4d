package onprem

// FieldType is the value type accepted for a field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeBool
	TypeList
	TypeMap
)

func (t FieldType) String() string {
	return [...]string{"string", "int", "bool", "list", "map"}[t]
}

// Inclusion controls whether a field is sent in request bodies.
type Inclusion int

const (
	// InclusionNone fields are neither sent nor compared. They can still feed
	// path placeholders when DeriveID or Foreign place them in the Data map.
	InclusionNone Inclusion = iota
	// InclusionBody fields are sent in the request body.
	InclusionBody
	// InclusionIgnored fields are server managed. They are never sent and are
	// masked when comparing entity representations.
	InclusionIgnored
)

// Field describes one input field of a resource.
type Field struct {
	Name    string
	Type    FieldType
	Include Inclusion
	// DeriveID runs string values through DeriveID before they are stored.
	DeriveID bool
	// Foreign wraps the value in a single entry object keyed by Foreign,
	// e.g. {"id": "<value>"}, referencing another entity.
	Foreign string
	// Query fields are sent as query parameters on paged list reads.
	Query       bool
	Aliases     []string
	Choices     []string
	Description string
}

// Schema is the ordered list of fields a resource accepts.
type Schema []Field

// Lookup finds a field by its name or one of its aliases.
func (s Schema) Lookup(key string) (Field, bool) {
	for _, f := range s {
		if f.Name == key {
			return f, true
		}
		for _, alias := range f.Aliases {
			if alias == key {
				return f, true
			}
		}
	}
	return Field{}, false
}
