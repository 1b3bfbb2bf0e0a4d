package verbs

const (
	Apply   = VerbValue("apply")
	Get     = VerbValue("get")
	Create  = VerbValue("create")
	Update  = VerbValue("update")
	Delete  = VerbValue("delete")
	List    = VerbValue("list")
	Version = VerbValue("version")
)

type VerbKey struct{}

// Verb stores the VerbValue of the running command in its context.
var Verb = VerbKey{}

// VerbValue is a verb the CLI is invoked with (get, create, delete, ...).
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
