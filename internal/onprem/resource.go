package onprem

import (
	"fmt"
	"strings"
)

// Kind names an Admin API entity type.
type Kind string

const (
	KindService  Kind = "service"
	KindRoute    Kind = "route"
	KindConsumer Kind = "consumer"
	KindPlugin   Kind = "plugin"
	KindUpstream Kind = "upstream"
	KindTarget   Kind = "target"
	KindNode     Kind = "node"
)

// ParseKind accepts a kind in singular or plural form, in any case.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Resources() {
		if name == string(r.Kind) || name == string(r.Kind)+"s" {
			return r.Kind, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Action names an operation of a resource.
type Action string

const (
	ActionCreate      Action = "create"
	ActionDelete      Action = "delete"
	ActionFind        Action = "find"
	ActionList        Action = "list"
	ActionRoutes      Action = "routes"
	ActionPlugins     Action = "plugins"
	ActionEnabled     Action = "enabled"
	ActionHealthy     Action = "healthy"
	ActionUnhealthy   Action = "unhealthy"
	ActionInformation Action = "information"
	ActionStatus      Action = "status"
)

var actionOrder = []Action{
	ActionCreate,
	ActionDelete,
	ActionFind,
	ActionList,
	ActionRoutes,
	ActionPlugins,
	ActionEnabled,
	ActionHealthy,
	ActionUnhealthy,
	ActionInformation,
	ActionStatus,
}

// Strategy is the way an entity is created or updated.
type Strategy int

const (
	// StrategyNone marks read-only resources.
	StrategyNone Strategy = iota
	// StrategyPut upserts with PUT on the entity path.
	StrategyPut
	// StrategyPostPatch creates with POST on the collection path and updates
	// with PATCH on the entity path.
	StrategyPostPatch
)

func (s Strategy) String() string {
	return [...]string{"none", "put", "post-patch"}[s]
}

// OperationType selects the template an operation runs.
type OperationType int

const (
	OpRead OperationType = iota
	OpUpsert
	OpDelete
	OpToggle
)

// Operation is one action of a resource.
type Operation struct {
	Type OperationType
	// Path is the path template of reads and toggles. Upserts and deletes use
	// the paths of their resource.
	Path  string
	Guard Guard
	// Paged reads send the query fields of the request.
	Paged bool
}

// Resource is the static description of one entity type.
type Resource struct {
	Kind        Kind
	Description string
	Schema      Schema
	Strategy    Strategy
	// EntityPath addresses a single entity, e.g. /services/{id}.
	EntityPath string
	// CreatePath is the collection entities are POSTed to.
	CreatePath string
	Operations map[Action]Operation
}

// Actions lists the supported actions in a stable order.
func (r *Resource) Actions() []Action {
	actions := make([]Action, 0, len(r.Operations))
	for _, a := range actionOrder {
		if _, ok := r.Operations[a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// Operation returns the operation behind action.
func (r *Resource) Operation(action Action) (Operation, bool) {
	op, ok := r.Operations[action]
	return op, ok
}
