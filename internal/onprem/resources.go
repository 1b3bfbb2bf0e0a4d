package onprem

import "slices"

var (
	hashChoices     = []string{"none", "consumer", "ip", "header", "cookie"}
	protocolChoices = []string{"http", "https", "grpc", "grpcs", "tcp", "tls"}
)

func idField(description string) Field {
	return Field{Name: "id", Type: TypeString, Include: InclusionBody, DeriveID: true, Description: description}
}

func referenceField(name, description string) Field {
	return Field{
		Name:        name,
		Type:        TypeString,
		Include:     InclusionBody,
		DeriveID:    true,
		Foreign:     "id",
		Aliases:     []string{name + "_id"},
		Description: description,
	}
}

// commonFields are accepted by every entity: tags, paging of list reads and
// the server managed timestamps.
func commonFields() []Field {
	return []Field{
		{Name: "tags", Type: TypeList, Include: InclusionBody, Description: "Tags of the entity"},
		{Name: "size", Type: TypeInt, Query: true, Description: "Page size of list reads"},
		{Name: "offset", Type: TypeString, Query: true, Description: "Page offset of list reads"},
		{Name: "created_at", Type: TypeInt, Include: InclusionIgnored},
		{Name: "updated_at", Type: TypeInt, Include: InclusionIgnored},
	}
}

func read(path string, guard Guard) Operation {
	return Operation{Type: OpRead, Path: path, Guard: guard}
}

func requires(names ...string) Guard {
	return Guard{All: names}
}

var serviceResource = &Resource{
	Kind:        KindService,
	Description: "Upstream services proxied by the gateway",
	Schema: append(Schema{
		idField("Name or UUID of the service"),
		{Name: "name", Type: TypeString, Include: InclusionBody, Description: "Service name"},
		{Name: "retries", Type: TypeInt, Include: InclusionBody, Description: "Number of retries on proxy failure"},
		{Name: "connect_timeout", Type: TypeInt, Include: InclusionBody, Description: "Connect timeout in milliseconds"},
		{Name: "write_timeout", Type: TypeInt, Include: InclusionBody, Description: "Write timeout in milliseconds"},
		{Name: "read_timeout", Type: TypeInt, Include: InclusionBody, Description: "Read timeout in milliseconds"},
		{Name: "protocol", Type: TypeString, Include: InclusionBody, Choices: protocolChoices, Description: "Upstream protocol"},
		{Name: "host", Type: TypeString, Include: InclusionBody, Description: "Upstream host"},
		{Name: "port", Type: TypeInt, Include: InclusionBody, Description: "Upstream port"},
		{Name: "path", Type: TypeString, Include: InclusionBody, Description: "Path of upstream requests"},
		{Name: "url", Type: TypeString, Include: InclusionBody, Description: "Shorthand for protocol, host, port and path"},
	}, commonFields()...),
	Strategy:   StrategyPut,
	EntityPath: "/services/{id}",
	CreatePath: "/services",
	Operations: map[Action]Operation{
		ActionCreate:  {Type: OpUpsert, Guard: requires("id")},
		ActionDelete:  {Type: OpDelete, Guard: requires("id")},
		ActionFind:    read("/services/{id}", requires("id")),
		ActionList:    {Type: OpRead, Path: "/services", Paged: true},
		ActionRoutes:  read("/services/{id}/routes", requires("id")),
		ActionPlugins: read("/services/{id}/plugins", requires("id")),
	},
}

var routeResource = &Resource{
	Kind:        KindRoute,
	Description: "Rules matching client requests to services",
	Schema: append(Schema{
		idField("Name or UUID of the route"),
		{Name: "name", Type: TypeString, Include: InclusionBody, Description: "Route name"},
		{
			Name:        "service",
			Type:        TypeString,
			Include:     InclusionBody,
			DeriveID:    true,
			Foreign:     "id",
			Description: "Name or UUID of the service the route belongs to",
		},
		{Name: "protocols", Type: TypeList, Include: InclusionBody, Description: "Accepted protocols"},
		{Name: "methods", Type: TypeList, Include: InclusionBody, Description: "Matched HTTP methods"},
		{Name: "hosts", Type: TypeList, Include: InclusionBody, Description: "Matched host names"},
		{Name: "paths", Type: TypeList, Include: InclusionBody, Description: "Matched path prefixes"},
		{Name: "regex_priority", Type: TypeInt, Include: InclusionBody, Description: "Priority of regex path evaluation"},
		{Name: "strip_path", Type: TypeBool, Include: InclusionBody, Description: "Strip the matched path prefix"},
		{Name: "preserve_host", Type: TypeBool, Include: InclusionBody, Description: "Forward the client Host header"},
	}, commonFields()...),
	Strategy:   StrategyPut,
	EntityPath: "/routes/{id}",
	CreatePath: "/routes",
	Operations: map[Action]Operation{
		ActionCreate:  {Type: OpUpsert, Guard: requires("id", "service")},
		ActionDelete:  {Type: OpDelete, Guard: requires("id")},
		ActionFind:    read("/routes/{id}", requires("id")),
		ActionList:    {Type: OpRead, Path: "/routes", Paged: true},
		ActionPlugins: read("/routes/{id}/plugins", requires("id")),
	},
}

var consumerResource = &Resource{
	Kind:        KindConsumer,
	Description: "Consumers of proxied services",
	Schema: append(Schema{
		idField("Name or UUID of the consumer"),
		{Name: "username", Type: TypeString, Include: InclusionBody, Description: "Unique username"},
		{Name: "custom_id", Type: TypeString, Include: InclusionBody, Description: "Identifier in an external store"},
	}, commonFields()...),
	Strategy:   StrategyPut,
	EntityPath: "/consumers/{id}",
	CreatePath: "/consumers",
	Operations: map[Action]Operation{
		ActionCreate:  {Type: OpUpsert, Guard: Guard{All: []string{"id"}, Any: []string{"username", "custom_id"}}},
		ActionDelete:  {Type: OpDelete, Guard: requires("id")},
		ActionFind:    read("/consumers/{id}", requires("id")),
		ActionList:    {Type: OpRead, Path: "/consumers", Paged: true},
		ActionPlugins: read("/consumers/{id}/plugins", requires("id")),
	},
}

var pluginResource = &Resource{
	Kind:        KindPlugin,
	Description: "Plugins applied globally or to a service, route or consumer",
	Schema: append(Schema{
		idField("Name or UUID of the plugin instance"),
		{Name: "name", Type: TypeString, Include: InclusionBody, Description: "Name of the installed plugin"},
		referenceField("service", "Name or UUID of the service to scope the plugin to"),
		referenceField("route", "Name or UUID of the route to scope the plugin to"),
		referenceField("consumer", "Name or UUID of the consumer to scope the plugin to"),
		{Name: "config", Type: TypeMap, Include: InclusionBody, Description: "Plugin configuration"},
		{Name: "enabled", Type: TypeBool, Include: InclusionBody, Description: "Whether the plugin is applied"},
		{Name: "protocols", Type: TypeList, Include: InclusionBody, Description: "Protocols the plugin runs on"},
	}, commonFields()...),
	Strategy:   StrategyPostPatch,
	EntityPath: "/plugins/{id}",
	CreatePath: "/plugins",
	Operations: map[Action]Operation{
		ActionCreate:  {Type: OpUpsert, Guard: requires("id", "name")},
		ActionDelete:  {Type: OpDelete, Guard: requires("id")},
		ActionFind:    read("/plugins/{id}", requires("id")),
		ActionList:    {Type: OpRead, Path: "/plugins", Paged: true},
		ActionEnabled: read("/plugins/enabled", Guard{}),
	},
}

var upstreamResource = &Resource{
	Kind:        KindUpstream,
	Description: "Virtual hostnames load balancing over targets",
	Schema: append(Schema{
		idField("Name or UUID of the upstream"),
		{Name: "name", Type: TypeString, Include: InclusionBody, Description: "Hostname of the upstream"},
		{Name: "slots", Type: TypeInt, Include: InclusionBody, Description: "Number of slots in the load balancer"},
		{Name: "hash_on", Type: TypeString, Include: InclusionBody, Choices: hashChoices, Description: "Hashing input"},
		{Name: "hash_fallback", Type: TypeString, Include: InclusionBody, Choices: hashChoices, Description: "Hashing input when the primary yields no hash"},
		{Name: "hash_on_header", Type: TypeString, Include: InclusionBody, Description: "Header used when hash_on is header"},
		{Name: "hash_fallback_header", Type: TypeString, Include: InclusionBody, Description: "Header used when hash_fallback is header"},
		{Name: "hash_on_cookie", Type: TypeString, Include: InclusionBody, Description: "Cookie used when hashing on cookie"},
		{Name: "hash_on_cookie_path", Type: TypeString, Include: InclusionBody, Description: "Path of the hashing cookie"},
		{Name: "healthchecks", Type: TypeMap, Include: InclusionBody, Description: "Active and passive health check configuration"},
	}, commonFields()...),
	Strategy:   StrategyPostPatch,
	EntityPath: "/upstreams/{id}",
	CreatePath: "/upstreams",
	Operations: map[Action]Operation{
		ActionCreate: {Type: OpUpsert, Guard: requires("id")},
		ActionDelete: {Type: OpDelete, Guard: requires("id")},
		ActionFind:   read("/upstreams/{id}", requires("id")),
		ActionList:   {Type: OpRead, Path: "/upstreams", Paged: true},
	},
}

var targetResource = &Resource{
	Kind:        KindTarget,
	Description: "Backend addresses of an upstream",
	Schema: append(Schema{
		referenceField("upstream", "Name or UUID of the upstream the target belongs to"),
		{Name: "target", Type: TypeString, Include: InclusionBody, Description: "Address as host:port"},
		{Name: "weight", Type: TypeInt, Include: InclusionBody, Description: "Load balancing weight"},
	}, commonFields()...),
	Strategy:   StrategyPut,
	EntityPath: "/upstreams/{upstream}/targets/{target}",
	CreatePath: "/upstreams/{upstream}/targets",
	Operations: map[Action]Operation{
		ActionCreate:    {Type: OpUpsert, Guard: requires("upstream", "target")},
		ActionDelete:    {Type: OpDelete, Guard: requires("upstream", "target")},
		ActionFind:      read("/upstreams/{upstream}/targets/{target}", requires("upstream", "target")),
		ActionList:      {Type: OpRead, Path: "/upstreams/{upstream}/targets", Guard: requires("upstream"), Paged: true},
		ActionHealthy:   {Type: OpToggle, Path: "/upstreams/{upstream}/targets/{target}/healthy", Guard: requires("upstream", "target")},
		ActionUnhealthy: {Type: OpToggle, Path: "/upstreams/{upstream}/targets/{target}/unhealthy", Guard: requires("upstream", "target")},
	},
}

var nodeResource = &Resource{
	Kind:        KindNode,
	Description: "The Kong node serving the Admin API",
	Strategy:    StrategyNone,
	Operations: map[Action]Operation{
		ActionInformation: read("/", Guard{}),
		ActionStatus:      read("/status", Guard{}),
	},
}

var resources = []*Resource{
	serviceResource,
	routeResource,
	consumerResource,
	pluginResource,
	upstreamResource,
	targetResource,
	nodeResource,
}

// Resources returns every resource record.
func Resources() []*Resource {
	return slices.Clone(resources)
}

// Lookup returns the record of kind.
func Lookup(kind Kind) (*Resource, bool) {
	for _, r := range resources {
		if r.Kind == kind {
			return r, true
		}
	}
	return nil, false
}
