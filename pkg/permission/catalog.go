package permission

import "slices"

// Resource is the first segment of a permission key.
type Resource string

const (
	Dashboard Resource = "dashboard"
	Payrolls  Resource = "payrolls"
	Clients   Resource = "clients"
	Staff     Resource = "staff"
	Billing   Resource = "billing"
	Documents Resource = "documents"
	Reports   Resource = "reports"
	Audit     Resource = "audit"
	Security  Resource = "security"
	Settings  Resource = "settings"
	Users     Resource = "users"
	Developer Resource = "developer"
)

// catalog lists every action known for each resource.
// Order is significant: Catalog returns keys in this order.
var catalog = []struct {
	resource Resource
	actions  []string
}{
	{Dashboard, []string{"read"}},
	{Payrolls, []string{"read", "create", "update", "write", "approve", "delete"}},
	{Clients, []string{"read", "create", "update", "write", "delete"}},
	{Staff, []string{"read", "create", "update", "delete", "invite"}},
	{Billing, []string{"read", "create", "update", "write", "approve", "delete"}},
	{Documents, []string{"read", "upload", "delete"}},
	{Reports, []string{"read", "export", "schedule"}},
	{Audit, []string{"read", "export"}},
	{Security, []string{"read", "manage"}},
	{Settings, []string{"read", "manage"}},
	{Users, []string{"read", "assign_roles", "impersonate"}},
	{Developer, []string{"tools", "debug"}},
}

var (
	catalogKeys  []Key
	knownKeys    map[Key]struct{}
	keysByTarget map[Resource][]Key
)

func init() {
	knownKeys = make(map[Key]struct{})
	keysByTarget = make(map[Resource][]Key, len(catalog))
	for _, entry := range catalog {
		for _, action := range entry.actions {
			k := Key(string(entry.resource) + Separator + action)
			catalogKeys = append(catalogKeys, k)
			knownKeys[k] = struct{}{}
			keysByTarget[entry.resource] = append(keysByTarget[entry.resource], k)
		}
	}
}

// Catalog returns every known permission key.
func Catalog() []Key {
	return slices.Clone(catalogKeys)
}

// Resources returns every known resource.
func Resources() []Resource {
	out := make([]Resource, 0, len(catalog))
	for _, entry := range catalog {
		out = append(out, entry.resource)
	}
	return out
}

// KeysFor returns the keys defined for a resource, or nil for an unknown one.
func KeysFor(r Resource) []Key {
	return slices.Clone(keysByTarget[r])
}

// Known reports whether k is part of the catalog.
func Known(k Key) bool {
	_, ok := knownKeys[k]
	return ok
}

func knownResource(r Resource) bool {
	_, ok := keysByTarget[r]
	return ok
}
