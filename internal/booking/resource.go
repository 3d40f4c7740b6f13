package booking

import "golang.org/x/text/unicode/norm"

// ResourceType tags a resource with its broad category.
type ResourceType string

const (
	ResourceRoom      ResourceType = "room"
	ResourceEquipment ResourceType = "equipment"
	ResourcePerson    ResourceType = "person"
	ResourceVehicle   ResourceType = "vehicle"
	ResourceOther     ResourceType = "other"
)

// ValidResourceTypes defines the allowed resource types.
var ValidResourceTypes = map[ResourceType]bool{
	ResourceRoom:      true,
	ResourceEquipment: true,
	ResourcePerson:    true,
	ResourceVehicle:   true,
	ResourceOther:     true,
}

// Resource is a shared, finite thing events compete for.
//
// Capacity is the total simultaneously-usable quantity (>= 1). Inactive
// resources are never assignable to new events regardless of capacity;
// existing assignments are untouched by deactivation.
type Resource struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"` // unique, NFC-normalized
	Type     ResourceType `json:"type"`
	Capacity int64        `json:"capacity"`
	Active   bool         `json:"active"`
}

// NormalizeName applies Unicode NFC normalization to a resource or
// constraint name. Uniqueness is enforced over the normalized form so
// that visually identical names cannot coexist.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
