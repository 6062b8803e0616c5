package models

// DefaultColor is used for node types without an entry in the palette
const DefaultColor = "#9E9E9E"

// DefaultRadius is the visual disc radius for node types without an entry
const DefaultRadius = 20.0

var typeColors = map[NodeType]string{
	TypeAsset:       "#4285F4", // Blue
	TypeFacility:    "#34A853", // Green
	TypeDepartment:  "#FBBC05", // Yellow
	TypeWorkstation: "#673AB7", // Purple
	TypePersonnel:   "#EA4335", // Red
	TypeOther:       "#00BCD4", // Cyan
}

var typeRadii = map[NodeType]float64{
	TypeAsset:       20,
	TypeFacility:    26,
	TypeDepartment:  24,
	TypeWorkstation: 18,
	TypePersonnel:   16,
	TypeOther:       DefaultRadius,
}

// ColorFor returns the fill color of a node type, DefaultColor if unknown
func ColorFor(t NodeType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultColor
}

// RadiusFor returns the visual radius of a node type, DefaultRadius if unknown
func RadiusFor(t NodeType) float64 {
	if r, ok := typeRadii[t]; ok {
		return r
	}
	return DefaultRadius
}

// KnownTypes lists the node types with a dedicated palette entry, in legend order
func KnownTypes() []NodeType {
	return []NodeType{TypeAsset, TypeFacility, TypeDepartment, TypeWorkstation, TypePersonnel, TypeOther}
}
