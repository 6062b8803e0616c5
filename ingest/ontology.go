package ingest

import (
	"github.com/TFMV/ontograph/models"
)

// Work-order sheet columns
const (
	ColAssetID     = "Asset ID"
	ColAssetName   = "Asset Name"
	ColFacility    = "Facility Name"
	ColDepartment  = "Department"
	ColWorkstation = "Workstation Name"
	ColAssignedTo  = "Assigned To"
	ColWorkOrderID = "Work Order ID"
)

// Relationship types extracted from a sheet
const (
	RelLocatedIn  = "LOCATED_IN"
	RelBelongsTo  = "BELONGS_TO"
	RelAssignedTo = "ASSIGNED_TO"
	RelMaintains  = "MAINTAINS"
)

// WorkOrderPrefix starts the text of every work-order reference
const WorkOrderPrefix = "WO_"

// WorkOrder is the entity type of work orders, which are only extracted on
// request
const WorkOrder models.NodeType = "WorkOrder"

type entityRule struct {
	column string
	kind   models.NodeType
	needs  string // another column that must be present too
}

var entityRules = []entityRule{
	{column: ColAssetName, kind: models.TypeAsset, needs: ColAssetID},
	{column: ColFacility, kind: models.TypeFacility},
	{column: ColDepartment, kind: models.TypeDepartment},
	{column: ColWorkstation, kind: models.TypeWorkstation},
	{column: ColAssignedTo, kind: models.TypePersonnel},
}

type relationRule struct {
	source, target string
	kind           string
}

var relationRules = []relationRule{
	{source: ColAssetName, target: ColFacility, kind: RelLocatedIn},
	{source: ColAssetName, target: ColDepartment, kind: RelBelongsTo},
	{source: ColWorkstation, target: ColDepartment, kind: RelAssignedTo},
}

// ExtractOntology derives entities, relationships and attributes from a
// work-order table. Entities are deduplicated in order of first appearance;
// relationships are kept per row, duplicates included, and may reference
// entities that were not extracted (building the graph drops those).
func ExtractOntology(t *Table) models.Ontology {
	return extract(t, false)
}

// ExtractOntologyWithWorkOrders also turns every work order into a
// "WO_<id>" entity, so MAINTAINS relationships survive graph building
func ExtractOntologyWithWorkOrders(t *Table) models.Ontology {
	return extract(t, true)
}

func extract(t *Table, workOrders bool) models.Ontology {
	o := models.Ontology{
		Entities:      [][2]string{},
		Relationships: []models.Relationship{},
		Attributes:    append([]string{}, t.Headers...),
	}

	seen := make(map[[2]string]bool)
	addEntity := func(text string, kind models.NodeType) {
		key := [2]string{text, string(kind)}
		if !seen[key] {
			seen[key] = true
			o.Entities = append(o.Entities, key)
		}
	}

	for _, row := range t.Rows {
		for _, rule := range entityRules {
			text, ok := row[rule.column]
			if !ok {
				continue
			}
			if rule.needs != "" {
				if _, ok := row[rule.needs]; !ok {
					continue
				}
			}
			addEntity(text, rule.kind)
		}

		for _, rule := range relationRules {
			source, okS := row[rule.source]
			target, okT := row[rule.target]
			if okS && okT {
				o.Relationships = append(o.Relationships, models.Relationship{
					Source: source, Target: target, Type: rule.kind,
				})
			}
		}

		asset, okA := row[ColAssetName]
		wo, okW := row[ColWorkOrderID]
		if okW && workOrders {
			addEntity(WorkOrderPrefix+wo, WorkOrder)
		}
		if okA && okW {
			o.Relationships = append(o.Relationships, models.Relationship{
				Source: WorkOrderPrefix + wo, Target: asset, Type: RelMaintains,
			})
		}
	}
	return o
}
