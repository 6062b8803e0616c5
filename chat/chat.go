// Package chat answers questions about the work orders of a knowledge graph.
// Answers are built from the graph itself: the work orders, what they touch
// and what that in turn is connected to.
package chat

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TFMV/ontograph/models"
)

// ContextLimit caps the relationship rows gathered for one question
const ContextLimit = 15

const (
	noData      = "No relevant work order data found in the knowledge graph."
	noGraph     = "Unable to retrieve context from the knowledge graph."
	woPrefix    = "WO_"
	woType      = models.NodeType("WorkOrder")
	woDisplay   = "Work Order "
	contextHead = "Work Order Information:\n"
)

var relationLabels = map[string]string{
	"MAINTAINS":   "Maintains",
	"LOCATED_IN":  "Located in",
	"BELONGS_TO":  "Belongs to",
	"ASSIGNED_TO": "Assigned to",
	"RELATED_TO":  "Related to",
	"PART_OF":     "Part of",
	"REPORTS_TO":  "Reports to",
}

// Response is the answer to one question. Context is the graph excerpt the
// answer was drawn from.
type Response struct {
	Response string `json:"response"`
	Context  string `json:"context"`
}

// Responder answers a question
type Responder interface {
	Respond(ctx context.Context, query string) (Response, error)
}

// GraphSource returns the graph questions are asked against
type GraphSource func(ctx context.Context) (*models.Graph, error)

// GraphResponder answers from the graph returned by its source
type GraphResponder struct {
	source GraphSource
	limit  int
}

// NewGraphResponder creates a responder over source
func NewGraphResponder(source GraphSource) *GraphResponder {
	return &GraphResponder{source: source, limit: ContextLimit}
}

// Respond gathers the work-order context and summarizes it. A missing graph
// is not an error; the answer says so.
func (r *GraphResponder) Respond(ctx context.Context, query string) (Response, error) {
	if strings.TrimSpace(query) == "" {
		return Response{}, fmt.Errorf("empty question")
	}

	g, err := r.source(ctx)
	if err != nil || g == nil {
		if err != nil {
			log.Printf("chat: no graph for question: %v", err)
		}
		return Response{Response: noGraph, Context: noGraph}, nil
	}

	rows := gather(g, query, r.limit)
	if len(rows) == 0 {
		return Response{Response: noData, Context: noData}, nil
	}
	return Response{Response: summarize(rows), Context: format(rows)}, nil
}

// BuildContext returns the context text for query against g
func BuildContext(g *models.Graph, query string) string {
	rows := gather(g, query, ContextLimit)
	if len(rows) == 0 {
		return noData
	}
	return format(rows)
}

// FormatRelationship renders one relationship the way context lines show it
func FormatRelationship(relation string, entity models.Node) string {
	label, ok := relationLabels[relation]
	if !ok {
		label = cases.Title(language.English).String(strings.ReplaceAll(relation, "_", " "))
	}
	return fmt.Sprintf("%s: %s (%s)", label, entity.Label, entity.Type)
}

func isWorkOrder(n models.Node) bool {
	return n.Type == woType || strings.HasPrefix(n.ID, woPrefix) || strings.HasPrefix(n.Label, woPrefix)
}

func summarize(rows []row) string {
	var orders []string
	seen := make(map[string]bool)
	entities := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.order.ID] {
			seen[r.order.ID] = true
			orders = append(orders, displayName(r.order))
		}
		for _, hop := range r.hops {
			entities[hop.node.ID] = true
		}
	}
	return fmt.Sprintf("Found %d work order(s) in the knowledge graph (%s), connected to %d related entities.",
		len(orders), strings.Join(orders, ", "), len(entities))
}

func displayName(n models.Node) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	return strings.Replace(label, woPrefix, woDisplay, 1)
}

func sortedOrders(g *models.Graph) []models.Node {
	var orders []models.Node
	for _, n := range g.Nodes {
		if isWorkOrder(n) {
			orders = append(orders, n)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Label < orders[j].Label })
	return orders
}
