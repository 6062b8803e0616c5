package chat

import (
	"strings"

	"github.com/TFMV/ontograph/models"
)

type hop struct {
	relation string
	node     models.Node
}

// row is one work order with up to three relationship hops away from it
type row struct {
	order models.Node
	hops  []hop
}

type adjacency struct {
	nodes map[string]models.Node
	edges map[string][]hop
}

// undirected neighbours, self-loops skipped
func newAdjacency(g *models.Graph) adjacency {
	a := adjacency{
		nodes: make(map[string]models.Node, len(g.Nodes)),
		edges: make(map[string][]hop, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		a.nodes[n.ID] = n
	}
	for _, e := range g.Edges {
		if e.SelfLoop() {
			continue
		}
		src, okS := a.nodes[e.Source]
		dst, okT := a.nodes[e.Target]
		if !okS || !okT {
			continue
		}
		a.edges[src.ID] = append(a.edges[src.ID], hop{relation: e.Type, node: dst})
		a.edges[dst.ID] = append(a.edges[dst.ID], hop{relation: e.Type, node: src})
	}
	return a
}

// rows expands a work order: every first hop, each followed by its second
// hops away from the order, each followed by third hops that do not step
// back. A hop with nothing beyond it still yields a row.
func (a adjacency) rows(order models.Node) []row {
	var out []row
	for _, h1 := range a.edges[order.ID] {
		var second []hop
		for _, h2 := range a.edges[h1.node.ID] {
			if h2.node.ID != order.ID {
				second = append(second, h2)
			}
		}
		if len(second) == 0 {
			out = append(out, row{order: order, hops: []hop{h1}})
			continue
		}
		for _, h2 := range second {
			var third []hop
			for _, h3 := range a.edges[h2.node.ID] {
				if h3.node.ID != h1.node.ID && h3.node.ID != order.ID {
					third = append(third, h3)
				}
			}
			if len(third) == 0 {
				out = append(out, row{order: order, hops: []hop{h1, h2}})
				continue
			}
			for _, h3 := range third {
				out = append(out, row{order: order, hops: []hop{h1, h2, h3}})
			}
		}
	}
	return out
}

// gather collects context rows. When words of the query name an entity in
// some work order's neighbourhood only those work orders are kept.
func gather(g *models.Graph, query string, limit int) []row {
	a := newAdjacency(g)
	terms := queryTerms(query)

	var all, matched []row
	for _, order := range sortedOrders(g) {
		rows := a.rows(order)
		all = append(all, rows...)
		if mentions(order, rows, terms) {
			matched = append(matched, rows...)
		}
	}
	out := all
	if len(matched) > 0 {
		out = matched
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '_' || r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'))
	}) {
		// short words are too common to narrow anything
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func mentions(order models.Node, rows []row, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	names := []string{strings.ToLower(order.Label), strings.ToLower(order.ID)}
	for _, r := range rows {
		for _, h := range r.hops {
			names = append(names, strings.ToLower(h.node.Label))
		}
	}
	for _, term := range terms {
		for _, name := range names {
			if strings.Contains(name, term) {
				return true
			}
		}
	}
	return false
}

// format renders rows grouped by work order. Repeated first and second hops
// of consecutive rows are printed once.
func format(rows []row) string {
	var b strings.Builder
	b.WriteString(contextHead)

	var current string
	var last [2]string
	for _, r := range rows {
		if r.order.ID != current {
			current = r.order.ID
			last = [2]string{}
			b.WriteString("\n" + displayName(r.order) + ":\n")
		}
		for depth, h := range r.hops {
			line := FormatRelationship(h.relation, h.node)
			if depth < 2 {
				if last[depth] == line {
					continue
				}
				last[depth] = line
				if depth == 0 {
					last[1] = ""
				}
			}
			switch depth {
			case 0:
				b.WriteString("  • " + line + "\n")
			case 1:
				b.WriteString("    ↳ " + line + "\n")
			default:
				b.WriteString("      ↳ " + line + "\n")
			}
		}
	}
	return b.String()
}
