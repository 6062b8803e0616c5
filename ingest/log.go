package ingest

import (
	"regexp"
	"strings"

	"github.com/TFMV/ontograph/models"
)

// typedArrow matches "A -[TYPE]-> B"
var typedArrow = regexp.MustCompile(`^(.+?)\s+-\[([A-Za-z_][A-Za-z0-9_]*)\]->\s+(.+)$`)

type linePattern struct {
	separator     string
	bidirectional bool
}

// LogProcessor reads relationship lines such as "Pump 7 -> North Plant" or
// "Pump 7 -[LOCATED_IN]-> North Plant". Every endpoint becomes an Other
// entity; unmatched lines are skipped.
type LogProcessor struct {
	patterns []linePattern
}

// NewLogProcessor creates a log processor with the common separators
func NewLogProcessor() *LogProcessor {
	return &LogProcessor{patterns: []linePattern{
		{" -> ", false},
		{" => ", false},
		{" connected to ", true},
		{" connects to ", false},
		{" links to ", false},
		{" linked to ", true},
	}}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

// ProcessData processes relationship lines
func (p *LogProcessor) ProcessData(data []byte) (*models.Ontology, error) {
	o := &models.Ontology{
		Entities:      [][2]string{},
		Relationships: []models.Relationship{},
		Attributes:    []string{},
	}
	seen := make(map[string]bool)
	addEntity := func(text string) {
		if !seen[text] {
			seen[text] = true
			o.Entities = append(o.Entities, [2]string{text, string(models.TypeOther)})
		}
	}
	addRel := func(source, target, kind string) {
		addEntity(source)
		addEntity(target)
		o.Relationships = append(o.Relationships, models.Relationship{Source: source, Target: target, Type: kind})
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := typedArrow.FindStringSubmatch(line); m != nil {
			addRel(strings.TrimSpace(m[1]), strings.TrimSpace(m[3]), m[2])
			continue
		}

		for _, pattern := range p.patterns {
			parts := strings.Split(line, pattern.separator)
			if len(parts) != 2 {
				continue
			}
			source := strings.TrimSpace(parts[0])
			target := strings.TrimSpace(parts[1])
			if source == "" || target == "" {
				break
			}
			addRel(source, target, models.DefaultRelationType)
			if pattern.bidirectional {
				addRel(target, source, models.DefaultRelationType)
			}
			break
		}
	}
	return o, nil
}
