package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/config"
	"github.com/TFMV/ontograph/export"
	"github.com/TFMV/ontograph/models"
)

const sheet = "Work Order ID,Asset ID,Asset Name,Facility Name,Department\n" +
	"1001,A-7,Pump 7,North Plant,Maintenance\n" +
	"1002,A-9,Boiler,North Plant,Utilities\n"

const graphJSON = `{"nodes":[{"id":"a","label":"Pump","type":"Asset"},{"id":"b","label":"Plant","type":"Facility"},{"id":"c","label":"Dana","type":"Personnel"}],` +
	`"edges":[{"source":"a","target":"b","type":"LOCATED_IN"},{"source":"c","target":"a","type":"MAINTAINS"}]}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ontograph "+version)
}

func TestExtractOntology(t *testing.T) {
	path := writeFile(t, "orders.csv", sheet)
	out, err := run(t, "extract", "--file", path, "--graph=false", "--work-orders=false")
	require.NoError(t, err)

	var o models.Ontology
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	assert.Equal(t, [][2]string{
		{"Pump 7", "Asset"},
		{"North Plant", "Facility"},
		{"Maintenance", "Department"},
		{"Boiler", "Asset"},
		{"Utilities", "Department"},
	}, o.Entities)
}

func TestExtractGraphWithWorkOrders(t *testing.T) {
	path := writeFile(t, "orders.csv", sheet)
	out, err := run(t, "extract", "--file", path, "--graph", "--work-orders")
	require.NoError(t, err)

	var g models.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	require.NoError(t, g.Validate())
	assert.Len(t, g.Nodes, 7)
	assert.NotEmpty(t, g.FindOutgoingEdges("entity_3"), "work orders maintain assets")
}

func TestExtractUnsupported(t *testing.T) {
	path := writeFile(t, "orders.pdf", sheet)
	_, err := run(t, "extract", "--file", path, "--graph=false", "--work-orders=false")
	assert.Error(t, err)
}

func TestRenderToFile(t *testing.T) {
	graph := writeFile(t, "g.json", graphJSON)
	target := filepath.Join(t.TempDir(), "frame.txt")

	out, err := run(t, "render", "--graph", graph, "--format", "ascii", "--out", target, "--ticks", "500")
	require.NoError(t, err)
	assert.Contains(t, out, target)
	assert.Contains(t, out, "3 nodes, 2 edges")

	frame, err := os.ReadFile(target)
	require.NoError(t, err)
	text := string(frame)
	assert.True(t, strings.HasPrefix(text, "+"))
	for _, sym := range []string{"O", "@", "*"} {
		assert.Contains(t, text, sym)
	}
}

func TestRenderToStdout(t *testing.T) {
	graph := writeFile(t, "g.json", graphJSON)
	out, err := run(t, "render", "--graph", graph, "--format", "svg", "--out", "-", "--ticks", "50")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg") || strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "Pump")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	graph := writeFile(t, "g.json", graphJSON)
	_, err := run(t, "render", "--graph", graph, "--format", "png", "--out", "-")
	assert.Error(t, err)
}

func TestExportNeedsDatabase(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")
	graph := writeFile(t, "g.json", graphJSON)
	_, err := run(t, "export", "--graph", graph)
	assert.ErrorIs(t, err, export.ErrNotConfigured)
}
