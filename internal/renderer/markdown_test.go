package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cassandra-modeler/internal/analyzer"
	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

func fixtureResult(t *testing.T) (*schema.Model, *analyzer.Result) {
	t.Helper()
	model := schema.NewModel(
		schema.Table{
			Name: "orders",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "created_at", Type: "timestamp", MappedType: "timestamp"},
			},
			PrimaryKey: []string{"id"},
		},
		schema.Table{
			Name: "items",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "order_id", Type: "int", MappedType: "int"},
			},
			PrimaryKey: []string{"id"},
			ForeignKeys: []schema.ForeignKey{
				{Column: "order_id", RefTable: "orders", RefColumn: "id"},
			},
		},
	)

	e := query.NewExtractor(nil)
	patterns := []query.Pattern{
		e.Extract("SELECT * FROM orders JOIN items ON orders.id = items.order_id WHERE orders.id = 1"),
	}
	res := analyzer.New(config.Default(), nil).Analyze(model, patterns)
	return model, res
}

func TestRenderReport(t *testing.T) {
	_, res := fixtureResult(t)

	report := NewMarkdownRenderer().Render(res)

	assert.Contains(t, report, "# Cassandra 模式优化报告")
	assert.Contains(t, report, "## 总评分:")
	assert.Contains(t, report, "## 类别评分")
	assert.Contains(t, report, "| primary_keys |")
	assert.Contains(t, report, "| query_patterns |")
	assert.Contains(t, report, "## 逐表明细")
	assert.Contains(t, report, "Partition keys should distribute data evenly across nodes")
	assert.Contains(t, report, "Use text instead of varchar for string data")
	assert.Contains(t, report, "Design tables around query patterns, not entity relationships")
	assert.Contains(t, report, "Avoid secondary indexes except for low-cardinality columns")
	assert.Contains(t, report, "## 生成的表")
	assert.Contains(t, report, "### orders_with_items")
	assert.Contains(t, report, "### items_by_orders")
	assert.Contains(t, report, "## Cassandra 查询最佳实践")
	assert.Contains(t, report, "## 建模决策")
	assert.Contains(t, report, "## 查询中共同出现的表对")
}

func TestSummary(t *testing.T) {
	_, res := fixtureResult(t)

	summary := NewMarkdownRenderer().Summary(res.Design)

	assert.Contains(t, summary, "### items_by_orders")
	assert.Contains(t, summary, "- 反规范化来源: orders, items")
	assert.Contains(t, summary, "- 分区键: id")
	assert.Contains(t, summary, "- 推荐查询: `SELECT * FROM items_by_orders WHERE id = ?`")
	assert.Contains(t, summary, "**Always query by partition key**")
	assert.Contains(t, summary, "Denormalized to optimize queries across orders and items")
}

func TestOverallAssessmentBands(t *testing.T) {
	assert.Contains(t, overallAssessment(85), "EXCELLENT")
	assert.Contains(t, overallAssessment(65), "GOOD")
	assert.Contains(t, overallAssessment(40), "NEEDS WORK")

	assert.Equal(t, "Excellent", bandOf(80))
	assert.Equal(t, "Good", bandOf(60))
	assert.Equal(t, "Fair", bandOf(40))
	assert.Equal(t, "Needs Improvement", bandOf(39.9))
}

func TestRenderMermaid(t *testing.T) {
	model, _ := fixtureResult(t)
	g, warnings := graph.Build(model, nil)
	require.Empty(t, warnings)

	mmd := NewMermaidRenderer().Render(model, g)

	assert.Contains(t, mmd, "erDiagram")
	assert.Contains(t, mmd, "    orders {")
	assert.Contains(t, mmd, "        id int PK")
	assert.Contains(t, mmd, "    items {")
	assert.Contains(t, mmd, `    items }o--|| orders : "order_id_to_orders"`)
}
