package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cassandra-modeler/internal/config"
	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/query"
	"cassandra-modeler/internal/schema"
)

func generate(t *testing.T, model *schema.Model, patterns []query.Pattern) []Recommendation {
	t.Helper()
	g, _ := graph.Build(model, nil)
	opts := config.Default()
	rel := AnalyzeRelationships(model, g, opts.MaxChainHops, connectivityThreshold, nil)
	card := NewScorer(model, rel, opts, nil).Score(patterns)
	return NewRecommender(model, g, rel, opts, nil).Generate(card, patterns)
}

func byCategory(recs []Recommendation, category string) []Recommendation {
	var out []Recommendation
	for _, r := range recs {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func TestRecommendMissingPrimaryKey(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name:    "logs",
			Columns: []schema.Column{{Name: "message", Type: "text", MappedType: "text"}},
		},
	)

	recs := byCategory(generate(t, model, nil), RecPrimaryKeys)
	require.Len(t, recs, 1)
	assert.Equal(t, "logs", recs[0].Table)
	assert.Equal(t, "Add a UUID column as partition key, e.g., PRIMARY KEY (id, created_at)", recs[0].SuggestedFix)
}

func TestRecommendSingleKeyWithTimestamp(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name: "sessions",
			Columns: []schema.Column{
				{Name: "token", Type: "varchar(64)", MappedType: "text"},
				{Name: "started_at", Type: "timestamp", MappedType: "timestamp"},
			},
			PrimaryKey: []string{"token"},
		},
	)

	recs := byCategory(generate(t, model, nil), RecPrimaryKeys)
	require.Len(t, recs, 1)
	assert.Equal(t, "Use composite key with token as partition key and started_at as clustering column: PRIMARY KEY((token), started_at)",
		recs[0].SuggestedFix)
}

func TestRecommendDataTypes(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name: "products",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "price", Type: "decimal(10,2)", MappedType: "decimal"},
				{Name: "weight", Type: "float", MappedType: "float"},
			},
			PrimaryKey: []string{"id"},
		},
	)

	recs := byCategory(generate(t, model, nil), RecDataTypes)
	require.Len(t, recs, 2)
	// decimal(10,2) 的缩放系数是 10^2
	assert.Equal(t, "Convert to 'bigint' and multiply values by 100 to preserve precision", recs[0].SuggestedFix)
	assert.Equal(t, "Replace with 'decimal' or use scaled integers stored as 'bigint' for precise calculations", recs[1].SuggestedFix)
}

func TestRecommendDenormalization(t *testing.T) {
	model := ordersItemsModel()
	patterns := extractAll(t,
		"SELECT * FROM orders JOIN items ON orders.id = items.order_id",
		"SELECT * FROM orders JOIN items ON orders.id = items.order_id WHERE orders.id = 1",
	)

	recs := byCategory(generate(t, model, patterns), RecDenorm)
	require.Len(t, recs, 2)
	assert.Equal(t, "orders", recs[0].Table)
	assert.Contains(t, recs[0].Details, "joined with items (2 times)")
	// items 引用 orders 且 items 非键列不超过阈值，建议内嵌
	assert.Contains(t, recs[0].SuggestedFix, "Embed 'items' data")
}

func TestRecommendQueryAlignment(t *testing.T) {
	model := ordersItemsModel()
	// 只按非键列过滤并排序，查询对齐得分低于阈值
	patterns := extractAll(t, "SELECT * FROM orders WHERE created_at > '2024-01-01' ORDER BY created_at")

	recs := byCategory(generate(t, model, patterns), RecQueryAlign)
	require.Len(t, recs, 1)
	assert.Equal(t, "orders", recs[0].Table)
	assert.Contains(t, recs[0].Details, "created_at")
	assert.Contains(t, recs[0].SuggestedFix, "Consider a composite key with 'id' and 'created_at'")
}

func TestRecommendManyToMany(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name:       "students",
			Columns:    []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
			PrimaryKey: []string{"id"},
		},
		schema.Table{
			Name:       "courses",
			Columns:    []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
			PrimaryKey: []string{"id"},
		},
		schema.Table{
			Name: "enrollments",
			Columns: []schema.Column{
				{Name: "student_id", Type: "int", MappedType: "int"},
				{Name: "course_id", Type: "int", MappedType: "int"},
			},
			PrimaryKey: []string{"student_id", "course_id"},
			ForeignKeys: []schema.ForeignKey{
				{Column: "student_id", RefTable: "students", RefColumn: "id"},
				{Column: "course_id", RefTable: "courses", RefColumn: "id"},
			},
		},
	)

	recs := byCategory(generate(t, model, nil), RecManyToMany)
	require.Len(t, recs, 1)
	assert.Equal(t, "enrollments", recs[0].Table)
	assert.Contains(t, recs[0].Details, "connects students, courses")
	assert.Contains(t, recs[0].SuggestedFix, "Option 1")

	// 查询主导方明确时给出单侧方案，集合名用单数形式
	patterns := extractAll(t,
		"SELECT * FROM enrollments JOIN students ON 1=1 WHERE student_id = 1",
		"SELECT * FROM enrollments JOIN students ON 1=1 WHERE student_id = 2",
	)
	recs = byCategory(generate(t, model, patterns), RecManyToMany)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].SuggestedFix, "Create a collection in 'students'")
	assert.Contains(t, recs[0].SuggestedFix, "set 'course_ids'")
}

func TestRecommendHierarchy(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name: "categories",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "parent_id", Type: "int", MappedType: "int"},
			},
			PrimaryKey: []string{"id"},
			ForeignKeys: []schema.ForeignKey{
				{Column: "parent_id", RefTable: "categories", RefColumn: "id"},
			},
		},
	)

	recs := byCategory(generate(t, model, nil), RecHierarchical)
	require.Len(t, recs, 1)
	assert.Equal(t, "categories", recs[0].Table)
	assert.Contains(t, recs[0].Details, "self-reference on column 'parent_id'")
	assert.Contains(t, recs[0].SuggestedFix, "Materialized paths")
}
