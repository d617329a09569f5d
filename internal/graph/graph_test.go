package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cassandra-modeler/internal/schema"
)

func testModel() *schema.Model {
	return schema.NewModel(
		schema.Table{
			Name: "customers",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
			},
			PrimaryKey: []string{"id"},
		},
		schema.Table{
			Name: "orders",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "customer_id", Type: "int", MappedType: "int"},
			},
			PrimaryKey: []string{"id"},
			ForeignKeys: []schema.ForeignKey{
				{Column: "customer_id", RefTable: "customers", RefColumn: "id"},
			},
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
}

func TestBuild(t *testing.T) {
	g, warnings := Build(testModel(), nil)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"customers", "orders", "items"}, g.Nodes())
	require.Len(t, g.Edges(), 2)

	assert.True(t, g.Related("orders", "customers"))
	assert.True(t, g.Related("customers", "orders"))
	assert.True(t, g.Related("items", "orders"))
	assert.False(t, g.Related("items", "customers"))

	in, out := g.Degree("orders")
	assert.Equal(t, 1, in)
	assert.Equal(t, 1, out)
}

func TestBuildDanglingReference(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name:    "orders",
			Columns: []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
			ForeignKeys: []schema.ForeignKey{
				{Column: "customer_id", RefTable: "customer", RefColumn: "id"},
			},
		},
		schema.Table{
			Name:    "customers",
			Columns: []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
		},
	)

	g, warnings := Build(model, nil)
	assert.Empty(t, g.Edges())
	require.Len(t, warnings, 1)
	assert.Equal(t, schema.WarnDanglingReference, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, `did you mean "customers"`)
}

func TestBuildDanglingColumn(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name:    "orders",
			Columns: []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
			ForeignKeys: []schema.ForeignKey{
				{Column: "customer_id", RefTable: "customers", RefColumn: "uid"},
			},
		},
		schema.Table{
			Name:    "customers",
			Columns: []schema.Column{{Name: "id", Type: "int", MappedType: "int"}},
		},
	)

	g, warnings := Build(model, nil)
	assert.Empty(t, g.Edges())
	require.Len(t, warnings, 1)
	assert.Equal(t, schema.WarnDanglingReference, warnings[0].Kind)
}

func TestSelfReferences(t *testing.T) {
	model := schema.NewModel(
		schema.Table{
			Name: "categories",
			Columns: []schema.Column{
				{Name: "id", Type: "int", MappedType: "int"},
				{Name: "parent_id", Type: "int", MappedType: "int"},
			},
			ForeignKeys: []schema.ForeignKey{
				{Column: "parent_id", RefTable: "categories", RefColumn: "id"},
			},
		},
	)

	g, _ := Build(model, nil)
	refs := g.SelfReferences()
	require.Len(t, refs, 1)
	assert.Equal(t, "parent_id", refs[0].FromColumn)
}

func TestSimplePaths(t *testing.T) {
	g, _ := Build(testModel(), nil)

	paths := g.SimplePaths("items", "customers", 3)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"items", "orders", "customers"}, paths[0])

	// 超出跳数限制
	assert.Empty(t, g.SimplePaths("items", "customers", 1))
}

func TestChains(t *testing.T) {
	g, _ := Build(testModel(), nil)

	chains := g.Chains(3)
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"items", "orders", "customers"}, chains[0])
}
