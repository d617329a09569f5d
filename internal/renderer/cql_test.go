package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cassandra-modeler/internal/analyzer"
)

func TestRenderCQL(t *testing.T) {
	design := []analyzer.CassandraTable{
		{
			Name: "orders",
			Columns: []analyzer.CassandraColumn{
				{Name: "id", Type: "int"},
				{Name: "created_at", Type: "timestamp"},
			},
			PartitionKey:      []string{"id"},
			ClusteringColumns: []string{"created_at"},
		},
		{
			Name: "items_by_orders",
			Columns: []analyzer.CassandraColumn{
				{Name: "id", Type: "int"},
				{Name: "sku", Type: "text"},
			},
			PartitionKey: []string{"id"},
			Denormalized: true,
			SourceTables: []string{"orders", "items"},
			QueryPattern: "SELECT * FROM items_by_orders WHERE id = ?",
		},
	}

	cql := NewCQLRenderer(nil).Render(design)

	assert.Contains(t, cql, "CREATE KEYSPACE IF NOT EXISTS converted_schema WITH REPLICATION = {")
	assert.Contains(t, cql, "'class': 'SimpleStrategy'")
	assert.Contains(t, cql, "'replication_factor': 3")
	assert.Contains(t, cql, "USE converted_schema;")

	assert.Contains(t, cql, "CREATE TABLE IF NOT EXISTS orders (")
	assert.Contains(t, cql, "    id int,")
	assert.Contains(t, cql, "    PRIMARY KEY (id, created_at)")
	assert.Contains(t, cql, ") WITH CLUSTERING ORDER BY (created_at ASC);")

	assert.Contains(t, cql, "-- Denormalized table combining orders and items")
	assert.Contains(t, cql, "-- Query pattern: SELECT * FROM items_by_orders WHERE id = ?")
	assert.Contains(t, cql, "-- Notes on Cassandra Data Model:")

	// keyspace 前导在所有表之前
	assert.Less(t, strings.Index(cql, "USE converted_schema"), strings.Index(cql, "CREATE TABLE"))
}

func TestRenderCQLCompositePartitionKey(t *testing.T) {
	design := []analyzer.CassandraTable{
		{
			Name: "events",
			Columns: []analyzer.CassandraColumn{
				{Name: "tenant", Type: "text"},
				{Name: "device_id", Type: "uuid"},
				{Name: "ts", Type: "timestamp"},
			},
			PartitionKey:      []string{"tenant", "device_id"},
			ClusteringColumns: []string{"ts"},
		},
	}

	cql := NewCQLRenderer(nil).Render(design)
	assert.Contains(t, cql, "PRIMARY KEY ((tenant, device_id), ts)")
}

func TestRenderCQLNoClustering(t *testing.T) {
	design := []analyzer.CassandraTable{
		{
			Name:         "users",
			Columns:      []analyzer.CassandraColumn{{Name: "id", Type: "uuid"}},
			PartitionKey: []string{"id"},
		},
	}

	cql := NewCQLRenderer(nil).Render(design)
	assert.Contains(t, cql, "PRIMARY KEY (id)")
	assert.NotContains(t, cql, "CLUSTERING ORDER BY")
}
