package renderer

import (
	"fmt"
	"strings"

	"cassandra-modeler/internal/analyzer"
	"cassandra-modeler/internal/config"
)

// CQLRenderer Cassandra DDL 渲染器
type CQLRenderer struct {
	opts *config.Options
}

// NewCQLRenderer 创建渲染器
func NewCQLRenderer(opts *config.Options) *CQLRenderer {
	if opts == nil {
		opts = config.Default()
	}
	return &CQLRenderer{opts: opts}
}

// Render 渲染为 CQL：keyspace 前导、逐表 CREATE TABLE、末尾使用说明
func (r *CQLRenderer) Render(design []analyzer.CassandraTable) string {
	var sb strings.Builder

	sb.WriteString("-- Cassandra Schema Generated from Relational Model\n")
	sb.WriteString("-- Generated by cassandra-modeler\n\n")
	sb.WriteString("-- Create keyspace (adjust replication strategy as needed)\n")
	sb.WriteString(fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {\n", r.opts.Keyspace))
	sb.WriteString("    'class': 'SimpleStrategy',\n")
	sb.WriteString(fmt.Sprintf("    'replication_factor': %d\n", r.opts.ReplicationFactor))
	sb.WriteString("};\n\n")
	sb.WriteString(fmt.Sprintf("USE %s;\n\n", r.opts.Keyspace))

	for _, t := range design {
		r.renderTable(&sb, &t)
	}

	sb.WriteString("-- Notes on Cassandra Data Model:\n")
	sb.WriteString("-- 1. Tables are designed to optimize for specific query patterns\n")
	sb.WriteString("-- 2. Data is denormalized - the same data may exist in multiple tables\n")
	sb.WriteString("-- 3. Updates must be performed on all tables containing the data\n")
	sb.WriteString("-- 4. Always query by partition key for best performance\n")

	return sb.String()
}

func (r *CQLRenderer) renderTable(sb *strings.Builder, t *analyzer.CassandraTable) {
	if t.Denormalized {
		sb.WriteString(fmt.Sprintf("-- Denormalized table combining %s\n", strings.Join(t.SourceTables, " and ")))
		if t.QueryPattern != "" {
			sb.WriteString(fmt.Sprintf("-- Query pattern: %s\n", t.QueryPattern))
		}
	}

	sb.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n", t.Name))

	var lines []string
	for _, c := range t.Columns {
		lines = append(lines, fmt.Sprintf("    %s %s", c.Name, c.Type))
	}
	if pk := primaryKeyClause(t); pk != "" {
		lines = append(lines, "    "+pk)
	}
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n")

	if len(t.ClusteringColumns) > 0 {
		var orders []string
		for _, c := range t.ClusteringColumns {
			orders = append(orders, c+" ASC")
		}
		sb.WriteString(fmt.Sprintf(") WITH CLUSTERING ORDER BY (%s);\n", strings.Join(orders, ", ")))
	} else {
		sb.WriteString(");\n")
	}
	sb.WriteString("\n")
}

// primaryKeyClause 组合分区键与聚簇列。多列分区键加括号
func primaryKeyClause(t *analyzer.CassandraTable) string {
	if len(t.PartitionKey) == 0 {
		return ""
	}
	var parts []string
	if len(t.PartitionKey) == 1 {
		parts = append(parts, t.PartitionKey[0])
	} else {
		parts = append(parts, "("+strings.Join(t.PartitionKey, ", ")+")")
	}
	parts = append(parts, t.ClusteringColumns...)
	return fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(parts, ", "))
}
