package renderer

import (
	"fmt"
	"strings"

	"cassandra-modeler/internal/graph"
	"cassandra-modeler/internal/schema"
)

// MermaidRenderer Mermaid ER 图渲染器，展示关系模型的表与外键
type MermaidRenderer struct{}

// NewMermaidRenderer 创建渲染器
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

// Render 渲染为 Mermaid 格式
func (m *MermaidRenderer) Render(model *schema.Model, g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	for _, t := range model.Tables {
		sb.WriteString(fmt.Sprintf("    %s {\n", t.Name))
		for _, c := range t.Columns {
			pk := ""
			if t.IsPrimaryKey(c.Name) {
				pk = " PK"
			}
			nullable := ""
			if c.Nullable {
				nullable = " NULL"
			}
			sb.WriteString(fmt.Sprintf("        %s %s%s%s\n", c.Name, c.MappedType, pk, nullable))
		}
		sb.WriteString("    }\n")
	}

	sb.WriteString("\n")

	for _, e := range g.Edges() {
		label := fmt.Sprintf("%s_to_%s", e.FromColumn, e.To)
		sb.WriteString(fmt.Sprintf("    %s }o--|| %s : \"%s\"\n", e.From, e.To, label))
	}

	return sb.String()
}
