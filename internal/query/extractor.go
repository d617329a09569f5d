package query

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern 一条查询的访问模式：涉及的表、过滤列、排序列。
// 提取是尽力而为的词法匹配，任一字段可为空
type Pattern struct {
	Tables        []string `json:"tables"`         // 按出现顺序去重
	FilterColumns []string `json:"filter_columns"` // 已去掉表限定前缀
	OrderColumns  []string `json:"order_columns"`  // 已去掉排序方向
	Raw           string   `json:"raw"`
}

// References 判断该模式是否涉及指定表
func (p *Pattern) References(table string) bool {
	for _, t := range p.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// IsJoin 判断是否为跨表查询
func (p *Pattern) IsJoin() bool { return len(p.Tables) > 1 }

var (
	fromPattern      = regexp.MustCompile(`(?i)from\s+([a-zA-Z0-9_]+)`)
	joinPattern      = regexp.MustCompile(`(?i)join\s+([a-zA-Z0-9_]+)`)
	wherePattern     = regexp.MustCompile(`(?is)where\s+(.*?)(?:order by|group by|limit|$)`)
	conditionPattern = regexp.MustCompile(`([a-zA-Z0-9_.]+)\s*(?:=|>=|<=|!=|>|<|LIKE|IN)\s*`)
	orderPattern     = regexp.MustCompile(`(?is)order by\s+(.*?)(?:limit|$)`)
)

// Extractor 查询文本词法提取器
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor 创建提取器
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract 提取一条查询的访问模式
func (e *Extractor) Extract(query string) Pattern {
	return Pattern{
		Tables:        extractTables(query),
		FilterColumns: extractConditions(query),
		OrderColumns:  extractOrdering(query),
		Raw:           query,
	}
}

// ExtractAll 逐行提取，空行与 # 开头的注释行跳过
func (e *Extractor) ExtractAll(r io.Reader) ([]Pattern, error) {
	var patterns []Pattern
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, e.Extract(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	e.logger.Info("查询模式提取完成", zap.Int("patterns", len(patterns)))
	return patterns, nil
}

// ExtractFile 从文件提取查询模式
func (e *Extractor) ExtractFile(path string) ([]Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.ExtractAll(f)
}

// extractTables 提取 FROM / JOIN 后的表名，按出现顺序去重
func extractTables(query string) []string {
	var tables []string
	seen := make(map[string]bool)
	for _, m := range fromPattern.FindAllStringSubmatch(query, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tables = append(tables, m[1])
		}
	}
	for _, m := range joinPattern.FindAllStringSubmatch(query, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tables = append(tables, m[1])
		}
	}
	return tables
}

// extractConditions 提取 WHERE 子句中比较运算符前的列名
func extractConditions(query string) []string {
	m := wherePattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	var cols []string
	for _, c := range conditionPattern.FindAllStringSubmatch(strings.TrimSpace(m[1]), -1) {
		cols = append(cols, stripQualifier(c[1]))
	}
	return cols
}

// extractOrdering 提取 ORDER BY 列，丢弃 ASC/DESC
func extractOrdering(query string) []string {
	m := orderPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	var cols []string
	for _, item := range strings.Split(strings.TrimSpace(m[1]), ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}
		cols = append(cols, stripQualifier(fields[0]))
	}
	return cols
}

// stripQualifier 去掉 table.column 的表前缀
func stripQualifier(col string) string {
	if i := strings.LastIndex(col, "."); i >= 0 {
		return col[i+1:]
	}
	return col
}
