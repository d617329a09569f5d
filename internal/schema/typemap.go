package schema

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// typeMap 关系型类型到 Cassandra 类型的固定映射
var typeMap = map[string]string{
	"int":       "int",
	"integer":   "int",
	"smallint":  "smallint",
	"bigint":    "bigint",
	"tinyint":   "tinyint",
	"varchar":   "text",
	"char":      "text",
	"text":      "text",
	"string":    "text",
	"float":     "float",
	"double":    "double",
	"decimal":   "decimal",
	"boolean":   "boolean",
	"bool":      "boolean",
	"date":      "date",
	"time":      "time",
	"timestamp": "timestamp",
	"datetime":  "timestamp",
	"uuid":      "uuid",
	"blob":      "blob",
}

// BaseType 去掉长度修饰，如 varchar(255) -> varchar
func BaseType(relType string) string {
	base := relType
	if i := strings.Index(base, "("); i >= 0 {
		base = base[:i]
	}
	return strings.ToLower(strings.TrimSpace(base))
}

// MapType 映射关系型类型。未识别的类型映射为 text，known 为 false
func MapType(relType string) (cqlType string, known bool) {
	if mapped, ok := typeMap[BaseType(relType)]; ok {
		return mapped, true
	}
	return "text", false
}

// SuggestType 对未识别类型给出最接近的已知类型（编辑距离 ≤2），没有则返回空串。
// 距离并列时取字典序较小者，保证告警文案稳定
func SuggestType(relType string) string {
	base := BaseType(relType)
	bestDist := 3
	best := ""
	for _, known := range knownTypes() {
		d := levenshtein.DistanceForStrings([]rune(base), []rune(known), levenshtein.DefaultOptions)
		if d < bestDist {
			bestDist = d
			best = known
		}
	}
	return best
}

func knownTypes() []string {
	names := make([]string, 0, len(typeMap))
	for known := range typeMap {
		names = append(names, known)
	}
	sort.Strings(names)
	return names
}

// TypeIssue Cassandra 下有精度/实践问题的列
type TypeIssue struct {
	Column string
	Type   string
	Reason string
}

// ProblematicColumns 找出浮点与定点小数列（Cassandra 精度风险）
func ProblematicColumns(t *Table) []TypeIssue {
	var issues []TypeIssue
	for _, col := range t.Columns {
		lower := strings.ToLower(col.Type)
		switch {
		case strings.Contains(lower, "float") || strings.Contains(lower, "real"):
			issues = append(issues, TypeIssue{
				Column: col.Name,
				Type:   col.Type,
				Reason: "Floating-point types can cause precision issues",
			})
		case strings.Contains(lower, "decimal"):
			issues = append(issues, TypeIssue{
				Column: col.Name,
				Type:   col.Type,
				Reason: "Consider using bigint with scaled integers instead",
			})
		}
	}
	return issues
}

var decimalPattern = regexp.MustCompile(`decimal\((\d+),\s*(\d+)\)`)

// DecimalScale 提取 decimal(p,s) 的小数位数
func DecimalScale(relType string) (int, bool) {
	m := decimalPattern.FindStringSubmatch(strings.ToLower(relType))
	if m == nil {
		return 0, false
	}
	scale, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return scale, true
}

// IsTimestampLike 判断列类型是否为时间类（可作聚簇列候选）
func IsTimestampLike(relType string) bool {
	lower := strings.ToLower(relType)
	return strings.Contains(lower, "time") || strings.Contains(lower, "date")
}

// IsIdentifierLike 判断单列主键是否像唯一标识（列名含 id 或类型为 uuid）
func IsIdentifierLike(col *Column) bool {
	return strings.Contains(strings.ToLower(col.Name), "id") || col.MappedType == "uuid"
}
