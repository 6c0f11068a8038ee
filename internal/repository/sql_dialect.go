package repository

import (
	"fmt"
	"strings"

	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// likeEscapeChar LIKE 模式的转义字符
const likeEscapeChar = `\`

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// buildLikeCondition 构建多列 OR 的大小写不敏感模糊匹配条件，并返回参数数量。
// 参数需先经 strings.ToLower 处理，见 containsPattern。
func buildLikeCondition(db *gorm.DB, columns []string) (string, int) {
	return buildLikeConditionByDialect(dbDialectName(db), columns)
}

func buildLikeConditionByDialect(dialect string, columns []string) (string, int) {
	parts := make([]string, 0, len(columns))
	operator := likeOperatorByDialect(dialect)
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		if operator == "LIKE" {
			trimmed = fmt.Sprintf("%s(%s)", models.SQLiteLowerFunc, trimmed)
		}
		parts = append(parts, fmt.Sprintf("%s %s ? ESCAPE '%s'", trimmed, operator, likeEscapeChar))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// likeOperatorByDialect postgres 使用 ILIKE；sqlite 的 LIKE 仅忽略 ASCII 大小写，列需经 unicode_lower 处理
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// escapeLike 转义用户输入中的通配符
func escapeLike(raw string) string {
	replacer := strings.NewReplacer(
		likeEscapeChar, likeEscapeChar+likeEscapeChar,
		"%", likeEscapeChar+"%",
		"_", likeEscapeChar+"_",
	)
	return replacer.Replace(raw)
}

// containsPattern 构建小写的子串匹配模式
func containsPattern(raw string) string {
	return "%" + escapeLike(strings.ToLower(raw)) + "%"
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
