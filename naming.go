package shelf

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Naming derives table names from model names.
type Naming interface {
	Table(model string) string
}

// PluralNaming names tables after the pluralized snake_case model name:
// "Book" → "books", "BookTag" → "book_tags".
type PluralNaming struct{}

func (PluralNaming) Table(model string) string {
	return inflection.Plural(CamelToSnake(model))
}

// AppNaming names tables "<app>_<model>" with the model name lowercased,
// the way web frameworks do when no table is given: "Book" → "booktest_book".
type AppNaming struct {
	App string
}

func (n AppNaming) Table(model string) string {
	return n.App + "_" + strings.ToLower(model)
}

// JoinTableName names the implicit association table of a many-to-many
// field: "<owner table>_<field>".
func JoinTableName(ownerTable, field string) string {
	return ownerTable + "_" + field
}

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "BookID" → "book_id", "ISBN" → "isbn".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
