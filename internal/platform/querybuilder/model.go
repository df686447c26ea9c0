package querybuilder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"
)

var dbMapper = reflectx.NewMapperFunc("db", strings.ToLower)

// InsertModel starts an insert whose columns and values come from the
// db-tagged top-level fields of model. Untagged fields are not written.
// Model errors surface from ToSQL.
func InsertModel(table string, model any) *InsertBuilder {
	b := InsertInto(table)

	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			b.err = fmt.Errorf("insert model for %s cannot be nil", table)
			return b
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		b.err = fmt.Errorf("insert model for %s must be a struct, got %s", table, value.Kind())
		return b
	}

	var (
		cols []string
		vals []any
	)
	for _, field := range dbMapper.TypeMap(value.Type()).Tree.Children {
		if field == nil || field.Embedded {
			continue
		}
		if _, tagged := field.Field.Tag.Lookup("db"); !tagged {
			continue
		}
		cols = append(cols, field.Name)
		vals = append(vals, value.FieldByIndex(field.Index).Interface())
	}
	if len(cols) == 0 {
		b.err = fmt.Errorf("insert model for %s has no db columns", table)
		return b
	}

	return b.Columns(cols...).Values(vals...)
}
