package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// createdAtColumn is never overwritten by UpdateModel or UpsertModel.
const createdAtColumn = "created_at"

// InsertModel builds an INSERT of every `db`-tagged field of model.
func InsertModel(table string, model any) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, errNoTable
	}
	cols, vals, err := columnsOf(model)
	if err != nil {
		return "", nil, err
	}

	var w writer
	insert(&w, table, cols, vals)
	return w.result()
}

// UpsertModel inserts model and, on conflict over key, overwrites every other
// column except created_at with the excluded row.
func UpsertModel(table string, model any, key string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, errNoTable
	}
	cols, vals, err := columnsOf(model)
	if err != nil {
		return "", nil, err
	}

	sets := make([]string, 0, len(cols))
	hasKey := false
	for _, c := range cols {
		switch c {
		case key:
			hasKey = true
		case createdAtColumn:
		default:
			sets = append(sets, c+" = EXCLUDED."+c)
		}
	}
	if !hasKey {
		return "", nil, fmt.Errorf("model has no %s column", key)
	}

	var w writer
	insert(&w, table, cols, vals)
	if len(sets) == 0 {
		w.sql(" ON CONFLICT (", key, ") DO NOTHING")
	} else {
		w.sql(" ON CONFLICT (", key, ") DO UPDATE SET ", strings.Join(sets, ", "))
	}
	return w.result()
}

// UpdateModel sets every column of model except key and created_at on the
// row whose key matches the model's value.
func UpdateModel(table string, model any, key string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, errNoTable
	}
	cols, vals, err := columnsOf(model)
	if err != nil {
		return "", nil, err
	}

	var (
		w      writer
		keyVal any
		hasKey bool
		n      int
	)
	w.sql("UPDATE ", table, " SET ")
	for i, c := range cols {
		switch c {
		case key:
			keyVal, hasKey = vals[i], true
			continue
		case createdAtColumn:
			continue
		}
		if n > 0 {
			w.sql(", ")
		}
		w.sql(c, " = ")
		w.bind(vals[i])
		n++
	}
	if !hasKey {
		return "", nil, fmt.Errorf("model has no %s column", key)
	}
	if n == 0 {
		return "", nil, errNoColumns
	}
	w.where([]Condition{Eq(key, keyVal)})
	return w.result()
}

func columnsOf(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", v.Kind())
	}

	typ := v.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, v.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errNoColumns
	}
	return cols, vals, nil
}
