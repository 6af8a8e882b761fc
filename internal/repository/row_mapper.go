package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mjosh1982/customerservice-repo/internal/model"
)

// MapCustomerRow reads the current row of rows into a Customer. Columns are
// matched by name so the select list order does not matter. NULL integers
// read as 0 and NULL text as "".
func MapCustomerRow(rows *sql.Rows) (*model.Customer, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var (
		id, age     sql.NullInt64
		name, email sql.NullString
		seen        = map[string]bool{}
	)

	dest := make([]any, len(cols))
	for i, col := range cols {
		switch key := strings.ToLower(col); key {
		case "id":
			dest[i] = &id
			seen[key] = true
		case "name":
			dest[i] = &name
			seen[key] = true
		case "email":
			dest[i] = &email
			seen[key] = true
		case "age":
			dest[i] = &age
			seen[key] = true
		default:
			dest[i] = new(any)
		}
	}

	for _, required := range []string{"id", "name", "email", "age"} {
		if !seen[required] {
			return nil, fmt.Errorf("customer row is missing column %q", required)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	return &model.Customer{
		ID:    int(id.Int64),
		Name:  name.String,
		Email: email.String,
		Age:   int(age.Int64),
	}, nil
}
