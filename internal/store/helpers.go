package store

import "github.com/jmoiron/sqlx"

// inQuery expands an IN (?) clause and rebinds it to $n placeholders.
func inQuery(query string, list []string) (string, []any, error) {
	expanded, args, err := sqlx.In(query, list)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, expanded), args, nil
}
