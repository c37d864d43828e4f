package repository

import (
	"context"
	"fmt"
	"time"

	"travelJournal/models"
)

// UserScope narrows admin listings.
type UserScope int

const (
	// ScopeAllUsers lists every account.
	ScopeAllUsers UserScope = iota
	// ScopeSystemUsers lists only editors and admins.
	ScopeSystemUsers
)

// SearchCategory is the column a user search matches against.
type SearchCategory string

const (
	SearchByUsername  SearchCategory = "username"
	SearchByFirstName SearchCategory = "first_name"
	SearchByLastName  SearchCategory = "last_name"
	SearchByFullName  SearchCategory = "full_name"
	SearchByEmail     SearchCategory = "email"
)

// searchColumns maps categories to SQL expressions; values are never user input.
var searchColumns = map[SearchCategory]string{
	SearchByUsername:  "username",
	SearchByFirstName: "first_name",
	SearchByLastName:  "last_name",
	SearchByFullName:  "first_name || ' ' || last_name",
	SearchByEmail:     "email",
}

const userOrder = ` ORDER BY username, last_name, first_name`

func scopeCondition(scope UserScope) string {
	if scope == ScopeSystemUsers {
		return ` role IN ('editor', 'admin')`
	}
	return ""
}

// List returns users in the given scope ordered by username, last name, first name.
func (r *UserRepository) List(ctx context.Context, scope UserScope) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if cond := scopeCondition(scope); cond != "" {
		query += ` WHERE` + cond
	}
	return r.queryUsers(ctx, query+userOrder)
}

// Search finds users whose category column contains term. An unknown category
// yields an empty result rather than an error.
func (r *UserRepository) Search(ctx context.Context, scope UserScope, category SearchCategory, term string) ([]models.User, error) {
	col, ok := searchColumns[category]
	if !ok {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s LIKE ?`, userColumns, col)
	if cond := scopeCondition(scope); cond != "" {
		query += ` AND` + cond
	}
	return r.queryUsers(ctx, query+userOrder, "%"+term+"%")
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
