package postgres

import (
	"fmt"
	"strings"

	"profile/internal/domain"
)

// sortColumns maps the public sort fields onto columns.
var sortColumns = map[string]string{
	"id":        "id",
	"_id":       "id",
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

const defaultOrder = "created_at ASC, id ASC"

// listWhere translates list criteria into a WHERE clause and its arguments.
// Placeholders are numbered from 1.
func listWhere(f domain.ListProfilesFilter) (string, []any) {
	conds := []string{"NOT deleted"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Skills) > 0 {
		conds = append(conds, "skills && "+arg(f.Skills)+"::text[]")
	}
	if f.Location != "" {
		conds = append(conds, "information->>'location' ILIKE "+arg(containsPattern(f.Location)))
	}
	if f.Name != "" {
		conds = append(conds, "name ILIKE "+arg(containsPattern(f.Name)))
	}
	if f.Email != "" {
		conds = append(conds, "email ILIKE "+arg(containsPattern(f.Email)))
	}
	if f.Company != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM jsonb_array_elements(experiences) AS e WHERE e->>'company' ILIKE "+
			arg(containsPattern(f.Company))+")")
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func orderBy(s domain.Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		return defaultOrder
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}

	return fmt.Sprintf("%s %s, id ASC", col, dir)
}
