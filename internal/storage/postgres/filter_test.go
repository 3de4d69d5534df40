package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"profile/internal/domain"
)

func TestListWhere_Default(t *testing.T) {
	where, args := listWhere(domain.ListProfilesFilter{})

	assert.Equal(t, "NOT deleted", where)
	assert.Empty(t, args)
}

func TestListWhere_AllCriteria(t *testing.T) {
	where, args := listWhere(domain.ListProfilesFilter{
		Skills:   []string{"go"},
		Location: "paris",
		Name:     "ali",
		Email:    "alice",
		Company:  "acme",
	})

	assert.Equal(t, "NOT deleted"+
		" AND skills && $1::text[]"+
		" AND information->>'location' ILIKE $2"+
		" AND name ILIKE $3"+
		" AND email ILIKE $4"+
		" AND EXISTS (SELECT 1 FROM jsonb_array_elements(experiences) AS e WHERE e->>'company' ILIKE $5)",
		where)
	assert.Equal(t, []any{[]string{"go"}, "%paris%", "%ali%", "%alice%", "%acme%"}, args)
}

func TestListWhere_NumbersOnlySetCriteria(t *testing.T) {
	where, args := listWhere(domain.ListProfilesFilter{Email: "bob"})

	assert.Equal(t, "NOT deleted AND email ILIKE $1", where)
	assert.Equal(t, []any{"%bob%"}, args)
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, defaultOrder, orderBy(domain.Sort{}))
	assert.Equal(t, defaultOrder, orderBy(domain.Sort{Field: "name; DROP TABLE profiles"}))
	assert.Equal(t, "name ASC, id ASC", orderBy(domain.Sort{Field: "name"}))
	assert.Equal(t, "created_at DESC, id ASC", orderBy(domain.Sort{Field: "createdAt", Desc: true}))
}
