package directory

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByIDQuery(t *testing.T) {
	db := goqu.New("postgres", nil)

	tests := []struct {
		table string
		want  string
	}{
		{personsTable, `SELECT * FROM "persons" WHERE ("id" = 7)`},
		{sitesTable, `SELECT * FROM "sites" WHERE ("id" = 7)`},
		{organisationsTable, `SELECT * FROM "organisations" WHERE ("id" = 7)`},
		{locationsTable, `SELECT * FROM "locations" WHERE ("id" = 7)`},
	}

	for _, tt := range tests {
		sql, _, err := byIDQuery(db, tt.table, 7).ToSQL()
		require.NoError(t, err)
		assert.Equal(t, tt.want, sql)
	}
}
