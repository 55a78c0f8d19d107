package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envrun/envrun/pkg/storage"
)

func TestCompileWithoutFiltersAndSortersReturnsBaseQuery(t *testing.T) {
	q := query{BaseQuery: "SELECT 1"}

	queryStr, args, err := q.Compile()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", queryStr)
	assert.Empty(t, args)
}

func TestCompileFiltersAndSorters(t *testing.T) {
	q := query{
		BaseQuery: "SELECT env_run_id FROM er",
		Filters: []*storage.Filter{
			{
				Field:    storage.FieldEnvironmentName,
				Operator: storage.OpEQ,
				Value:    "lint",
			},
			{
				Field:    storage.FieldResult,
				Operator: storage.OpEQ,
				Value:    storage.ResultFailure,
			},
		},
		Sorters: []*storage.Sorter{
			{
				Field: storage.FieldStartTime,
				Order: storage.OrderDesc,
			},
		},
		Limit: 10,
	}

	queryStr, args, err := q.Compile()
	require.NoError(t, err)

	assert.Contains(t, queryStr, "WHERE environment_name = $1 AND result = $2")
	assert.Contains(t, queryStr, "ORDER BY start_timestamp DESC")
	assert.Contains(t, queryStr, "LIMIT 10")
	assert.Equal(t, []any{"lint", storage.ResultFailure}, args)
}

func TestCompileUnknownFieldFails(t *testing.T) {
	q := query{
		BaseQuery: "SELECT env_run_id FROM er",
		Filters: []*storage.Filter{
			{
				Field:    storage.FieldUndefined,
				Operator: storage.OpEQ,
				Value:    1,
			},
		},
	}

	_, _, err := q.Compile()
	require.Error(t, err)
}

func TestQueryValueStr(t *testing.T) {
	assert.Equal(t, "($1, $2)", queryValueStr(1, 2))
	assert.Equal(t, "($1, $2, $3), ($4, $5, $6)", queryValueStr(2, 3))
}

func TestStrArgListFormatsEachArgument(t *testing.T) {
	args := []interface{}{"lint", 5, true}

	assert.Equal(t, "['lint', '5', 'true']", strArgList(args...))
	assert.Equal(t, "[]", strArgList())
}
