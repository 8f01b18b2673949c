// file: internals/helpers/pagination_test.go
package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeOrderClauseWhitelistsColumns(t *testing.T) {
	allowed := map[string]string{
		"name":       "child_last_name",
		"created_at": "child_created_at",
	}

	p := Params{SortBy: "name", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "child_last_name ASC", clause)

	// injection attempt falls back to the default column
	p = Params{SortBy: "name; DROP TABLE children", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "child_created_at DESC", clause)
}

func TestSafeOrderClauseRejectsBadDefault(t *testing.T) {
	p := Params{SortBy: "nope"}
	_, err := p.SafeOrderClause(map[string]string{"a": "col_a"}, "also_missing")
	assert.Error(t, err)
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(51, Params{Page: 2, PerPage: 25})
	assert.Equal(t, int64(51), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = BuildMeta(0, Params{Page: 1, PerPage: 25})
	assert.Zero(t, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestParamsOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	assert.Equal(t, 20, p.Limit())
	assert.Equal(t, 40, p.Offset())
}
