package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.sql())

	w.add("client_id = ?", "c1")
	w.addRaw("archived = FALSE")
	w.add("(name ILIKE ? OR shop_name ILIKE ?)", "%abc%")

	assert.Equal(t, " WHERE client_id = $1 AND archived = FALSE AND (name ILIKE $2 OR shop_name ILIKE $2)", w.sql())

	limitSQL, args := w.page(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", limitSQL)
	assert.Equal(t, []any{"c1", "%abc%", 20, 40}, args)
	assert.Len(t, w.args, 2, "page must not mutate the filter args")
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}
