package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialUpdate_Statement(t *testing.T) {
	var u partialUpdate
	assert.True(t, u.empty())

	u.set("name", "Ana")
	u.setExpr("start_date", "$%d::date", "2025-01-02")

	sql, args := u.statement("areas", "id", "a1", "c1")
	assert.Equal(t, "UPDATE areas SET name = $1, start_date = $2::date, updated_at = NOW() WHERE id = $3 AND company_id = $4 RETURNING id", sql)
	assert.Equal(t, []interface{}{"Ana", "2025-01-02", "a1", "c1"}, args)
}

func TestPartialUpdate_StatementByID(t *testing.T) {
	var u partialUpdate
	u.set("name", "Acme")

	sql, args := u.statementByID("companies", "id, name", "c1")
	assert.Equal(t, "UPDATE companies SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING id, name", sql)
	assert.Equal(t, []interface{}{"Acme", "c1"}, args)
}
