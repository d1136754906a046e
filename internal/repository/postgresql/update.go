package postgresql

import (
	"fmt"
	"strings"
)

// partialUpdate collects "col = $n" assignments in call order so generated
// statements are stable.
type partialUpdate struct {
	cols []string
	args []interface{}
}

func (u *partialUpdate) set(col string, val interface{}) {
	u.args = append(u.args, val)
	u.cols = append(u.cols, fmt.Sprintf("%s = $%d", col, len(u.args)))
}

// setExpr assigns col with a custom placeholder expression such as "$%d::date".
func (u *partialUpdate) setExpr(col, expr string, val interface{}) {
	u.args = append(u.args, val)
	u.cols = append(u.cols, fmt.Sprintf("%s = "+expr, col, len(u.args)))
}

func (u *partialUpdate) empty() bool {
	return len(u.cols) == 0
}

// statement builds UPDATE table SET ... WHERE id = $a AND company_id = $b RETURNING returning.
func (u *partialUpdate) statement(table, returning, id, companyID string) (string, []interface{}) {
	args := append(append([]interface{}{}, u.args...), id, companyID)
	sql := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d AND company_id = $%d RETURNING %s",
		table, strings.Join(u.cols, ", "), len(u.args)+1, len(u.args)+2, returning)
	return sql, args
}

// statementByID is statement for tables that are not scoped by company.
func (u *partialUpdate) statementByID(table, returning, id string) (string, []interface{}) {
	args := append(append([]interface{}{}, u.args...), id)
	sql := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		table, strings.Join(u.cols, ", "), len(u.args)+1, returning)
	return sql, args
}
