package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-friendly view of an error chain.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump walks err and records the typed code, every wrapped layer, and the
// Postgres diagnostics from either the pgx or the lib/pq driver.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	out := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		out.Code = typed.Code()
	}
	for layer := err; layer != nil; layer = errors.Unwrap(layer) {
		out.Chain = append(out.Chain, fmt.Sprintf("%T: %v", layer, layer))
	}

	if pg, ok := postgresDiagnostics(err); ok {
		out.PGCode = pg.code
		out.PGConstraint = pg.constraint
		out.PGTable = pg.table
		out.PGColumn = pg.column
		out.PGDetail = pg.detail
		out.PGMessage = pg.message
	}
	return out
}

type pgDiagnostics struct {
	code, constraint, table, column, detail, message string
}

func postgresDiagnostics(err error) (pgDiagnostics, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgDiagnostics{
			code:       pgxErr.Code,
			constraint: pgxErr.ConstraintName,
			table:      pgxErr.TableName,
			column:     pgxErr.ColumnName,
			detail:     pgxErr.Detail,
			message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgDiagnostics{
			code:       string(pqErr.Code),
			constraint: pqErr.Constraint,
			table:      pqErr.Table,
			column:     pqErr.Column,
			detail:     pqErr.Detail,
			message:    pqErr.Message,
		}, true
	}
	return pgDiagnostics{}, false
}
