package testkit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sliceRows rejoue des lignes pré-calculées derrière l'interface pgx.Rows
type sliceRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *sliceRows) Next() bool {
	if r.err != nil || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("testkit: scan wants %d values, row has %d", len(dest), len(row))
	}
	for i, value := range row {
		if err := assign(dest[i], value); err != nil {
			r.err = err
			return err
		}
	}
	return nil
}

func (r *sliceRows) Close()                                       {}
func (r *sliceRows) Err() error                                   { return r.err }
func (r *sliceRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *sliceRows) Values() ([]any, error)                       { return r.rows[r.pos-1], nil }
func (r *sliceRows) RawValues() [][]byte                          { return nil }
func (r *sliceRows) Conn() *pgx.Conn                              { return nil }

// assign copie une valeur vers la destination d'un Scan
func assign(dest, value any) error {
	switch d := dest.(type) {
	case *int64:
		v, ok := value.(int64)
		if !ok {
			return fmt.Errorf("testkit: cannot scan %T into *int64", value)
		}
		*d = v
	case *int:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("testkit: cannot scan %T into *int", value)
		}
		*d = v
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("testkit: cannot scan %T into *string", value)
		}
		*d = v
	default:
		return fmt.Errorf("testkit: unsupported scan destination %T", dest)
	}
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error { return r.err }

// memTx délègue au MemoryDB; Commit et Rollback sont des no-ops puisque
// le double n'isole pas les écritures. Suffisant tant que les tests ne
// s'appuient pas sur un rollback effectif.
type memTx struct {
	db *MemoryDB
}

func (t *memTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { return nil }
func (t *memTx) Rollback(ctx context.Context) error        { return nil }

func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, fmt.Errorf("testkit: CopyFrom not supported")
}

func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, fmt.Errorf("testkit: Prepare not supported")
}

func (t *memTx) Conn() *pgx.Conn { return nil }
