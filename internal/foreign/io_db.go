package foreign

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"lv8/internal/object"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// dbHandle is a connection plus its open transaction, if any. Query and exec
// go through the transaction while one is open.
type dbHandle struct {
	driver string
	db     *sql.DB
	tx     *sql.Tx
}

func (h *dbHandle) Close() error {
	var errs []error
	if h.tx != nil {
		if err := h.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
		h.tx = nil
	}
	if err := h.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

func (h *dbHandle) conn() queryer {
	if h.tx != nil {
		return h.tx
	}
	return h.db
}

func lookupHandle(ctx object.EvaluatorContext, arg object.Object) (*dbHandle, int64, error) {
	id, err := unpackInt(arg, "connection")
	if err != nil {
		return nil, 0, err
	}
	item, ok := ctx.Handles().Get(id)
	if !ok {
		return nil, id, object.NewRuntimeError("invalid connection handle %d", id)
	}
	h, ok := item.(*dbHandle)
	if !ok {
		return nil, id, object.NewRuntimeError("handle %d is not a database connection", id)
	}
	return h, id, nil
}

func fnIoDbConnect(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if err := expectArgs("connect", args, 2); err != nil {
		return nil, err
	}
	dsn, err := unpackString(args[0], "connectionString")
	if err != nil {
		return nil, err
	}
	driver, err := unpackString(args[1], "driver")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		slog.Warn("failed to open database",
			slog.String("driver", driver),
			slog.Any("error", err),
		)
		return nil, object.NewRuntimeError("failed to open connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		slog.Warn("failed to ping database",
			slog.String("driver", driver),
			slog.Any("error", err),
		)
		return nil, object.NewRuntimeError("failed to ping database: %v", err)
	}

	id := ctx.Handles().Put(&dbHandle{driver: driver, db: db})
	slog.Info("database connected",
		slog.String("driver", driver),
		slog.Int64("handle", id),
	)
	return object.NewInt(id), nil
}

func fnIoDbQuery(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if err := expectMinArgs("query", args, 2); err != nil {
		return nil, err
	}
	h, _, err := lookupHandle(ctx, args[0])
	if err != nil {
		return nil, err
	}
	query, err := unpackString(args[1], "sql")
	if err != nil {
		return nil, err
	}

	rows, err := h.conn().Query(query, toParams(args[2:])...)
	if err != nil {
		return nil, object.NewRuntimeError("query failed: %v", err)
	}
	defer rows.Close()

	result, err := renderRows(rows)
	if err != nil {
		return nil, object.NewRuntimeError("query failed: %v", err)
	}
	return result, nil
}

func fnIoDbExec(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if err := expectMinArgs("exec", args, 2); err != nil {
		return nil, err
	}
	h, _, err := lookupHandle(ctx, args[0])
	if err != nil {
		return nil, err
	}
	query, err := unpackString(args[1], "sql")
	if err != nil {
		return nil, err
	}

	result, err := h.conn().Exec(query, toParams(args[2:])...)
	if err != nil {
		return nil, object.NewRuntimeError("exec failed: %v", err)
	}

	// postgres does not report a last insert id
	affected, _ := result.RowsAffected()
	lastID, _ := result.LastInsertId()

	return &object.Map{Pairs: map[string]object.Object{
		"rowsAffected": object.NewInt(affected),
		"lastInsertId": object.NewInt(lastID),
	}}, nil
}

func fnIoDbClose(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if err := expectArgs("close", args, 1); err != nil {
		return nil, err
	}
	h, id, err := lookupHandle(ctx, args[0])
	if err != nil {
		return nil, err
	}

	ctx.Handles().Delete(id)
	if err := h.Close(); err != nil {
		slog.Warn("failed to close database",
			slog.String("driver", h.driver),
			slog.Int64("handle", id),
			slog.Any("error", err),
		)
		return nil, object.NewRuntimeError("failed to close connection: %v", err)
	}
	return object.UNDEFINED, nil
}

// Helpers for transaction control
func fnIoDbBegin(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if err := expectArgs("begin", args, 1); err != nil {
		return nil, err
	}
	h, _, err := lookupHandle(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if h.tx != nil {
		return nil, object.NewRuntimeError("transaction already open")
	}

	tx, err := h.db.Begin()
	if err != nil {
		return nil, object.NewRuntimeError("failed to begin transaction: %v", err)
	}
	h.tx = tx
	return args[0], nil
}

func fnIoDbCommit(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	return endTransaction("commit", ctx, args, (*sql.Tx).Commit)
}

func fnIoDbRollback(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	return endTransaction("rollback", ctx, args, (*sql.Tx).Rollback)
}

func endTransaction(name string, ctx object.EvaluatorContext, args []object.Object, end func(*sql.Tx) error) (object.Object, error) {
	if err := expectArgs(name, args, 1); err != nil {
		return nil, err
	}
	h, _, err := lookupHandle(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if h.tx == nil {
		return nil, object.NewRuntimeError("invalid transaction handle")
	}

	tx := h.tx
	h.tx = nil
	if err := end(tx); err != nil {
		return nil, object.NewRuntimeError("failed to %s transaction: %v", name, err)
	}
	return args[0], nil
}

func toParams(args []object.Object) []any {
	params := make([]any, len(args))
	for i, arg := range args {
		params[i] = toParam(arg)
	}
	return params
}

func toParam(arg object.Object) any {
	switch v := arg.(type) {
	case *object.Number:
		if v.IsFloat {
			return v.Float
		}
		return v.Int
	case *object.String:
		return v.Value
	case *object.Boolean:
		return v.Value
	case *object.Null, *object.Undefined:
		return nil
	default:
		return arg.Inspect()
	}
}

func renderRows(rows *sql.Rows) (object.Object, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, _ := rows.ColumnTypes()
	resultRows := []object.Object{}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]object.Object, len(columns))
		for i, col := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			row[col] = mapValue(values[i], typeName)
		}
		resultRows = append(resultRows, &object.Map{Pairs: row})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &object.Array{Elements: resultRows}, nil
}

func mapValue(v any, dbType string) object.Object {
	if v == nil {
		return object.NULL
	}
	switch x := v.(type) {
	case int64:
		return object.NewInt(x)
	case float64:
		return object.NewFloat(x)
	case []byte:
		// mysql hands back DECIMAL as text
		switch dbType {
		case "DECIMAL", "NUMERIC":
			return parseNumeric(string(x))
		default:
			return object.NewString(string(x))
		}
	case string:
		return object.NewString(x)
	case bool:
		return object.NativeBoolToBooleanObject(x)
	case time.Time:
		return object.NewString(x.Format(time.RFC3339))
	default:
		return object.NewString(fmt.Sprintf("%v", v))
	}
}

func parseNumeric(s string) object.Object {
	var f float64
	if _, err := fmt.Sscan(s, &f); err != nil {
		return object.NewString(s)
	}
	return object.NewFloat(f)
}
