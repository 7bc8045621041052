package executor_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/executor"
	"github.com/leengari/sqlsandbox/internal/testutil"
)

func TestInsertAutoIncrement(t *testing.T) {
	ctx := newContext(t)
	mustRun(t, ctx, executor.CreateTable,
		"CREATE TABLE t (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(50) NOT NULL)")

	res := mustRun(t, ctx, executor.Insert, "INSERT INTO t (name) VALUES ('a'),('b')")
	assert.Equal(t, 2, res.AffectedRows)
	assert.Equal(t, executor.QueryInsert, res.QueryType)

	res = mustRun(t, ctx, executor.Select, "SELECT * FROM t ORDER BY id DESC")
	assert.DeepEqual(t, []data.Row{
		{"id": int64(2), "name": "b"},
		{"id": int64(1), "name": "a"},
	}, res.ResultSet)
}

func TestInsertAutoIncrementIsMaxPlusOne(t *testing.T) {
	ctx := newContext(t)
	mustRun(t, ctx, executor.CreateTable,
		"CREATE TABLE t (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(50))")

	mustRun(t, ctx, executor.Insert, "INSERT INTO t (name) VALUES ('a'), ('b'), ('c')")
	mustRun(t, ctx, executor.Delete, "DELETE FROM t WHERE id = 3")
	mustRun(t, ctx, executor.Insert, "INSERT INTO t (name) VALUES ('d')")
	mustRun(t, ctx, executor.Insert, "INSERT INTO t VALUES (10, 'e')")
	mustRun(t, ctx, executor.Insert, "INSERT INTO t VALUES (NULL, 'f')")
	mustRun(t, ctx, executor.Insert, "INSERT INTO t (id, name) VALUES (DEFAULT, 'g')")

	res := mustRun(t, ctx, executor.Select, "SELECT id FROM t")
	assert.DeepEqual(t,
		[]interface{}{int64(1), int64(2), int64(3), int64(10), int64(11), int64(12)},
		testutil.Column(res.ResultSet, "id"))
}

func TestInsertBackfill(t *testing.T) {
	ctx := newContext(t)

	mustRun(t, ctx, executor.Insert, "INSERT INTO products (name, price) VALUES ('Pen', '1.5')")
	row := ctx.DB.Tables[1].Data[4]
	assert.DeepEqual(t, data.Row{
		"id":       int64(5),
		"name":     "Pen",
		"price":    1.5,
		"category": nil,
		"stock":    int64(0),
	}, row)

	mustRun(t, ctx, executor.Insert, "INSERT INTO users (name) VALUES ('New')")
	users, _ := ctx.DB.Table("users")
	added := users.Data[len(users.Data)-1]
	assert.Equal(t, int64(6), added["id"])
	assert.Equal(t, "", added["email"], "NOT NULL without default gets the zero value")
	testutil.AssertNullValue(t, added["age"], "nullable age")
	assert.Equal(t, testutil.Now, added["created_at"])
}

func TestInsertCoercion(t *testing.T) {
	ctx := newContext(t)
	mustRun(t, ctx, executor.CreateTable,
		"CREATE TABLE c (n INT, f DOUBLE, b BOOLEAN, s VARCHAR(20), d DATE)")

	mustRun(t, ctx, executor.Insert,
		`INSERT INTO c VALUES ('42abc', '3.25', 'TRUE', 'it''s, (fine)', '2024-02-01'), (NULL, 'x', '0', "dq", NULL)`)

	c, _ := ctx.DB.Table("c")
	assert.DeepEqual(t, data.Row{"n": int64(42), "f": 3.25, "b": true, "s": "it's, (fine)", "d": "2024-02-01"}, c.Data[0])
	assert.DeepEqual(t, data.Row{"n": nil, "f": float64(0), "b": false, "s": "dq", "d": nil}, c.Data[1])
}

func TestInsertErrors(t *testing.T) {
	ctx := newContext(t)
	mustRun(t, ctx, executor.CreateTable, "CREATE TABLE t (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(50))")

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"bad shape", "INSERT INTO t", "Invalid INSERT syntax"},
		{"missing table", "INSERT INTO nope VALUES (1)", `Table "nope" does not exist`},
		{"unknown column", "INSERT INTO t (nick) VALUES ('x')", `Unknown column "nick" in table "t"`},
		{"too many values", "INSERT INTO t (name) VALUES ('ok'), ('a', 'b')", "column count (1) doesn't match value count (2)"},
		{"unterminated literal", "INSERT INTO t (name) VALUES ('a)", "Invalid INSERT syntax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := executor.Insert(ctx, tt.query)
			testutil.AssertFailure(t, res, tt.want, tt.name)
			assert.Equal(t, executor.QueryInsert, res.QueryType)
		})
	}

	// the failed multi-row insert left nothing behind
	tbl, _ := ctx.DB.Table("t")
	assert.Equal(t, 0, len(tbl.Data))
}

func TestUpdate(t *testing.T) {
	ctx := newContext(t)

	res := mustRun(t, ctx, executor.Update, "UPDATE users SET age = 26 WHERE email = 'john@example.com'")
	assert.Equal(t, 1, res.AffectedRows)
	assert.Equal(t, executor.QueryUpdate, res.QueryType)

	res = mustRun(t, ctx, executor.Select, "SELECT age FROM users WHERE email='john@example.com'")
	assert.DeepEqual(t, []data.Row{{"age": int64(26)}}, res.ResultSet)
}

func TestUpdateAssignments(t *testing.T) {
	ctx := newContext(t)

	res := mustRun(t, ctx, executor.Update, "UPDATE products SET stock = DEFAULT, category = NULL WHERE price < 100")
	assert.Equal(t, 2, res.AffectedRows)
	products, _ := ctx.DB.Table("products")
	assert.Equal(t, int64(0), products.Data[1]["stock"])
	testutil.AssertNullValue(t, products.Data[1]["category"], "category set to NULL")
	assert.Equal(t, int64(10), products.Data[0]["stock"])

	// no WHERE touches every row; a comma inside the literal is not a separator
	res = mustRun(t, ctx, executor.Update, "UPDATE products SET name = 'a, b'")
	assert.Equal(t, 4, res.AffectedRows)
	assert.Equal(t, "a, b", products.Data[3]["name"])
}

func TestUpdateWhereInsideLiteral(t *testing.T) {
	ctx := newContext(t)

	res := mustRun(t, ctx, executor.Update, "UPDATE users SET city = 'x WHERE y' WHERE id = 1")
	assert.Equal(t, 1, res.AffectedRows)
	users, _ := ctx.DB.Table("users")
	assert.Equal(t, "x WHERE y", users.Data[0]["city"])

	res = mustRun(t, ctx, executor.Delete, "DELETE FROM users WHERE city = 'x WHERE y'")
	assert.Equal(t, 1, res.AffectedRows)
}

func TestUpdateParsesDates(t *testing.T) {
	ctx := newContext(t)

	mustRun(t, ctx, executor.Update, "UPDATE orders SET order_date = '2024-03-01' WHERE id = 1")
	orders, _ := ctx.DB.Table("orders")
	got, ok := orders.Data[0]["order_date"].(time.Time)
	assert.Assert(t, ok, "order_date should be a time.Time, got %T", orders.Data[0]["order_date"])
	assert.Assert(t, got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateErrors(t *testing.T) {
	ctx := newContext(t)

	testutil.AssertFailure(t, executor.Update(ctx, "UPDATE users age = 1"), "Invalid UPDATE syntax", "no SET")
	testutil.AssertFailure(t, executor.Update(ctx, "UPDATE users SET nope = 1"), `Unknown column "nope"`, "unknown column")
	testutil.AssertFailure(t, executor.Update(ctx, "UPDATE ghosts SET a = 1"), "does not exist", "missing table")
}

func TestDelete(t *testing.T) {
	ctx := newContext(t)

	res := mustRun(t, ctx, executor.Delete, "DELETE FROM users WHERE city = 'Tokyo'")
	assert.Equal(t, 1, res.AffectedRows)

	res = mustRun(t, ctx, executor.Select, "SELECT * FROM users")
	assert.Equal(t, 4, res.RowCount)
	for _, row := range res.ResultSet {
		assert.Assert(t, row["city"] != "Tokyo")
	}

	res = mustRun(t, ctx, executor.Delete, "DELETE FROM users")
	assert.Equal(t, 4, res.AffectedRows)
	users, _ := ctx.DB.Table("users")
	assert.Equal(t, 0, len(users.Data))

	testutil.AssertFailure(t, executor.Delete(ctx, "DELETE users"), "Invalid DELETE syntax", "no FROM")
}
