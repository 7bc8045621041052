package catalog

import (
	"time"

	"github.com/leengari/sqlsandbox/internal/domain/data"
	"github.com/leengari/sqlsandbox/internal/domain/schema"
)

// SampleDatabase builds the database seeded into an empty catalog so that
// exercises have something to query straight away
func SampleDatabase(name string, now time.Time) *schema.Database {
	db := schema.NewDatabase(name, now)
	db.Description = "Sample database with users, products and orders"

	users := schema.NewTable("users", []schema.Column{
		{Name: "id", Type: schema.ColumnTypeInt, PrimaryKey: true, AutoIncrement: true},
		{Name: "name", Type: schema.ColumnTypeVarchar, Length: "100"},
		{Name: "email", Type: schema.ColumnTypeVarchar, Length: "100", Unique: true},
		{Name: "age", Type: schema.ColumnTypeInt, Nullable: true},
		{Name: "city", Type: schema.ColumnTypeVarchar, Length: "50", Nullable: true},
		{Name: "created_at", Type: schema.ColumnTypeTimestamp, Nullable: true, DefaultValue: schema.DefaultCurrentTimestamp},
	})
	users.Engine = "InnoDB"
	users.Charset = "utf8mb4"
	users.Constraints = append(users.Constraints, schema.Constraint{
		Type: schema.ConstraintPrimaryKey, Name: "PRIMARY", Columns: []string{"id"},
	})
	for i, u := range []struct {
		name, email string
		age         int64
		city        string
	}{
		{"John Doe", "john@example.com", 25, "New York"},
		{"Jane Smith", "jane@example.com", 30, "London"},
		{"Bob Johnson", "bob@example.com", 28, "Paris"},
		{"Alice Brown", "alice@example.com", 22, "Tokyo"},
		{"Charlie Wilson", "charlie@example.com", 35, "Sydney"},
	} {
		users.Data = append(users.Data, data.Row{
			"id":         int64(i + 1),
			"name":       u.name,
			"email":      u.email,
			"age":        u.age,
			"city":       u.city,
			"created_at": time.Date(2024, 1, 15+i, 10, 0, 0, 0, time.UTC),
		})
	}

	products := schema.NewTable("products", []schema.Column{
		{Name: "id", Type: schema.ColumnTypeInt, PrimaryKey: true, AutoIncrement: true},
		{Name: "name", Type: schema.ColumnTypeVarchar, Length: "100"},
		{Name: "price", Type: schema.ColumnTypeDecimal, Length: "10,2"},
		{Name: "category", Type: schema.ColumnTypeVarchar, Length: "50", Nullable: true},
		{Name: "stock", Type: schema.ColumnTypeInt, DefaultValue: "0"},
	})
	products.Engine = "InnoDB"
	products.Charset = "utf8mb4"
	products.Constraints = append(products.Constraints, schema.Constraint{
		Type: schema.ConstraintPrimaryKey, Name: "PRIMARY", Columns: []string{"id"},
	})
	for i, p := range []struct {
		name     string
		price    float64
		category string
		stock    int64
	}{
		{"Laptop", 999.99, "Electronics", 10},
		{"Mouse", 25.5, "Electronics", 150},
		{"Desk Chair", 149, "Furniture", 20},
		{"Notebook", 3.75, "Stationery", 500},
	} {
		products.Data = append(products.Data, data.Row{
			"id":       int64(i + 1),
			"name":     p.name,
			"price":    p.price,
			"category": p.category,
			"stock":    p.stock,
		})
	}

	orders := schema.NewTable("orders", []schema.Column{
		{Name: "id", Type: schema.ColumnTypeInt, PrimaryKey: true, AutoIncrement: true},
		{Name: "user_id", Type: schema.ColumnTypeInt, ForeignKey: &schema.ForeignKeyRef{Table: "users", Column: "id"}},
		{Name: "product_id", Type: schema.ColumnTypeInt, ForeignKey: &schema.ForeignKeyRef{Table: "products", Column: "id"}},
		{Name: "quantity", Type: schema.ColumnTypeInt, DefaultValue: "1"},
		{Name: "order_date", Type: schema.ColumnTypeDate, Nullable: true},
	})
	orders.Engine = "InnoDB"
	orders.Charset = "utf8mb4"
	orders.Constraints = append(orders.Constraints,
		schema.Constraint{Type: schema.ConstraintPrimaryKey, Name: "PRIMARY", Columns: []string{"id"}},
		schema.Constraint{
			Type: schema.ConstraintForeignKey, Name: "fk_orders_user", Columns: []string{"user_id"},
			ReferencedTable: "users", ReferencedColumns: []string{"id"}, OnDelete: "CASCADE",
		},
	)
	for i, o := range []struct {
		user, product, qty int64
		day                int
	}{
		{1, 1, 1, 1},
		{2, 2, 2, 3},
		{1, 4, 10, 5},
		{3, 3, 1, 8},
	} {
		orders.Data = append(orders.Data, data.Row{
			"id":         int64(i + 1),
			"user_id":    o.user,
			"product_id": o.product,
			"quantity":   o.qty,
			"order_date": time.Date(2024, 2, o.day, 0, 0, 0, 0, time.UTC),
		})
	}

	db.AddTable(users)
	db.AddTable(products)
	db.AddTable(orders)
	return db
}
