package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lk26129226creator/Shopmenu2/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

type Credentials struct {
	Driver   string
	Path     string // sqlite only
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

func (c *Credentials) dsn() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host,
			c.Port,
			c.User,
			c.Password,
			c.DBName), nil
	case DriverSQLite, "":
		return fmt.Sprintf(
			"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
			c.Path), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// CatalogStore is the read side consumed by the checkout flow.
type CatalogStore interface {
	ListShippingMethods(ctx context.Context) ([]string, error)
	ListPaymentRoots(ctx context.Context) ([]domain.PaymentNode, error)
	ListPaymentChildren(ctx context.Context, parentID int64) ([]domain.PaymentNode, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// OrderTx is one isolated write transaction for an order header and its
// lines. Nothing written through it is visible until Commit succeeds.
type OrderTx interface {
	InsertOrder(ctx context.Context, order *domain.Order) (int64, error)
	InsertOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error
	Commit() error
	Rollback() error
}

type OrderStore interface {
	BeginOrderTx(ctx context.Context) (OrderTx, error)
}

type OrderReader interface {
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
}

type Repository struct {
	db     *sql.DB
	driver string
}

func NewRepository(cred *Credentials) (*Repository, error) {
	dsn, err := cred.dsn()
	if err != nil {
		return nil, err
	}
	driver := cred.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	if driver == DriverPostgres {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	}
	return &Repository{db: db, driver: driver}, nil
}

// NewRepositoryWithDB wraps an already opened handle.
func NewRepositoryWithDB(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

func (r *Repository) RunMigrations() error {
	var (
		driver database.Driver
		dir    string
		err    error
	)
	switch r.driver {
	case DriverPostgres:
		dir = "migrations/postgres"
		driver, err = migratepg.WithInstance(r.db, &migratepg.Config{
			MigrationsTable: "shopmenu_schema_migrations",
		})
	default:
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(r.db, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, r.driver, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
