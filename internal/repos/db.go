package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// tsLayout sorts lexicographically, so ORDER BY created_at is chronological.
const tsLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp formats t the way every *_at column stores it.
func Timestamp(t time.Time) string { return t.UTC().Format(tsLayout) }

func now() string { return Timestamp(time.Now()) }

// OpenDB opens the sqlite database, creates the schema and seeds demo data.
func OpenDB(ctx context.Context, dsn string, log *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers and a :memory: database lives in a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := seedCatalog(ctx, db, log); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(ctx, db); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  user_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN','OWNER')),
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL CHECK (price >= 0),
  discount REAL NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  sold INTEGER NOT NULL DEFAULT 0 CHECK (sold >= 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Carts (one per user, emptied but never deleted)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  cart_total REAL NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  position   INTEGER NOT NULL,
  quantity   INTEGER NOT NULL CHECK (quantity >= 1),
  price      REAL NOT NULL,
  total      REAL NOT NULL,
  added_at   TEXT NOT NULL,
  PRIMARY KEY (cart_id, product_id)
);

-- Addresses
CREATE TABLE IF NOT EXISTS addresses(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  full_name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  street TEXT NOT NULL,
  ward TEXT NOT NULL DEFAULT '',
  district TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'Vietnam',
  zip_code TEXT NOT NULL DEFAULT '',
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id);

-- Cards
CREATE TABLE IF NOT EXISTS cards(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  card_name TEXT NOT NULL,
  card_number TEXT NOT NULL UNIQUE,
  card_exp_month TEXT NOT NULL,
  card_exp_year TEXT NOT NULL,
  card_cvc TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cards_user ON cards(user_id);

-- Orders (kept for audit when the user or address is deleted)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount REAL NOT NULL,
  shipping_fee REAL NOT NULL,
  transaction_id TEXT,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'Pending',
  delivery_status TEXT NOT NULL DEFAULT 'Pending',
  shipping_address_id TEXT NOT NULL,
  waiting_confirmation INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position   INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name       TEXT NOT NULL,
  image      TEXT NOT NULL DEFAULT '',
  amount     REAL NOT NULL,
  quantity   INTEGER NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlist_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL,
  PRIMARY KEY (user_id, product_id)
);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL,
  images_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

-- Campsites
CREATE TABLE IF NOT EXISTS campsites(
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  location TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price_per_night REAL NOT NULL CHECK (price_per_night >= 0),
  capacity INTEGER NOT NULL DEFAULT 1,
  images_json TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_campsites_owner ON campsites(owner_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// seedCatalog inserts demo categories and products if they don't already exist.
// Safe to run on every startup (idempotent).
func seedCatalog(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n == 0 && log != nil {
		log.Info("seed.catalog", zap.String("msg", "inserting demo categories/products"))
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	categories := []struct{ ID, Name, Desc string }{
		{"tents", "Tents", "Shelters for every season"},
		{"sleeping-bags", "Sleeping Bags", "Bags and pads"},
		{"cooking", "Camp Cooking", "Stoves, cookware and fuel"},
	}
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories(id, name, description, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, c.ID, c.Name, c.Desc, ts); err != nil {
			return err
		}
	}

	products := []struct {
		ID, Cat, Name, Desc, Brand string
		Price, Discount            float64
		Stock                      int
	}{
		{"tent-2p", "tents", "Trail Dome 2P", "Two person three season dome tent", "Naturehike", 129.99, 10, 12},
		{"tent-4p", "tents", "Family Cabin 4P", "Four person cabin tent with vestibule", "Coleman", 249.00, 0, 4},
		{"bag-0c", "sleeping-bags", "Down Mummy 0C", "Mummy bag rated to 0C", "Sea to Summit", 189.50, 15, 7},
		{"stove-mini", "cooking", "Pocket Rocket Stove", "Compact canister stove", "MSR", 49.95, 0, 30},
	}
	for _, p := range products {
		img := fmt.Sprintf(`[{"url":"/media/products/%s/main.jpg","public_id":"products/%s/main.jpg"}]`, p.ID, p.ID)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products(
				id, category_id, name, description, brand, price, discount, stock_quantity, sold, images_json, active, created_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, 1, ?)
			ON CONFLICT(id) DO NOTHING
		`, p.ID, p.Cat, p.Name, p.Desc, p.Brand, p.Price, p.Discount, p.Stock, img, ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedUsers ensures one USER, one OWNER and one ADMIN exist (idempotent).
func seedUsers(ctx context.Context, db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	seeds := [][5]string{
		{"u-camper", "camper@campgo.test", "camper", "USER", "Passw0rd!"},
		{"u-owner", "owner@campgo.test", "owner", "OWNER", "Passw0rd!"},
		{"u-admin", "admin@campgo.test", "admin", "ADMIN", "Passw0rd!"},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, s := range seeds {
		x, err := mk(s[0], s[1], s[2], s[3], s[4])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users(id,user_name,email,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Name, x.Email, x.Hash, x.Role, ts); err != nil {
			return err
		}
	}

	return tx.Commit()
}
