package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/finsight/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateConstraintsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS holdings (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		portfolio_id TEXT NOT NULL,
		name TEXT NOT NULL,
		instrument_class TEXT NOT NULL,
		units REAL,
		price REAL,
		invested_amount REAL,
		current_value REAL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		portfolio_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount REAL NOT NULL,
		target_date TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS constraints (
		user_id INTEGER NOT NULL,
		portfolio_id TEXT NOT NULL,
		ef_months INTEGER NOT NULL DEFAULT 0,
		liquidity_amount REAL NOT NULL DEFAULT 0,
		liquidity_months INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(user_id, portfolio_id),
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_holdings_user_portfolio ON holdings(user_id, portfolio_id);
	CREATE INDEX IF NOT EXISTS idx_goals_user_portfolio ON goals(user_id, portfolio_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateConstraintsTable backfills columns added after the first release.
func migrateConstraintsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='constraints'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return // table will be created with the full schema
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'constraints' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(constraints)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'constraints'", "error", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'constraints'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'constraints'", "error", err)
		}
		return
	}

	if _, ok := columnExists["notes"]; !ok {
		if _, err := DB.Exec("ALTER TABLE constraints ADD COLUMN notes TEXT"); err != nil {
			logger.L.Error("Error adding 'notes' column to 'constraints' table", "error", err)
		} else {
			logger.L.Info("Added 'notes' column to 'constraints' table")
		}
	}
	if _, ok := columnExists["liquidity_months"]; !ok {
		if _, err := DB.Exec("ALTER TABLE constraints ADD COLUMN liquidity_months INTEGER NOT NULL DEFAULT 0"); err != nil {
			logger.L.Error("Error adding 'liquidity_months' column to 'constraints' table", "error", err)
		} else {
			logger.L.Info("Added 'liquidity_months' column to 'constraints' table")
		}
	}
}
