package source

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	_ "modernc.org/sqlite"

	"github.com/yefei/zenorm-generate/internal/config"
)

var mysqlDialect = dialect{
	name: "mysql",
	open: openMySQL,
	tablesQuery: `SELECT TABLE_NAME FROM information_schema.TABLES
WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`,
	columnsQuery: `SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE,
  CASE WHEN COLUMN_KEY = 'PRI' THEN 1 ELSE 0 END, COLUMN_COMMENT
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`,
	catalogArg: true,
	mapType:    mysqlType,
}

var postgresDialect = dialect{
	name: "postgres",
	open: openPostgres,
	tablesQuery: `SELECT c.relname FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = current_schema() AND c.relkind IN ('r', 'p')
ORDER BY c.relname`,
	columnsQuery: `SELECT a.attname, t.typname, pg_catalog.format_type(a.atttypid, a.atttypmod),
  CASE WHEN a.attnotnull THEN 'NO' ELSE 'YES' END,
  CASE WHEN EXISTS (
    SELECT 1 FROM pg_catalog.pg_constraint con
    WHERE con.conrelid = c.oid AND con.contype = 'p' AND a.attnum = ANY(con.conkey)
  ) THEN 1 ELSE 0 END,
  col_description(c.oid, a.attnum)
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
WHERE n.nspname = current_schema() AND c.relname = $1 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`,
	mapType: postgresType,
}

var sqliteDialect = dialect{
	name: "sqlite",
	open: openSQLite,
	tablesQuery: `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`,
	columnsQuery: `SELECT name, type, type,
  CASE WHEN "notnull" = 0 AND pk = 0 THEN 'YES' ELSE 'NO' END,
  CASE WHEN pk > 0 THEN 1 ELSE 0 END,
  NULL
FROM pragma_table_info(?)
ORDER BY cid`,
	mapType: sqliteType,
}

var sqlserverDialect = dialect{
	name: "sqlserver",
	open: openSQLServer,
	tablesQuery: `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`,
	columnsQuery: `SELECT c.COLUMN_NAME, c.DATA_TYPE, c.DATA_TYPE, c.IS_NULLABLE,
  CASE WHEN EXISTS (
    SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
      ON k.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND k.TABLE_SCHEMA = tc.TABLE_SCHEMA
    WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = c.TABLE_SCHEMA
      AND tc.TABLE_NAME = c.TABLE_NAME AND k.COLUMN_NAME = c.COLUMN_NAME
  ) THEN 1 ELSE 0 END,
  CAST(ep.value AS NVARCHAR(4000))
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN sys.extended_properties ep
  ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
  AND ep.minor_id = COLUMNPROPERTY(ep.major_id, c.COLUMN_NAME, 'ColumnId')
  AND ep.name = 'MS_Description'
WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
ORDER BY c.ORDINAL_POSITION`,
	mapType: sqlserverType,
}

func hostPort(cfg *config.Config, defaultPort int) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func openMySQL(cfg *config.Config) (*sql.DB, string, error) {
	var mc *mysql.Config
	if cfg.DSN != "" {
		parsed, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, "", fmt.Errorf("mysql dsn: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = hostPort(cfg, 3306)
		mc.DBName = cfg.Database
	}
	if mc.DBName == "" {
		mc.DBName = cfg.Database
	}
	if mc.DBName == "" {
		return nil, "", errors.New("database is required")
	}

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, "", err
	}
	return db, mc.DBName, nil
}

func openPostgres(cfg *config.Config) (*sql.DB, string, error) {
	connString := cfg.DSN
	if connString == "" {
		u := url.URL{
			Scheme: "postgres",
			Host:   hostPort(cfg, 5432),
			Path:   "/" + cfg.Database,
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		connString = u.String()
	}

	pc, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, "", fmt.Errorf("postgres dsn: %w", err)
	}
	return stdlib.OpenDB(*pc), pc.Database, nil
}

func openSQLite(cfg *config.Config) (*sql.DB, string, error) {
	dsn := cfg.DSN
	if dsn == "" {
		if cfg.File == "" {
			return nil, "", errors.New("file is required")
		}
		// sqlite creates missing files; a typo must not yield an empty schema
		if _, err := os.Stat(cfg.File); err != nil {
			return nil, "", err
		}
		dsn = cfg.File
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, "", err
	}
	return db, "", nil
}

func openSQLServer(cfg *config.Config) (*sql.DB, string, error) {
	dsn := cfg.DSN
	if dsn == "" {
		u := url.URL{
			Scheme: "sqlserver",
			Host:   hostPort(cfg, 1433),
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		q := url.Values{}
		q.Set("database", cfg.Database)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	// Validate DSN early to fail fast on obvious mistakes.
	parsed, err := msdsn.Parse(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("sqlserver dsn: %w", err)
	}

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, "", err
	}
	return db, parsed.Database, nil
}
