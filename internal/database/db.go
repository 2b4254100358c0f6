// Package database owns the MySQL connection pool for the recruitment API.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
)

// Pool sizing: the API is read-heavy (listings for review dashboards) with
// short transactions, so a modest shared pool is enough.  Idle connections
// are recycled before typical load-balancer timeouts.
const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open builds the DSN, opens the pool and verifies connectivity with a
// bounded ping so a misconfigured database fails startup fast instead of
// surfacing on the first request.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	cred := user
	if pass != "" {
		cred = user + ":" + pass
	}
	// parseTime maps DATETIME columns to time.Time; loc=UTC keeps every
	// stored and scanned timestamp in one zone.
	dsn := fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, net.JoinHostPort(host, port), name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s/%s: %w", host, name, err)
	}
	return db, nil
}
