package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Ledger mirrors every recorded grid point into a SQL database so sweeps from
// different hosts can be collected in one place.
type Ledger struct {
	db *sql.DB
}

// LedgerDriver picks the database/sql driver for a ledger url: remote libsql
// urls go through libsql, anything else is a local sqlite file.
func LedgerDriver(url string) string {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(url, scheme) {
			return "libsql"
		}
	}
	return "sqlite"
}

func OpenLedger(url string) (*Ledger, error) {
	db, err := sql.Open(LedgerDriver(url), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %v: %w", url, err)
	}
	if LedgerDriver(url) == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Init creates the ledger tables and stores sweep parameters.
func (l *Ledger) Init(ctx context.Context, sweep string, meta map[string]any) error {
	_, err := l.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS parameters (sweep TEXT, name TEXT, value, PRIMARY KEY (sweep, name))")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, sweep, "time", time.Now().Format("2006-01-02 15:04:05"))
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		parameters = append(parameters, sweep, key, fmt.Sprintf("%v", meta[key]))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?, ?)"}, len(parameters)/3), ", ")
	_, err = l.db.ExecContext(
		ctx,
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT (sweep, name) DO UPDATE SET value = excluded.value", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs (
		sweep TEXT,
		target TEXT,
		point TEXT,
		command TEXT,
		attempts INTEGER,
		exit_code INTEGER,
		outcome TEXT,
		output BLOB,
		elapsed REAL
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized ledger for sweep %v with meta %v", sweep, meta)
	return nil
}

func (l *Ledger) RecordRun(ctx context.Context, record Record) error {
	_, err := l.db.ExecContext(
		ctx,
		"INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.Sweep,
		record.Target,
		record.Point,
		record.Command,
		record.Final.Attempt,
		record.Final.ExitCode,
		string(record.Outcome),
		record.Final.Output,
		record.Final.Elapsed.Seconds(),
	)
	return err
}

type LedgerRun struct {
	Target   string
	Point    string
	Command  string
	Attempts int
	ExitCode int
	Outcome  Outcome
}

// Runs lists the recorded runs of a sweep in insertion order.
func (l *Ledger) Runs(ctx context.Context, sweep string) ([]LedgerRun, error) {
	rows, err := l.db.QueryContext(
		ctx,
		"SELECT target, point, command, attempts, exit_code, outcome FROM runs WHERE sweep = ? ORDER BY rowid",
		sweep,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	runs := make([]LedgerRun, 0)
	for rows.Next() {
		var run LedgerRun
		var outcome string
		err = rows.Scan(&run.Target, &run.Point, &run.Command, &run.Attempts, &run.ExitCode, &outcome)
		if err != nil {
			return nil, err
		}
		run.Outcome = Outcome(outcome)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (l *Ledger) Parameters(ctx context.Context, sweep string) (map[string]string, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT name, value FROM parameters WHERE sweep = ?", sweep)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make(map[string]string, 0)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		results[name] = value
	}
	return results, rows.Err()
}
