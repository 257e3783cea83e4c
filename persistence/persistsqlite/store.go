// Copyright (c) 2023 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/capaio/solidity-crowdfunding
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package persistsqlite implements a state store backed by a SQLite database. Every put runs
// in a single transaction.
package persistsqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Registers the "sqlite" driver.

	"github.com/capaio/solidity-crowdfunding"
)

//go:embed schema.sql
var schema string

// Store persists the node state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the SQLite database at path, creating it and its tables if required.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite db")
	}
	// Writers are serialized anyway by SQLite; a single connection avoids busy errors.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close() // nolint: errcheck, gosec
		return nil, errors.Wrap(err, "pinging sqlite db")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close() // nolint: errcheck, gosec
		return nil, errors.Wrap(err, "creating tables")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutFactory implements crowdfund.StateStore.
func (s *Store) PutFactory(ctx context.Context, rec crowdfund.FactoryRecord) error {
	return s.inTx(ctx, "put factory", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO factory (id, address) VALUES (1, ?)
			 ON CONFLICT (id) DO UPDATE SET address = excluded.address`, rec.Address); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deployed_campaigns`); err != nil {
			return err
		}
		for i, addr := range rec.DeployedCampaigns {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO deployed_campaigns (position, address) VALUES (?, ?)`, i, addr); err != nil {
				return err
			}
		}
		return nil
	})
}

// PutCampaign implements crowdfund.StateStore.
func (s *Store) PutCampaign(ctx context.Context, rec crowdfund.CampaignRecord) error {
	return s.inTx(ctx, "put campaign", func(tx *sql.Tx) error {
		return putCampaign(ctx, tx, rec)
	})
}

// PutAccounts implements crowdfund.StateStore.
func (s *Store) PutAccounts(ctx context.Context, recs ...crowdfund.AccountRecord) error {
	return s.inTx(ctx, "put accounts", func(tx *sql.Tx) error {
		return putAccounts(ctx, tx, recs)
	})
}

// PutCampaignAccounts implements crowdfund.StateStore. The records are written in one
// transaction.
func (s *Store) PutCampaignAccounts(ctx context.Context, rec crowdfund.CampaignRecord,
	recs ...crowdfund.AccountRecord) error {
	return s.inTx(ctx, "put campaign and accounts", func(tx *sql.Tx) error {
		if err := putCampaign(ctx, tx, rec); err != nil {
			return err
		}
		return putAccounts(ctx, tx, recs)
	})
}

func putCampaign(ctx context.Context, tx *sql.Tx, rec crowdfund.CampaignRecord) error {
	var position int
	err := tx.QueryRowContext(ctx, `SELECT position FROM campaigns WHERE address = ?`, rec.Address).
		Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM campaigns`).Scan(&position)
	}
	if err != nil {
		return err
	}

	for _, table := range []string{"approvals", "requests", "approvers"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE campaign = ?`, rec.Address); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM campaigns WHERE address = ?`, rec.Address); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO campaigns (address, position, manager, minimum_contribution) VALUES (?, ?, ?, ?)`,
		rec.Address, position, rec.Manager, rec.MinimumContribution); err != nil {
		return err
	}
	for i, approver := range rec.Approvers {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO approvers (campaign, position, address) VALUES (?, ?, ?)`,
			rec.Address, i, approver); err != nil {
			return err
		}
	}
	for i, req := range rec.Requests {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO requests (campaign, request_index, description, value, recipient, complete)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.Address, i, req.Description, req.Value, req.Recipient, req.Complete); err != nil {
			return err
		}
		for j, approval := range req.Approvals {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO approvals (campaign, request_index, position, address) VALUES (?, ?, ?, ?)`,
				rec.Address, i, j, approval); err != nil {
				return err
			}
		}
	}
	return nil
}

func putAccounts(ctx context.Context, tx *sql.Tx, recs []crowdfund.AccountRecord) error {
	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (address, position, balance)
			 VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM accounts), ?)
			 ON CONFLICT (address) DO UPDATE SET balance = excluded.balance`,
			rec.Address, rec.Balance); err != nil {
			return err
		}
	}
	return nil
}

// Load implements crowdfund.StateStore.
func (s *Store) Load(ctx context.Context) (crowdfund.Snapshot, error) {
	var snap crowdfund.Snapshot
	err := s.inTx(ctx, "load", func(tx *sql.Tx) error {
		var err error
		if snap.Factory, err = loadFactory(ctx, tx); err != nil {
			return err
		}
		if snap.Campaigns, err = loadCampaigns(ctx, tx); err != nil {
			return err
		}
		snap.Accounts, err = loadAccounts(ctx, tx)
		return err
	})
	return snap, err
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "%s: beginning transaction", op)
	}
	if err = fn(tx); err != nil {
		tx.Rollback() // nolint: errcheck, gosec
		return errors.Wrap(err, op)
	}
	return errors.Wrapf(tx.Commit(), "%s: committing transaction", op)
}

func loadFactory(ctx context.Context, tx *sql.Tx) (*crowdfund.FactoryRecord, error) {
	var rec crowdfund.FactoryRecord
	err := tx.QueryRowContext(ctx, `SELECT address FROM factory WHERE id = 1`).Scan(&rec.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.DeployedCampaigns, err = queryStrings(ctx, tx,
		`SELECT address FROM deployed_campaigns ORDER BY position`)
	return &rec, err
}

func loadCampaigns(ctx context.Context, tx *sql.Tx) ([]crowdfund.CampaignRecord, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT address, manager, minimum_contribution FROM campaigns ORDER BY position`)
	if err != nil {
		return nil, err
	}
	var recs []crowdfund.CampaignRecord
	for rows.Next() {
		var rec crowdfund.CampaignRecord
		if err = rows.Scan(&rec.Address, &rec.Manager, &rec.MinimumContribution); err != nil {
			rows.Close() // nolint: errcheck, gosec
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	for i := range recs {
		recs[i].Approvers, err = queryStrings(ctx, tx,
			`SELECT address FROM approvers WHERE campaign = ? ORDER BY position`, recs[i].Address)
		if err != nil {
			return nil, err
		}
		if recs[i].Requests, err = loadRequests(ctx, tx, recs[i].Address); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func loadRequests(ctx context.Context, tx *sql.Tx, campaign string) ([]crowdfund.RequestRecord, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT description, value, recipient, complete FROM requests
		 WHERE campaign = ? ORDER BY request_index`, campaign)
	if err != nil {
		return nil, err
	}
	recs := []crowdfund.RequestRecord{}
	for rows.Next() {
		var rec crowdfund.RequestRecord
		if err = rows.Scan(&rec.Description, &rec.Value, &rec.Recipient, &rec.Complete); err != nil {
			rows.Close() // nolint: errcheck, gosec
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err = closeRows(rows); err != nil {
		return nil, err
	}

	for i := range recs {
		recs[i].Approvals, err = queryStrings(ctx, tx,
			`SELECT address FROM approvals WHERE campaign = ? AND request_index = ? ORDER BY position`,
			campaign, i)
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func loadAccounts(ctx context.Context, tx *sql.Tx) ([]crowdfund.AccountRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT address, balance FROM accounts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	var recs []crowdfund.AccountRecord
	for rows.Next() {
		var rec crowdfund.AccountRecord
		if err = rows.Scan(&rec.Address, &rec.Balance); err != nil {
			rows.Close() // nolint: errcheck, gosec
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, closeRows(rows)
}

func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	values := []string{}
	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			rows.Close() // nolint: errcheck, gosec
			return nil, err
		}
		values = append(values, value)
	}
	return values, closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close() // nolint: errcheck, gosec
		return err
	}
	return rows.Close()
}
