package db

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS user_data(
user_id BIGINT PRIMARY KEY,
state JSONB NOT NULL
)`

// PGBackend stores one row per user in Postgres. Saves upsert the full state
// of every user, so the semantics match the file backend: wholesale
// overwrite, last writer wins.
type PGBackend struct {
	db *sql.DB
}

func NewPGBackend(connStr string) (*PGBackend, error) {
	// connection string should look like postgresql://localhost:5432/helperbot?user=admn&password=passwd
	d, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}

	if err = d.Ping(); err != nil {
		return nil, err
	}

	if _, err = d.Exec(pgSchema); err != nil {
		return nil, errors.Wrap(err, "failed creating schema")
	}

	return &PGBackend{db: d}, nil
}

func (b *PGBackend) Load() (map[int64]*UserState, error) {
	rows, err := b.db.Query(`SELECT user_id, state FROM user_data`)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying user data")
	}
	defer rows.Close()

	users := make(map[int64]*UserState)
	for rows.Next() {
		var usr int64
		var raw []byte
		if err := rows.Scan(&usr, &raw); err != nil {
			return nil, errors.Wrap(err, "failed scanning user row")
		}

		var state UserState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, errors.Wrap(err, "failed unmarshalling user state")
		}
		users[usr] = &state
	}

	return users, errors.Wrap(rows.Err(), "failed reading user rows")
}

func (b *PGBackend) Save(users map[int64]*UserState) error {
	tx, err := b.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed starting transaction")
	}
	defer tx.Rollback()

	for usr, state := range users {
		raw, err := json.Marshal(state)
		if err != nil {
			return errors.Wrap(err, "failed marshalling user state")
		}

		if _, err := tx.Exec(`INSERT INTO user_data(user_id, state) VALUES($1, $2)
ON CONFLICT (user_id) DO UPDATE SET state=EXCLUDED.state`, usr, raw); err != nil {
			return errors.Wrap(err, "failed upserting user state")
		}
	}

	return errors.Wrap(tx.Commit(), "failed committing user data")
}
