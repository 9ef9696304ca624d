package sql

import (
	"context"
	"fmt"

	"github.com/go-llsqlite/crawshaw/sqlitex"
)

// schema is the committed-state layout read during proposal validation.
//
// accounts keeps one balance row per (token, address). params is a single-row
// table of protocol parameters. tx_queue is the decryption-order commitment
// carried from the previous block: position is assigned on insert and read
// back in order.
const schema = `
CREATE TABLE accounts
(
    token   BLOB NOT NULL,
    address BLOB NOT NULL,
    balance INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (token, address)
);

CREATE TABLE params
(
    id                INTEGER PRIMARY KEY CHECK (id = 1),
    native_token      BLOB NOT NULL,
    wrapper_fee       INTEGER NOT NULL DEFAULT 0,
    pow_difficulty    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE tx_queue
(
    position INTEGER PRIMARY KEY AUTOINCREMENT,
    entry    BLOB NOT NULL
);
`

func applySchema(db *Database) error {
	conn := db.getConn(context.Background())
	if conn == nil {
		return ErrNoConnection
	}
	defer db.pool.Put(conn)
	if err := sqlitex.ExecScript(conn, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
