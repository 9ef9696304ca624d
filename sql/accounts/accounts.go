// Package accounts reads and writes per-token account balances, the backend
// of the fee-payer solvency check.
package accounts

import (
	"fmt"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/sql"
)

// Balance returns the committed balance of address for the given token.
// Unknown accounts have a zero balance.
func Balance(db sql.Executor, token, address types.Address) (uint64, error) {
	var balance uint64
	_, err := db.Exec("select balance from accounts where token = ?1 and address = ?2;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, token.Bytes())
			stmt.BindBytes(2, address.Bytes())
		},
		func(stmt *sql.Statement) bool {
			balance = uint64(stmt.ColumnInt64(0))
			return false
		},
	)
	if err != nil {
		return 0, fmt.Errorf("get balance %v/%v: %w", token, address, err)
	}
	return balance, nil
}

// Update sets the balance of address for the given token.
func Update(db sql.Executor, token, address types.Address, balance uint64) error {
	_, err := db.Exec(`insert into accounts (token, address, balance) values (?1, ?2, ?3)
		on conflict (token, address) do update set balance = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, token.Bytes())
			stmt.BindBytes(2, address.Bytes())
			stmt.BindInt64(3, int64(balance))
		}, nil,
	)
	if err != nil {
		return fmt.Errorf("update balance %v/%v: %w", token, address, err)
	}
	return nil
}

// Has reports whether the account is known for the given token.
func Has(db sql.Executor, token, address types.Address) (bool, error) {
	rows, err := db.Exec("select 1 from accounts where token = ?1 and address = ?2;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, token.Bytes())
			stmt.BindBytes(2, address.Bytes())
		}, nil,
	)
	if err != nil {
		return false, fmt.Errorf("has account %v/%v: %w", token, address, err)
	}
	return rows > 0, nil
}
