// Package params stores the protocol parameters consulted during admission
// control: the native fee token, the required wrapper fee and the testnet
// proof-of-work difficulty.
package params

import (
	"fmt"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/sql"
)

// Params are the protocol parameters of the chain.
type Params struct {
	// NativeToken is the token wrapper fees are charged in.
	NativeToken types.Address
	// WrapperFee is the fee required to admit a wrapper transaction.
	WrapperFee uint64
	// PowDifficulty is the number of leading zero bits a proof-of-work
	// solution must reach to bypass the fee on non-mainnet networks.
	PowDifficulty uint8
}

// Set writes the protocol parameters. There is exactly one row; writing
// replaces it.
func Set(db sql.Executor, p Params) error {
	_, err := db.Exec(`insert into params (id, native_token, wrapper_fee, pow_difficulty)
		values (1, ?1, ?2, ?3)
		on conflict (id) do update set native_token = ?1, wrapper_fee = ?2, pow_difficulty = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, p.NativeToken.Bytes())
			stmt.BindInt64(2, int64(p.WrapperFee))
			stmt.BindInt64(3, int64(p.PowDifficulty))
		}, nil,
	)
	if err != nil {
		return fmt.Errorf("set params: %w", err)
	}
	return nil
}

// Get reads the protocol parameters. Returns sql.ErrNotFound if the chain
// was never initialized.
func Get(db sql.Executor) (Params, error) {
	var (
		p     Params
		found bool
	)
	_, err := db.Exec("select native_token, wrapper_fee, pow_difficulty from params where id = 1;",
		nil,
		func(stmt *sql.Statement) bool {
			stmt.ColumnBytes(0, p.NativeToken[:])
			p.WrapperFee = uint64(stmt.ColumnInt64(1))
			p.PowDifficulty = uint8(stmt.ColumnInt64(2))
			found = true
			return false
		},
	)
	if err != nil {
		return Params{}, fmt.Errorf("get params: %w", err)
	}
	if !found {
		return Params{}, fmt.Errorf("get params: %w", sql.ErrNotFound)
	}
	return p, nil
}
