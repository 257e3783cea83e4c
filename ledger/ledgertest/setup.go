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

// Package ledgertest provides ledgers with funded accounts for tests.
package ledgertest

import (
	"context"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/ledger"
)

// Mnemonic used for deriving the test accounts. It is the well known development mnemonic,
// hence the first account is 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266.
// DO NOT CHANGE IT, tests compare against the derived addresses.
const Mnemonic = "test test test test test test test test test test test junk"

// DefaultAccountBalance is the balance of each funded account in ether (same as ganache-cli).
const DefaultAccountBalance = 100

// LedgerSetup is a ledger with funded accounts derived from Mnemonic.
type LedgerSetup struct {
	Ledger *ledger.Ledger
	Accs   []common.Address
}

// NewLedgerSetup returns a ledger without persistence and n accounts, each funded
// with DefaultAccountBalance ether.
func NewLedgerSetup(t *testing.T, n int) *LedgerSetup {
	return NewLedgerSetupWithStore(t, n, nil)
}

// NewLedgerSetupWithStore is the same as NewLedgerSetup, but the ledger persists to the
// given store.
func NewLedgerSetupWithStore(t *testing.T, n int, store crowdfund.StateStore) *LedgerSetup {
	accs, err := ledger.NewGenesisAccounts(Mnemonic, n)
	require.NoError(t, err)

	l := ledger.New(store)
	for i := range accs {
		require.NoError(t, l.Fund(context.Background(), accs[i], Ether(DefaultAccountBalance)))
	}
	return &LedgerSetup{Ledger: l, Accs: accs}
}

// Ether returns the given amount of ether in wei.
func Ether(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), big.NewInt(params.Ether))
}

// NewRandomAddress generates a random address. It generates the address only as a byte array.
// Hence it does not generate any public or private keys corresponding to the address.
func NewRandomAddress(rnd *rand.Rand) common.Address {
	var a common.Address
	rnd.Read(a[:])
	return a
}
