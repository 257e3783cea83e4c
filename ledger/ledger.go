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

// Package ledger provides the account ledger on which campaigns hold and move funds.
// It plays the role of the blockchain: every account is an address with a balance in wei,
// and value only moves through Transfer, completely or not at all.
package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/log"
)

// Ledger is an in-memory account ledger. When a store is set, every balance change is
// persisted before it is applied.
type Ledger struct {
	log.Logger

	store crowdfund.StateStore

	mu       sync.RWMutex
	balances map[common.Address]*big.Int
	accounts []common.Address // In the order they were first seen.
}

// New returns an empty ledger. store may be nil, in which case nothing is persisted.
func New(store crowdfund.StateStore) *Ledger {
	return &Ledger{
		Logger:   log.NewLoggerWithField("component", "ledger"),
		store:    store,
		balances: make(map[common.Address]*big.Int),
	}
}

// Restore loads the given account records into the ledger. It does not persist them again.
func (l *Ledger) Restore(records []crowdfund.AccountRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range records {
		addr, err := crowdfund.ParseAddr("address", rec.Address)
		if err != nil {
			return errors.WithMessage(err, "restoring account")
		}
		bal, err := crowdfund.ParseWei("balance", rec.Balance)
		if err != nil {
			return errors.WithMessagef(err, "restoring account %s", rec.Address)
		}
		l.set(addr, bal)
	}
	return nil
}

// Balance returns the balance of the account. Unknown accounts have a zero balance.
func (l *Ledger) Balance(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balanceOf(addr))
}

// Accounts returns the addresses of all accounts in the order they were first credited.
func (l *Ledger) Accounts() []common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	accs := make([]common.Address, len(l.accounts))
	copy(accs, l.accounts)
	return accs
}

// Fund credits the account with the given amount out of thin air. It is used for funding
// the genesis accounts.
func (l *Ledger) Fund(ctx context.Context, addr common.Address, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	next := map[common.Address]*big.Int{addr: new(big.Int).Add(l.balanceOf(addr), amount)}
	return l.commitWith(ctx, nil, next, addr)
}

// Transfer implements crowdfund.Ledger.
func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	return l.TransferCommit(ctx, from, to, amount, nil)
}

// TransferCommit implements crowdfund.Ledger. If commit is nil, the balances are persisted
// to the store of the ledger, as in Transfer.
//
// The ledger stays locked while commit runs, so commit must not call back into the ledger.
func (l *Ledger) TransferCommit(ctx context.Context, from, to common.Address, amount *big.Int,
	commit crowdfund.CommitFunc) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBal := l.balanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return crowdfund.NewErrInsufficientBalance(from.Hex(), fromBal.String(), amount.String())
	}
	next := map[common.Address]*big.Int{from: new(big.Int).Sub(fromBal, amount)}
	toBal, ok := next[to]
	if !ok {
		toBal = l.balanceOf(to)
	}
	next[to] = new(big.Int).Add(toBal, amount)

	if err := l.commitWith(ctx, commit, next, from, to); err != nil {
		return err
	}
	l.Debugf("Transferred %s wei from %s to %s", amount, from.Hex(), to.Hex())
	return nil
}

// commitWith persists the new balances with commit (or the store of the ledger if commit is
// nil) and applies them. order lists every address in next and fixes the order in which
// records are persisted; duplicates are skipped.
func (l *Ledger) commitWith(ctx context.Context, commit crowdfund.CommitFunc, next map[common.Address]*big.Int,
	order ...common.Address) error {
	if commit == nil && l.store != nil {
		commit = func(ctx context.Context, recs []crowdfund.AccountRecord) error {
			return l.store.PutAccounts(ctx, recs...)
		}
	}
	if commit != nil {
		recs := make([]crowdfund.AccountRecord, 0, len(next))
		seen := make(map[common.Address]bool, len(next))
		for _, addr := range order {
			if seen[addr] {
				continue
			}
			seen[addr] = true
			recs = append(recs, crowdfund.AccountRecord{Address: addr.Hex(), Balance: next[addr].String()})
		}
		if err := commit(ctx, recs); err != nil {
			l.Error(err)
			if _, ok := crowdfund.CodeOf(err); ok {
				return err
			}
			return crowdfund.NewErrUnknownInternal(errors.WithMessage(err, "persisting accounts"))
		}
	}
	for _, addr := range order {
		l.set(addr, next[addr])
	}
	return nil
}

func (l *Ledger) balanceOf(addr common.Address) *big.Int {
	if bal, ok := l.balances[addr]; ok {
		return bal
	}
	return new(big.Int)
}

func (l *Ledger) set(addr common.Address, bal *big.Int) {
	if _, ok := l.balances[addr]; !ok {
		l.accounts = append(l.accounts, addr)
	}
	l.balances[addr] = bal
}

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		value := "<nil>"
		if amount != nil {
			value = amount.String()
		}
		return crowdfund.NewErrInvalidArgument("amount", value, "positive amount in wei", "invalid amount")
	}
	return nil
}
