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

package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	"github.com/pkg/errors"
)

// DefaultHDPath is the root path used for deriving the genesis accounts. It is the same path
// used by ganache-cli, so that the same mnemonic yields the same accounts in both.
const DefaultHDPath = "m/44'/60'/0'/0/"

// mnemonicBits is the entropy used for generating new mnemonics (12 words).
const mnemonicBits = 128

// NewMnemonic returns a new random BIP-39 mnemonic.
func NewMnemonic() (string, error) {
	mnemonic, err := hdwallet.NewMnemonic(mnemonicBits)
	return mnemonic, errors.Wrap(err, "generating mnemonic")
}

// NewGenesisAccounts derives the addresses of the first n accounts for the given mnemonic.
// Only addresses are returned; the keys are not retained.
func NewGenesisAccounts(mnemonic string, n int) ([]common.Address, error) {
	if n < 0 {
		return nil, errors.Errorf("number of accounts should not be negative, got %d", n)
	}
	w, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "initializing hd wallet")
	}

	addrs := make([]common.Address, n)
	for i := 0; i < n; i++ {
		path, err := hdwallet.ParseDerivationPath(fmt.Sprintf("%s%d", DefaultHDPath, i))
		if err != nil {
			return nil, errors.Wrap(err, "parsing derivation path")
		}
		acc, err := w.Derive(path, false)
		if err != nil {
			return nil, errors.Wrapf(err, "deriving account %d", i)
		}
		addrs[i] = acc.Address
	}
	return addrs, nil
}
