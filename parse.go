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

package crowdfund

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddr parses a hex encoded address (with or without 0x prefix).
// The returned error is an ErrInvalidArgument API error with the given argument name.
func ParseAddr(name, addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, NewErrInvalidArgument(name, addr, "hex encoded 20 byte address",
			"invalid address")
	}
	return common.HexToAddress(addr), nil
}

// ParseWei parses a decimal string representing an amount in wei. Negative amounts are rejected.
// The returned error is an ErrInvalidArgument API error with the given argument name.
func ParseWei(name, amount string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok || v.Sign() < 0 {
		return nil, NewErrInvalidArgument(name, amount, "non-negative integer amount in wei",
			"invalid amount")
	}
	return v, nil
}
