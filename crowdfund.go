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

// Package crowdfund defines domain types and services for the crowdfunding node.
//
// A node hosts one campaign factory on a simulated account ledger. Every operation is invoked
// on behalf of an explicit caller identity and, where funds move, with an explicit value in wei.
package crowdfund

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Currency parses and prints amounts of a currency. Amounts are always handled in the
// base unit (wei for ETH) inside the node.
type Currency interface {
	Parse(string) (*big.Int, error)
	Print(*big.Int) string
}

// Ledger holds the balances of all accounts known to the node and moves funds between them.
type Ledger interface {
	Balance(addr common.Address) *big.Int

	// Transfer moves amount from one account to another. It either moves the complete
	// amount or nothing.
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error

	// TransferCommit is like Transfer, but hands the new balances to commit instead of
	// persisting them itself. The transfer is applied only if commit succeeds, which lets
	// the caller persist the balances together with its own state.
	TransferCommit(ctx context.Context, from, to common.Address, amount *big.Int, commit CommitFunc) error
}

// CommitFunc persists the given account records, usually together with other state, in one
// store operation.
type CommitFunc func(ctx context.Context, accs []AccountRecord) error

// StateStore persists the state of the factory, campaigns and ledger accounts.
//
// Each put replaces the stored record with the same address. Implementations must be safe
// for concurrent use.
type StateStore interface {
	PutFactory(ctx context.Context, f FactoryRecord) error
	PutCampaign(ctx context.Context, c CampaignRecord) error
	PutAccounts(ctx context.Context, accs ...AccountRecord) error

	// PutCampaignAccounts puts the campaign and the accounts in one operation: either all
	// records are stored or none.
	PutCampaignAccounts(ctx context.Context, c CampaignRecord, accs ...AccountRecord) error

	// Load returns everything persisted so far. An empty store returns an empty snapshot.
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}

type (
	// FactoryRecord is the persisted form of a campaign factory.
	FactoryRecord struct {
		Address           string   `yaml:"address"`
		DeployedCampaigns []string `yaml:"deployedCampaigns"`
	}

	// CampaignRecord is the persisted form of a campaign. Approvers are kept in the order
	// they joined, requests in the order they were created.
	CampaignRecord struct {
		Address             string          `yaml:"address"`
		Manager             string          `yaml:"manager"`
		MinimumContribution string          `yaml:"minimumContribution"`
		Approvers           []string        `yaml:"approvers"`
		Requests            []RequestRecord `yaml:"requests"`
	}

	// RequestRecord is the persisted form of a spending request.
	RequestRecord struct {
		Description string   `yaml:"description"`
		Value       string   `yaml:"value"`
		Recipient   string   `yaml:"recipient"`
		Complete    bool     `yaml:"complete"`
		Approvals   []string `yaml:"approvals"`
	}

	// AccountRecord is the persisted form of a ledger account.
	AccountRecord struct {
		Address string `yaml:"address"`
		Balance string `yaml:"balance"`
	}

	// Snapshot is the complete persisted state of a node.
	Snapshot struct {
		Factory   *FactoryRecord   `yaml:"factory,omitempty"`
		Campaigns []CampaignRecord `yaml:"campaigns"`
		Accounts  []AccountRecord  `yaml:"accounts"`
	}
)

// CampaignSummary bundles the values of a campaign that clients usually show together.
type CampaignSummary struct {
	Address             common.Address
	Manager             common.Address
	MinimumContribution *big.Int
	Balance             *big.Int
	RequestsCount       int
	ApproversCount      int
}

// Request is a read-only view of a spending request.
type Request struct {
	Description   string
	Value         *big.Int
	Recipient     common.Address
	Complete      bool
	ApprovalCount int
}

// NodeConfig represents the configuration parameters for the node.
type NodeConfig struct {
	LogFile  string `mapstructure:"logfile" yaml:"logfile"`
	LogLevel string `mapstructure:"loglevel" yaml:"loglevel"`

	RESTAddr string `mapstructure:"restaddr" yaml:"restaddr"` // Address at which the REST API is served.

	StoreType string `mapstructure:"storetype" yaml:"storetype"` // One of memory, yaml, sqlite.
	StorePath string `mapstructure:"storepath" yaml:"storepath"`

	FactoryAddr string `mapstructure:"factoryaddr" yaml:"factoryaddr"`

	// Genesis accounts are derived from the mnemonic the same way ganache-cli does and are
	// funded only when the store holds no accounts yet.
	Mnemonic       string `mapstructure:"mnemonic" yaml:"mnemonic"`
	Accounts       int    `mapstructure:"accounts" yaml:"accounts"`
	AccountBalance string `mapstructure:"accountbalance" yaml:"accountbalance"` // In ETH.
}

// NodeAPI represents the APIs that can be accessed in the context of a crowdfunding node.
type NodeAPI interface {
	Time() int64
	GetConfig() NodeConfig

	CreateCampaign(ctx context.Context, caller common.Address, minimumContribution *big.Int) (common.Address, error)
	GetDeployedCampaigns() []common.Address
	GetSummary(campaign common.Address) (CampaignSummary, error)

	Contribute(ctx context.Context, campaign, caller common.Address, value *big.Int) error
	IsApprover(campaign, addr common.Address) (bool, error)

	CreateRequest(ctx context.Context, campaign, caller common.Address, description string, value *big.Int,
		recipient common.Address) (int, error)
	GetRequest(campaign common.Address, index int) (Request, error)
	GetRequestsCount(campaign common.Address) (int, error)
	ApproveRequest(ctx context.Context, campaign, caller common.Address, index int) error
	FinalizeRequest(ctx context.Context, campaign, caller common.Address, index int) error

	GetAccounts() []common.Address
	GetBalance(addr common.Address) *big.Int
}
