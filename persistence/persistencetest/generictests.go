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

package persistencetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capaio/solidity-crowdfunding"
)

// Records used by the generic tests.
var (
	Factory = crowdfund.FactoryRecord{
		Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		DeployedCampaigns: []string{
			"0xa16E02E87b7454126E5E10d957A927A7F5B5d2be",
			"0xB7A5bd0345EF1Cc5E66bf61BdeC17D2461fBd968",
		},
	}
	Campaign1 = crowdfund.CampaignRecord{
		Address:             "0xa16E02E87b7454126E5E10d957A927A7F5B5d2be",
		Manager:             "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		MinimumContribution: "100",
		Approvers:           []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		Requests: []crowdfund.RequestRecord{
			{
				Description: "Buy batteries",
				Value:       "100",
				Recipient:   "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
				Complete:    true,
				Approvals:   []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
			},
			{
				Description: "Buy cables",
				Value:       "5000000000000000000",
				Recipient:   "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
				Approvals:   []string{},
			},
		},
	}
	Campaign2 = crowdfund.CampaignRecord{
		Address:             "0xB7A5bd0345EF1Cc5E66bf61BdeC17D2461fBd968",
		Manager:             "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		MinimumContribution: "1",
		Approvers:           []string{},
		Requests:            []crowdfund.RequestRecord{},
	}
	Account1 = crowdfund.AccountRecord{
		Address: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Balance: "100000000000000000000",
	}
	Account2 = crowdfund.AccountRecord{
		Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Balance: "99999999999999999900",
	}
)

// StoreCloner returns a new, empty state store.
type StoreCloner func(t *testing.T) crowdfund.StateStore

// GenericPutLoad runs the tests every state store implementation must pass.
func GenericPutLoad(t *testing.T, newStore StoreCloner) {
	ctx := context.Background()

	t.Run("Load_empty", func(t *testing.T) {
		s := newStore(t)
		snap, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Factory)
		assert.Empty(t, snap.Campaigns)
		assert.Empty(t, snap.Accounts)
	})

	t.Run("PutFactory_Load", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutFactory(ctx, crowdfund.FactoryRecord{
			Address:           Factory.Address,
			DeployedCampaigns: Factory.DeployedCampaigns[:1],
		}))
		require.NoError(t, s.PutFactory(ctx, Factory))

		snap, err := s.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap.Factory)
		assert.Equal(t, Factory, *snap.Factory)
	})

	t.Run("PutCampaign_Load", func(t *testing.T) {
		s := newStore(t)
		t.Run("happy", func(t *testing.T) {
			require.NoError(t, s.PutCampaign(ctx, Campaign1))
			require.NoError(t, s.PutCampaign(ctx, Campaign2))

			snap, err := s.Load(ctx)
			require.NoError(t, err)
			assertCampaigns(t, []crowdfund.CampaignRecord{Campaign1, Campaign2}, snap.Campaigns)
		})

		t.Run("replace", func(t *testing.T) {
			updated := Campaign2
			updated.Approvers = []string{Account1.Address}
			updated.Requests = []crowdfund.RequestRecord{{
				Description: "Pay rent",
				Value:       "1",
				Recipient:   Account2.Address,
				Approvals:   []string{Account1.Address},
			}}
			require.NoError(t, s.PutCampaign(ctx, updated))

			snap, err := s.Load(ctx)
			require.NoError(t, err)
			assertCampaigns(t, []crowdfund.CampaignRecord{Campaign1, updated}, snap.Campaigns)
		})
	})

	t.Run("PutAccounts_Load", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutAccounts(ctx, Account1))
		require.NoError(t, s.PutAccounts(ctx, Account2, crowdfund.AccountRecord{
			Address: Account1.Address,
			Balance: "0",
		}))

		snap, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []crowdfund.AccountRecord{
			{Address: Account1.Address, Balance: "0"},
			Account2,
		}, snap.Accounts)
	})

	t.Run("PutCampaignAccounts_Load", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutAccounts(ctx, Account1))
		require.NoError(t, s.PutCampaignAccounts(ctx, Campaign1, Account2, crowdfund.AccountRecord{
			Address: Account1.Address,
			Balance: "1",
		}))

		snap, err := s.Load(ctx)
		require.NoError(t, err)
		assertCampaigns(t, []crowdfund.CampaignRecord{Campaign1}, snap.Campaigns)
		assert.Equal(t, []crowdfund.AccountRecord{
			{Address: Account1.Address, Balance: "1"},
			Account2,
		}, snap.Accounts)
	})

	t.Run("Load_returns_copy", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutCampaign(ctx, Campaign1))
		snap, err := s.Load(ctx)
		require.NoError(t, err)
		snap.Campaigns[0].Approvers[0] = "modified"

		snap, err = s.Load(ctx)
		require.NoError(t, err)
		assertCampaigns(t, []crowdfund.CampaignRecord{Campaign1}, snap.Campaigns)
	})
}

// assertCampaigns compares campaign records, treating nil and empty lists as equal.
func assertCampaigns(t *testing.T, want, got []crowdfund.CampaignRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Address, got[i].Address)
		assert.Equal(t, want[i].Manager, got[i].Manager)
		assert.Equal(t, want[i].MinimumContribution, got[i].MinimumContribution)
		assert.ElementsMatch(t, want[i].Approvers, got[i].Approvers)
		require.Len(t, got[i].Requests, len(want[i].Requests))
		for j := range want[i].Requests {
			wantReq, gotReq := want[i].Requests[j], got[i].Requests[j]
			assert.Equal(t, wantReq.Description, gotReq.Description)
			assert.Equal(t, wantReq.Value, gotReq.Value)
			assert.Equal(t, wantReq.Recipient, gotReq.Recipient)
			assert.Equal(t, wantReq.Complete, gotReq.Complete)
			assert.ElementsMatch(t, wantReq.Approvals, gotReq.Approvals)
		}
	}
}
