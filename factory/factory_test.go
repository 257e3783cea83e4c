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

package factory_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/factory"
	"github.com/capaio/solidity-crowdfunding/ledger/ledgertest"
	"github.com/capaio/solidity-crowdfunding/persistence/persistencetest"
)

var (
	ctx         = context.Background()
	factoryAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

func Test_Factory_CreateCampaign(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		ls := ledgertest.NewLedgerSetup(t, 2)
		f := factory.New(factoryAddr, ls.Ledger, nil)

		c0, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
		require.NoError(t, err)
		c1, err := f.CreateCampaign(ctx, ls.Accs[1], big.NewInt(1))
		require.NoError(t, err)

		assert.Equal(t, crypto.CreateAddress(factoryAddr, 0), c0.Address())
		assert.Equal(t, crypto.CreateAddress(factoryAddr, 1), c1.Address())
		assert.Equal(t, ls.Accs[0], c0.Manager())
		assert.Equal(t, ls.Accs[1], c1.Manager())
		assert.Equal(t, []common.Address{c0.Address(), c1.Address()}, f.DeployedCampaigns())

		got, err := f.Campaign(c1.Address())
		require.NoError(t, err)
		assert.Same(t, c1, got)
		got, err = f.CampaignAt(0)
		require.NoError(t, err)
		assert.Same(t, c0, got)
	})

	t.Run("invalid_minimum_contribution", func(t *testing.T) {
		ls := ledgertest.NewLedgerSetup(t, 1)
		f := factory.New(factoryAddr, ls.Ledger, nil)

		_, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(0))
		require.Error(t, err)
		code, _ := crowdfund.CodeOf(err)
		assert.Equal(t, crowdfund.ErrInvalidArgument, code)
		assert.Empty(t, f.DeployedCampaigns())
	})

	t.Run("store_error", func(t *testing.T) {
		store := persistencetest.NewMemStore()
		ls := ledgertest.NewLedgerSetup(t, 1)
		f := factory.New(factoryAddr, ls.Ledger, store)
		store.SetErr(errors.New("disk full"))

		_, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
		code, _ := crowdfund.CodeOf(err)
		assert.Equal(t, crowdfund.ErrUnknownInternal, code)
		assert.Empty(t, f.DeployedCampaigns())

		store.SetErr(nil)
		c, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress(factoryAddr, 0), c.Address())
	})

	t.Run("deployed_campaigns_is_a_copy", func(t *testing.T) {
		ls := ledgertest.NewLedgerSetup(t, 1)
		f := factory.New(factoryAddr, ls.Ledger, nil)
		_, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
		require.NoError(t, err)

		deployed := f.DeployedCampaigns()
		deployed[0] = common.Address{}
		assert.NotEqual(t, common.Address{}, f.DeployedCampaigns()[0])
	})
}

func Test_Factory_Lookup_Errors(t *testing.T) {
	ls := ledgertest.NewLedgerSetup(t, 1)
	f := factory.New(factoryAddr, ls.Ledger, nil)
	_, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
	require.NoError(t, err)

	_, err = f.Campaign(common.HexToAddress("0x1"))
	code, _ := crowdfund.CodeOf(err)
	assert.Equal(t, crowdfund.ErrResourceNotFound, code)

	for _, index := range []int{-1, 1} {
		_, err = f.CampaignAt(index)
		code, _ = crowdfund.CodeOf(err)
		assert.Equal(t, crowdfund.ErrOutOfRange, code)
	}
}

func Test_Factory_Restore(t *testing.T) {
	store := persistencetest.NewMemStore()
	ls := ledgertest.NewLedgerSetup(t, 2)
	f := factory.New(factoryAddr, ls.Ledger, store)

	c0, err := f.CreateCampaign(ctx, ls.Accs[0], big.NewInt(100))
	require.NoError(t, err)
	require.NoError(t, c0.Contribute(ctx, ls.Accs[1], big.NewInt(150)))
	_, err = c0.CreateRequest(ctx, ls.Accs[0], "A description", big.NewInt(100), ls.Accs[1])
	require.NoError(t, err)
	require.NoError(t, c0.ApproveRequest(ctx, ls.Accs[1], 0))
	_, err = f.CreateCampaign(ctx, ls.Accs[1], big.NewInt(5))
	require.NoError(t, err)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.Record(), *snap.Factory)

	t.Run("happy", func(t *testing.T) {
		restored := factory.New(factoryAddr, ls.Ledger, store)
		require.NoError(t, restored.Restore(snap))

		assert.Equal(t, f.DeployedCampaigns(), restored.DeployedCampaigns())
		for _, addr := range f.DeployedCampaigns() {
			want, err := f.Campaign(addr)
			require.NoError(t, err)
			got, err := restored.Campaign(addr)
			require.NoError(t, err)
			assert.Equal(t, want.Summary(), got.Summary())
			assert.Equal(t, want.Record(), got.Record())
		}

		c, err := restored.CreateCampaign(ctx, ls.Accs[0], big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress(factoryAddr, 2), c.Address())
	})

	t.Run("empty_snapshot", func(t *testing.T) {
		restored := factory.New(factoryAddr, ls.Ledger, nil)
		require.NoError(t, restored.Restore(crowdfund.Snapshot{}))
		assert.Empty(t, restored.DeployedCampaigns())
	})

	t.Run("other_factory", func(t *testing.T) {
		restored := factory.New(common.HexToAddress("0x1"), ls.Ledger, nil)
		err := restored.Restore(snap)
		code, _ := crowdfund.CodeOf(err)
		assert.Equal(t, crowdfund.ErrInvalidConfig, code)
	})

	t.Run("missing_campaign_record", func(t *testing.T) {
		restored := factory.New(factoryAddr, ls.Ledger, nil)
		broken := snap
		broken.Campaigns = snap.Campaigns[:1]
		assert.Error(t, restored.Restore(broken))
		assert.Empty(t, restored.DeployedCampaigns())
	})
}
