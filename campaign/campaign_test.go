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

package campaign_test

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/campaign"
	"github.com/capaio/solidity-crowdfunding/ledger/ledgertest"
	"github.com/capaio/solidity-crowdfunding/persistence/persistencetest"
)

var ctx = context.Background()

// setup holds a campaign with minimum contribution of 100 wei, managed by accs[0],
// on a ledger with funded accs. The campaign and the ledger persist to store.
type setup struct {
	*ledgertest.LedgerSetup
	campaign *campaign.Campaign
	addr     common.Address
	store    *persistencetest.MemStore
}

func newSetup(t *testing.T, cntAccs int) *setup {
	store := persistencetest.NewMemStore()
	ls := ledgertest.NewLedgerSetupWithStore(t, cntAccs, store)
	addr := ledgertest.NewRandomAddress(rand.New(rand.NewSource(1729)))
	c, err := campaign.New(addr, ls.Accs[0], big.NewInt(100), ls.Ledger, store)
	require.NoError(t, err)
	return &setup{LedgerSetup: ls, campaign: c, addr: addr, store: store}
}

func requireCode(t *testing.T, want crowdfund.ErrorCode, err error) {
	t.Helper()
	require.Error(t, err)
	code, ok := crowdfund.CodeOf(err)
	require.Truef(t, ok, "not an api error: %v", err)
	assert.Equal(t, want, code)
}

func Test_New(t *testing.T) {
	ls := ledgertest.NewLedgerSetup(t, 1)
	addr := common.HexToAddress("0x1")

	t.Run("happy", func(t *testing.T) {
		c, err := campaign.New(addr, ls.Accs[0], big.NewInt(100), ls.Ledger, nil)
		require.NoError(t, err)
		assert.Equal(t, ls.Accs[0], c.Manager())
		assert.Equal(t, addr, c.Address())
		assert.Equal(t, 0, big.NewInt(100).Cmp(c.MinimumContribution()))
		assert.Zero(t, c.ApproversCount())
		assert.Zero(t, c.RequestsCount())
	})

	for _, minimum := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		_, err := campaign.New(addr, ls.Accs[0], minimum, ls.Ledger, nil)
		requireCode(t, crowdfund.ErrInvalidArgument, err)
	}
}

func Test_Campaign_Contribute(t *testing.T) {
	t.Run("happy_marks_contributor_as_approver", func(t *testing.T) {
		s := newSetup(t, 2)
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200)))

		assert.True(t, s.campaign.IsApprover(s.Accs[1]))
		assert.False(t, s.campaign.IsApprover(s.Accs[0]))
		assert.Equal(t, 1, s.campaign.ApproversCount())
		assert.Equal(t, 0, big.NewInt(200).Cmp(s.campaign.Balance()))
	})

	t.Run("happy_exact_minimum", func(t *testing.T) {
		s := newSetup(t, 2)
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(100)))
		assert.True(t, s.campaign.IsApprover(s.Accs[1]))
	})

	t.Run("happy_repeated_contribution_counts_once", func(t *testing.T) {
		s := newSetup(t, 2)
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200)))
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(300)))

		assert.Equal(t, 1, s.campaign.ApproversCount())
		assert.Equal(t, 0, big.NewInt(500).Cmp(s.campaign.Balance()))
		assert.Equal(t, []string{s.Accs[1].Hex()}, s.campaign.Record().Approvers)
	})

	t.Run("below_minimum", func(t *testing.T) {
		s := newSetup(t, 2)
		err := s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(5))
		requireCode(t, crowdfund.ErrInsufficientContribution, err)

		assert.False(t, s.campaign.IsApprover(s.Accs[1]))
		assert.Zero(t, s.campaign.ApproversCount())
		assert.Zero(t, s.campaign.Balance().Sign())
		assert.Equal(t, 0, ledgertest.Ether(100).Cmp(s.Ledger.Balance(s.Accs[1])))
	})

	t.Run("nil_value", func(t *testing.T) {
		s := newSetup(t, 2)
		requireCode(t, crowdfund.ErrInsufficientContribution, s.campaign.Contribute(ctx, s.Accs[1], nil))
	})

	t.Run("caller_cannot_pay", func(t *testing.T) {
		s := newSetup(t, 2)
		err := s.campaign.Contribute(ctx, s.Accs[1], ledgertest.Ether(101))
		requireCode(t, crowdfund.ErrInsufficientBalance, err)
		assert.False(t, s.campaign.IsApprover(s.Accs[1]))
		assert.Zero(t, s.campaign.Balance().Sign())
	})

	t.Run("store_error", func(t *testing.T) {
		s := newSetup(t, 2)
		s.store.SetErr(errors.New("disk full"))
		err := s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200))
		requireCode(t, crowdfund.ErrUnknownInternal, err)

		assert.False(t, s.campaign.IsApprover(s.Accs[1]))
		assert.Zero(t, s.campaign.Balance().Sign())
		assert.Equal(t, 0, ledgertest.Ether(100).Cmp(s.Ledger.Balance(s.Accs[1])))
	})
}

func Test_Campaign_CreateRequest(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		s := newSetup(t, 2)
		index, err := s.campaign.CreateRequest(ctx, s.Accs[0], "Buy stuff", big.NewInt(100), s.Accs[1])
		require.NoError(t, err)
		assert.Zero(t, index)

		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.Equal(t, "Buy stuff", req.Description)
		assert.Equal(t, 0, big.NewInt(100).Cmp(req.Value))
		assert.Equal(t, s.Accs[1], req.Recipient)
		assert.False(t, req.Complete)
		assert.Zero(t, req.ApprovalCount)

		index, err = s.campaign.CreateRequest(ctx, s.Accs[0], "Buy more stuff", big.NewInt(1), s.Accs[1])
		require.NoError(t, err)
		assert.Equal(t, 1, index)
		assert.Equal(t, 2, s.campaign.RequestsCount())
	})

	t.Run("not_manager", func(t *testing.T) {
		s := newSetup(t, 3)
		_, err := s.campaign.CreateRequest(ctx, s.Accs[2], "A description", ledgertest.Ether(5), s.Accs[1])
		requireCode(t, crowdfund.ErrUnauthorized, err)
		assert.Zero(t, s.campaign.RequestsCount())
	})

	t.Run("negative_value", func(t *testing.T) {
		s := newSetup(t, 2)
		_, err := s.campaign.CreateRequest(ctx, s.Accs[0], "A description", big.NewInt(-1), s.Accs[1])
		requireCode(t, crowdfund.ErrInvalidArgument, err)
		assert.Zero(t, s.campaign.RequestsCount())
	})

	t.Run("store_error", func(t *testing.T) {
		s := newSetup(t, 2)
		s.store.SetErr(errors.New("disk full"))
		_, err := s.campaign.CreateRequest(ctx, s.Accs[0], "A description", big.NewInt(1), s.Accs[1])
		requireCode(t, crowdfund.ErrUnknownInternal, err)
		assert.Zero(t, s.campaign.RequestsCount())
	})
}

func Test_Campaign_ApproveRequest(t *testing.T) {
	newSetupWithRequest := func(t *testing.T) *setup {
		s := newSetup(t, 3)
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200)))
		_, err := s.campaign.CreateRequest(ctx, s.Accs[0], "A description", big.NewInt(100), s.Accs[2])
		require.NoError(t, err)
		return s
	}

	t.Run("happy", func(t *testing.T) {
		s := newSetupWithRequest(t)
		require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))

		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.Equal(t, 1, req.ApprovalCount)
		approved, err := s.campaign.HasApproved(0, s.Accs[1])
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("not_approver", func(t *testing.T) {
		s := newSetupWithRequest(t)
		requireCode(t, crowdfund.ErrUnauthorized, s.campaign.ApproveRequest(ctx, s.Accs[2], 0))

		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.Zero(t, req.ApprovalCount)
	})

	t.Run("duplicate_approval", func(t *testing.T) {
		s := newSetupWithRequest(t)
		require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))
		requireCode(t, crowdfund.ErrDuplicateApproval, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))

		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.Equal(t, 1, req.ApprovalCount)
	})

	t.Run("out_of_range", func(t *testing.T) {
		s := newSetupWithRequest(t)
		requireCode(t, crowdfund.ErrOutOfRange, s.campaign.ApproveRequest(ctx, s.Accs[1], 1))
		requireCode(t, crowdfund.ErrOutOfRange, s.campaign.ApproveRequest(ctx, s.Accs[1], -1))
	})

	t.Run("store_error", func(t *testing.T) {
		s := newSetupWithRequest(t)
		s.store.SetErr(errors.New("disk full"))
		requireCode(t, crowdfund.ErrUnknownInternal, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))

		s.store.SetErr(nil)
		require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))
	})
}

func Test_Campaign_FinalizeRequest(t *testing.T) {
	t.Run("happy_processes_request", func(t *testing.T) {
		s := newSetup(t, 2)
		manager, recipient := s.Accs[0], s.Accs[1]
		startingBalance := s.Ledger.Balance(recipient)

		require.NoError(t, s.campaign.Contribute(ctx, manager, ledgertest.Ether(10)))
		_, err := s.campaign.CreateRequest(ctx, manager, "A description", ledgertest.Ether(5), recipient)
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))
		require.NoError(t, s.campaign.FinalizeRequest(ctx, manager, 0))

		wantBalance := new(big.Int).Add(startingBalance, ledgertest.Ether(5))
		assert.Equal(t, 0, wantBalance.Cmp(s.Ledger.Balance(recipient)))
		assert.Equal(t, 0, ledgertest.Ether(5).Cmp(s.campaign.Balance()))
		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.True(t, req.Complete)
	})

	t.Run("already_finalized_does_not_transfer_again", func(t *testing.T) {
		s := newSetup(t, 2)
		manager, recipient := s.Accs[0], s.Accs[1]
		require.NoError(t, s.campaign.Contribute(ctx, manager, ledgertest.Ether(10)))
		_, err := s.campaign.CreateRequest(ctx, manager, "A description", ledgertest.Ether(5), recipient)
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))
		require.NoError(t, s.campaign.FinalizeRequest(ctx, manager, 0))
		balanceAfterFirst := s.Ledger.Balance(recipient)

		requireCode(t, crowdfund.ErrAlreadyFinalized, s.campaign.FinalizeRequest(ctx, manager, 0))
		assert.Equal(t, 0, balanceAfterFirst.Cmp(s.Ledger.Balance(recipient)))
		assert.Equal(t, 0, ledgertest.Ether(5).Cmp(s.campaign.Balance()))
	})

	t.Run("not_manager", func(t *testing.T) {
		s := newSetup(t, 2)
		require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200)))
		_, err := s.campaign.CreateRequest(ctx, s.Accs[0], "A description", big.NewInt(100), s.Accs[1])
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))

		requireCode(t, crowdfund.ErrUnauthorized, s.campaign.FinalizeRequest(ctx, s.Accs[1], 0))
		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.False(t, req.Complete)
	})

	t.Run("out_of_range", func(t *testing.T) {
		s := newSetup(t, 1)
		requireCode(t, crowdfund.ErrOutOfRange, s.campaign.FinalizeRequest(ctx, s.Accs[0], 0))
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		s := newSetup(t, 2)
		manager := s.Accs[0]
		require.NoError(t, s.campaign.Contribute(ctx, manager, big.NewInt(100)))
		_, err := s.campaign.CreateRequest(ctx, manager, "A description", big.NewInt(101), s.Accs[1])
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))

		requireCode(t, crowdfund.ErrInsufficientFunds, s.campaign.FinalizeRequest(ctx, manager, 0))
		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.False(t, req.Complete)
		assert.Equal(t, 0, big.NewInt(100).Cmp(s.campaign.Balance()))
	})

	t.Run("store_error", func(t *testing.T) {
		s := newSetup(t, 2)
		manager, recipient := s.Accs[0], s.Accs[1]
		require.NoError(t, s.campaign.Contribute(ctx, manager, big.NewInt(100)))
		_, err := s.campaign.CreateRequest(ctx, manager, "A description", big.NewInt(100), recipient)
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))
		recipientBalance := s.Ledger.Balance(recipient)

		s.store.SetErr(errors.New("disk full"))
		requireCode(t, crowdfund.ErrUnknownInternal, s.campaign.FinalizeRequest(ctx, manager, 0))
		req, err := s.campaign.Request(0)
		require.NoError(t, err)
		assert.False(t, req.Complete)
		assert.Equal(t, 0, recipientBalance.Cmp(s.Ledger.Balance(recipient)))
	})

	t.Run("zero_value_request", func(t *testing.T) {
		s := newSetup(t, 2)
		manager := s.Accs[0]
		require.NoError(t, s.campaign.Contribute(ctx, manager, big.NewInt(100)))
		_, err := s.campaign.CreateRequest(ctx, manager, "Nothing", big.NewInt(0), s.Accs[1])
		require.NoError(t, err)
		require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))
		require.NoError(t, s.campaign.FinalizeRequest(ctx, manager, 0))
		assert.Equal(t, 0, big.NewInt(100).Cmp(s.campaign.Balance()))
	})
}

func Test_Campaign_AccountsStoreError(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, s *setup)
		act     func(s *setup) error
	}{
		{
			name:    "contribute_new_approver",
			prepare: func(t *testing.T, s *setup) {},
			act: func(s *setup) error {
				return s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200))
			},
		},
		{
			name: "contribute_existing_approver",
			prepare: func(t *testing.T, s *setup) {
				require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(200)))
			},
			act: func(s *setup) error {
				return s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(300))
			},
		},
		{
			name: "finalize",
			prepare: func(t *testing.T, s *setup) {
				manager := s.Accs[0]
				require.NoError(t, s.campaign.Contribute(ctx, manager, big.NewInt(1000)))
				_, err := s.campaign.CreateRequest(ctx, manager, "A description", big.NewInt(500), s.Accs[1])
				require.NoError(t, err)
				require.NoError(t, s.campaign.ApproveRequest(ctx, manager, 0))
			},
			act: func(s *setup) error {
				return s.campaign.FinalizeRequest(ctx, s.Accs[0], 0)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := newSetup(t, 2)
			tc.prepare(t, s)
			wantSnap, err := s.store.Load(ctx)
			require.NoError(t, err)
			wantRecord := s.campaign.Record()
			wantBalances := []*big.Int{
				s.campaign.Balance(), s.Ledger.Balance(s.Accs[0]), s.Ledger.Balance(s.Accs[1]),
			}

			s.store.SetAccountsErr(errors.New("disk gone"))
			requireCode(t, crowdfund.ErrUnknownInternal, tc.act(s))

			gotSnap, err := s.store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, wantSnap, gotSnap)
			assert.Equal(t, wantRecord, s.campaign.Record())
			gotBalances := []*big.Int{
				s.campaign.Balance(), s.Ledger.Balance(s.Accs[0]), s.Ledger.Balance(s.Accs[1]),
			}
			for i := range wantBalances {
				assert.Equal(t, 0, wantBalances[i].Cmp(gotBalances[i]))
			}

			s.store.SetAccountsErr(nil)
			require.NoError(t, tc.act(s))
			gotSnap, err = s.store.Load(ctx)
			require.NoError(t, err)
			require.Len(t, gotSnap.Campaigns, 1)
			assert.Equal(t, s.campaign.Record(), gotSnap.Campaigns[0])
		})
	}
}

func Test_Campaign_FinalizeRequest_Majority(t *testing.T) {
	tests := []struct {
		approvers   int
		approvals   int
		wantSuccess bool
	}{
		{approvers: 0, approvals: 0, wantSuccess: false},
		{approvers: 1, approvals: 0, wantSuccess: false},
		{approvers: 1, approvals: 1, wantSuccess: true},
		{approvers: 2, approvals: 1, wantSuccess: false},
		{approvers: 2, approvals: 2, wantSuccess: true},
		{approvers: 3, approvals: 1, wantSuccess: false},
		{approvers: 3, approvals: 2, wantSuccess: true},
		{approvers: 4, approvals: 2, wantSuccess: false},
		{approvers: 4, approvals: 3, wantSuccess: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%d_of_%d", tt.approvals, tt.approvers), func(t *testing.T) {
			s := newSetup(t, 5)
			manager := s.Accs[0]
			approvers := s.Accs[1 : 1+tt.approvers]
			for _, a := range approvers {
				require.NoError(t, s.campaign.Contribute(ctx, a, big.NewInt(100)))
			}
			_, err := s.campaign.CreateRequest(ctx, manager, "A description", big.NewInt(0), manager)
			require.NoError(t, err)
			for _, a := range approvers[:tt.approvals] {
				require.NoError(t, s.campaign.ApproveRequest(ctx, a, 0))
			}

			err = s.campaign.FinalizeRequest(ctx, manager, 0)
			if tt.wantSuccess {
				assert.NoError(t, err)
			} else {
				requireCode(t, crowdfund.ErrMajorityNotReached, err)
			}
			req, err := s.campaign.Request(0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, req.Complete)
		})
	}
}

func Test_Campaign_Record_FromRecord(t *testing.T) {
	s := newSetup(t, 3)
	manager := s.Accs[0]
	require.NoError(t, s.campaign.Contribute(ctx, s.Accs[1], big.NewInt(100)))
	require.NoError(t, s.campaign.Contribute(ctx, s.Accs[2], big.NewInt(100)))
	_, err := s.campaign.CreateRequest(ctx, manager, "First", big.NewInt(50), s.Accs[2])
	require.NoError(t, err)
	_, err = s.campaign.CreateRequest(ctx, manager, "Second", big.NewInt(50), s.Accs[1])
	require.NoError(t, err)
	require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[1], 0))
	require.NoError(t, s.campaign.ApproveRequest(ctx, s.Accs[2], 0))
	require.NoError(t, s.campaign.FinalizeRequest(ctx, manager, 0))

	rec := s.campaign.Record()
	snap, err := s.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Campaigns, 1)
	assert.Equal(t, rec, snap.Campaigns[0])

	restored, err := campaign.FromRecord(rec, s.Ledger, nil)
	require.NoError(t, err)
	assert.Equal(t, s.campaign.Summary(), restored.Summary())
	assert.Equal(t, rec, restored.Record())
	for i := 0; i < 2; i++ {
		want, err := s.campaign.Request(i)
		require.NoError(t, err)
		got, err := restored.Request(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("invalid_records", func(t *testing.T) {
		invalid := []func(r *crowdfund.CampaignRecord){
			func(r *crowdfund.CampaignRecord) { r.Address = "invalid-addr" },
			func(r *crowdfund.CampaignRecord) { r.Manager = "invalid-addr" },
			func(r *crowdfund.CampaignRecord) { r.MinimumContribution = "0" },
			func(r *crowdfund.CampaignRecord) { r.Approvers = []string{"invalid-addr"} },
			func(r *crowdfund.CampaignRecord) { r.Requests[0].Value = "-1" },
			func(r *crowdfund.CampaignRecord) { r.Requests[0].Recipient = "invalid-addr" },
			func(r *crowdfund.CampaignRecord) { r.Requests[0].Approvals = []string{"invalid-addr"} },
		}
		for _, corrupt := range invalid {
			r := s.campaign.Record()
			corrupt(&r)
			_, err := campaign.FromRecord(r, s.Ledger, nil)
			assert.Error(t, err)
		}
	})
}

func Test_Campaign_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	cntContributors := 20
	s := newSetup(t, cntContributors+1)
	manager := s.Accs[0]
	_, err := s.campaign.CreateRequest(ctx, manager, "A description", big.NewInt(100), manager)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, acc := range s.Accs[1:] {
		wg.Add(1)
		go func(acc common.Address) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, s.campaign.Contribute(ctx, acc, big.NewInt(100)))
			}
			assert.NoError(t, s.campaign.ApproveRequest(ctx, acc, 0))
			code, _ := crowdfund.CodeOf(s.campaign.ApproveRequest(ctx, acc, 0))
			assert.Equal(t, crowdfund.ErrDuplicateApproval, code)
		}(acc)
	}
	wg.Wait()

	assert.Equal(t, cntContributors, s.campaign.ApproversCount())
	assert.Equal(t, 0, big.NewInt(int64(cntContributors*5*100)).Cmp(s.campaign.Balance()))
	req, err := s.campaign.Request(0)
	require.NoError(t, err)
	assert.Equal(t, cntContributors, req.ApprovalCount)
}
