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
	"sync"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/persistence"
)

// MemStore is an in-memory state store for tests. While an error is set with SetErr,
// every put fails with it and leaves the stored state unchanged. An error set with
// SetAccountsErr fails only the puts that write account records.
type MemStore struct {
	mu      sync.Mutex
	snap    crowdfund.Snapshot
	err     error
	accsErr error
	puts    int
}

// NewMemStore returns an empty in-memory state store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// SetErr sets the error returned by puts. Pass nil to make puts succeed again.
func (s *MemStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SetAccountsErr sets the error returned by puts that write account records. Pass nil to
// make them succeed again.
func (s *MemStore) SetAccountsErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accsErr = err
}

// Puts returns the number of successful puts.
func (s *MemStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// PutFactory implements crowdfund.StateStore.
func (s *MemStore) PutFactory(_ context.Context, rec crowdfund.FactoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	persistence.PutFactory(&s.snap, rec)
	s.puts++
	return nil
}

// PutCampaign implements crowdfund.StateStore.
func (s *MemStore) PutCampaign(_ context.Context, rec crowdfund.CampaignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	persistence.PutCampaign(&s.snap, rec)
	s.puts++
	return nil
}

// PutAccounts implements crowdfund.StateStore.
func (s *MemStore) PutAccounts(_ context.Context, recs ...crowdfund.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accountsErr(); err != nil {
		return err
	}
	persistence.PutAccounts(&s.snap, recs...)
	s.puts++
	return nil
}

// PutCampaignAccounts implements crowdfund.StateStore.
func (s *MemStore) PutCampaignAccounts(_ context.Context, rec crowdfund.CampaignRecord,
	recs ...crowdfund.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accountsErr(); err != nil {
		return err
	}
	persistence.PutCampaign(&s.snap, rec)
	persistence.PutAccounts(&s.snap, recs...)
	s.puts++
	return nil
}

func (s *MemStore) accountsErr() error {
	if s.err != nil {
		return s.err
	}
	return s.accsErr
}

// Load implements crowdfund.StateStore.
func (s *MemStore) Load(context.Context) (crowdfund.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return persistence.Copy(s.snap), nil
}

// Close implements crowdfund.StateStore.
func (s *MemStore) Close() error {
	return nil
}
