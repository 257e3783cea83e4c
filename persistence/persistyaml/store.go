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

// Package persistyaml implements a state store that keeps the complete state of the node in
// a single YAML file.
package persistyaml

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/persistence"
)

// Store is a state store backed by a YAML file. The state is cached in memory and every put
// rewrites the whole file. The methods defined over it are safe for concurrent access.
type Store struct {
	mutex    sync.Mutex
	filePath string
	snap     crowdfund.Snapshot
}

// New returns a store backed by the file at filePath. If the file does not exist, the store
// starts empty and the file is created on the first put.
func New(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading state file")
	}
	if err = yaml.Unmarshal(data, &s.snap); err != nil {
		return nil, errors.Wrap(err, "decoding state file")
	}
	return s, nil
}

// PutFactory implements crowdfund.StateStore.
func (s *Store) PutFactory(_ context.Context, rec crowdfund.FactoryRecord) error {
	return s.update(func(snap *crowdfund.Snapshot) {
		persistence.PutFactory(snap, rec)
	})
}

// PutCampaign implements crowdfund.StateStore.
func (s *Store) PutCampaign(_ context.Context, rec crowdfund.CampaignRecord) error {
	return s.update(func(snap *crowdfund.Snapshot) {
		persistence.PutCampaign(snap, rec)
	})
}

// PutAccounts implements crowdfund.StateStore.
func (s *Store) PutAccounts(_ context.Context, recs ...crowdfund.AccountRecord) error {
	return s.update(func(snap *crowdfund.Snapshot) {
		persistence.PutAccounts(snap, recs...)
	})
}

// PutCampaignAccounts implements crowdfund.StateStore. The records are written in one
// rewrite of the file.
func (s *Store) PutCampaignAccounts(_ context.Context, rec crowdfund.CampaignRecord,
	recs ...crowdfund.AccountRecord) error {
	return s.update(func(snap *crowdfund.Snapshot) {
		persistence.PutCampaign(snap, rec)
		persistence.PutAccounts(snap, recs...)
	})
}

// Load implements crowdfund.StateStore.
func (s *Store) Load(context.Context) (crowdfund.Snapshot, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return persistence.Copy(s.snap), nil
}

// Close is a noop, as the file is written on every put.
func (s *Store) Close() error {
	return nil
}

// update applies the change to a copy of the cached state and writes it to the file. The
// cache is updated only if the write succeeds.
func (s *Store) update(change func(*crowdfund.Snapshot)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := persistence.Copy(s.snap)
	change(&next)
	if err := writeFile(s.filePath, next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// writeFile writes the snapshot to a temporary file in the same directory and renames it to
// filePath, so that the file always holds a complete state.
func writeFile(filePath string, snap crowdfund.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}

	tempFile, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tempFile.Name()) // nolint: errcheck

	if _, err = tempFile.Write(data); err != nil {
		tempFile.Close() // nolint: errcheck, gosec
		return errors.Wrap(err, "writing temp file")
	}
	if err = tempFile.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrap(os.Rename(tempFile.Name(), filePath), "replacing state file")
}
