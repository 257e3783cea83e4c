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

package persistyaml_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/persistence/persistencetest"
	"github.com/capaio/solidity-crowdfunding/persistence/persistyaml"
)

var (
	testdataDir = filepath.Join("..", "..", "testdata", "persistence")

	validYAMLFile     = filepath.Join(testdataDir, "state.yaml")
	corruptedYAMLFile = filepath.Join(testdataDir, "corrupted.yaml")

	ctx = context.Background()
)

func Test_Store_StateStore_Interface(t *testing.T) {
	assert.Implements(t, (*crowdfund.StateStore)(nil), new(persistyaml.Store))
}

func Test_Store_GenericPutLoad(t *testing.T) {
	persistencetest.GenericPutLoad(t, func(t *testing.T) crowdfund.StateStore {
		s, err := persistyaml.New(filepath.Join(t.TempDir(), "state.yaml"))
		require.NoError(t, err)
		return s
	})
}

func Test_New(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		s, err := persistyaml.New(tempCopyOfFile(t, validYAMLFile))
		require.NoError(t, err)

		snap, err := s.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap.Factory)
		assert.Equal(t, persistencetest.Factory, *snap.Factory)
		require.Len(t, snap.Campaigns, 2)
		assert.Equal(t, persistencetest.Campaign1, snap.Campaigns[0])
		assert.Equal(t, persistencetest.Campaign2, snap.Campaigns[1])
		assert.Equal(t, []crowdfund.AccountRecord{persistencetest.Account1, persistencetest.Account2}, snap.Accounts)
	})

	t.Run("missing_file", func(t *testing.T) {
		s, err := persistyaml.New(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		snap, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Factory)
	})

	t.Run("corrupted_yaml", func(t *testing.T) {
		_, err := persistyaml.New(tempCopyOfFile(t, corruptedYAMLFile))
		assert.Error(t, err)
		t.Log(err)
	})
}

func Test_Store_Reopen(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "state.yaml")
	s, err := persistyaml.New(filePath)
	require.NoError(t, err)
	require.NoError(t, s.PutFactory(ctx, persistencetest.Factory))
	require.NoError(t, s.PutCampaign(ctx, persistencetest.Campaign1))
	require.NoError(t, s.PutCampaign(ctx, persistencetest.Campaign2))
	require.NoError(t, s.PutAccounts(ctx, persistencetest.Account1, persistencetest.Account2))
	require.NoError(t, s.Close())

	reopened, err := persistyaml.New(filePath)
	require.NoError(t, err)
	want, err := s.Load(ctx)
	require.NoError(t, err)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(filePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be removed")
}

func Test_Store_Put_WriteError(t *testing.T) {
	s, err := persistyaml.New(filepath.Join(t.TempDir(), "missing-dir", "state.yaml"))
	require.NoError(t, err)

	err = s.PutAccounts(ctx, persistencetest.Account1)
	assert.Error(t, err)
	t.Log(err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Accounts)
}

func tempCopyOfFile(t *testing.T, srcFilePath string) (tempFilePath string) {
	tempFile, err := os.CreateTemp(t.TempDir(), "*.yaml")
	require.NoError(t, err)
	sourceFile, err := os.Open(srcFilePath)
	require.NoError(t, err)

	_, err = io.Copy(tempFile, sourceFile)
	require.NoError(t, err)
	require.NoError(t, tempFile.Close())
	require.NoError(t, sourceFile.Close())
	return tempFile.Name()
}
