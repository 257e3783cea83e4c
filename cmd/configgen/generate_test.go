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

package configgen_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capaio/solidity-crowdfunding/cmd/configgen"
	"github.com/capaio/solidity-crowdfunding/ledger"
	"github.com/capaio/solidity-crowdfunding/node"
)

func Test_GenerateNodeConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("happy", func(t *testing.T) {
		filePath, err := configgen.GenerateNodeConfig(dir)
		require.NoError(t, err)

		cfg, err := node.ParseConfig(viper.New(), filePath)
		require.NoError(t, err)
		assert.Equal(t, configgen.NodeConfig(cfg.Mnemonic), cfg)

		accs, err := ledger.NewGenesisAccounts(cfg.Mnemonic, 2)
		require.NoError(t, err)
		assert.NotEqual(t, accs[0], accs[1])
	})

	t.Run("file_exists", func(t *testing.T) {
		_, err := configgen.GenerateNodeConfig(dir)
		assert.Error(t, err)
		t.Log(err)
	})

	t.Run("fresh_mnemonic", func(t *testing.T) {
		filePath, err := configgen.GenerateNodeConfig(t.TempDir())
		require.NoError(t, err)
		other, err := node.ParseConfig(viper.New(), filePath)
		require.NoError(t, err)
		first, err := node.ParseConfig(viper.New(), filepath.Join(dir, configgen.NodeConfigFile))
		require.NoError(t, err)
		assert.NotEqual(t, first.Mnemonic, other.Mnemonic)
	})
}
