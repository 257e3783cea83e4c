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

// Package configgen generates configuration artifacts for running a crowdfunding node.
package configgen

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/ledger"
	"github.com/capaio/solidity-crowdfunding/node"
	"github.com/capaio/solidity-crowdfunding/persistence"
)

// File names of the generated artifacts.
const (
	NodeConfigFile = "node.yaml"
	StateFile      = "state.yaml"
)

// NodeConfig returns the default node configuration with the given mnemonic. The state is kept
// in a YAML file in the directory from which the node is started.
func NodeConfig(mnemonic string) crowdfund.NodeConfig {
	return crowdfund.NodeConfig{
		LogFile:        "",
		LogLevel:       node.DefaultLogLevel,
		RESTAddr:       node.DefaultRESTAddr,
		StoreType:      persistence.TypeYAML,
		StorePath:      StateFile,
		FactoryAddr:    node.DefaultFactoryAddr,
		Mnemonic:       mnemonic,
		Accounts:       node.DefaultAccounts,
		AccountBalance: node.DefaultAccountBalance,
	}
}

// GenerateNodeConfig generates node configuration artifact (node.yaml) in the given directory,
// with a newly generated mnemonic for the genesis accounts. It returns the path of the file.
func GenerateNodeConfig(dir string) (string, error) {
	filePath := filepath.Join(dir, NodeConfigFile)
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		return "", errors.Errorf("exists file - %s", filePath)
	}

	mnemonic, err := ledger.NewMnemonic()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(NodeConfig(mnemonic))
	if err != nil {
		return "", errors.Wrap(err, "encoding node config")
	}
	if err = os.WriteFile(filePath, data, 0o600); err != nil {
		return "", errors.Wrap(err, "writing node config")
	}
	return filePath, nil
}
