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

package node

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/persistence"
)

// Default values for the node configuration. DefaultFactoryAddr is the address of the first
// contract deployed by the first development account, so campaign addresses match the ones of
// a local test chain.
const (
	DefaultLogLevel       = "info"
	DefaultRESTAddr       = "127.0.0.1:50001"
	DefaultStoreType      = persistence.TypeMemory
	DefaultFactoryAddr    = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	DefaultAccounts       = 10
	DefaultAccountBalance = "100"
)

// SetDefaults sets the default value for each configuration key on the viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", DefaultLogLevel)
	v.SetDefault("logfile", "")
	v.SetDefault("restaddr", DefaultRESTAddr)
	v.SetDefault("storetype", DefaultStoreType)
	v.SetDefault("storepath", "")
	v.SetDefault("factoryaddr", DefaultFactoryAddr)
	v.SetDefault("mnemonic", "")
	v.SetDefault("accounts", DefaultAccounts)
	v.SetDefault("accountbalance", DefaultAccountBalance)
}

// ParseConfig parses the node configuration from the config file using the given viper instance.
// Values bound to the viper instance (for example, from command line flags) override the values
// in the file, and missing keys take their default values.
func ParseConfig(v *viper.Viper, configFile string) (crowdfund.NodeConfig, error) {
	v.SetConfigFile(filepath.Clean(configFile))
	SetDefaults(v)

	var cfg crowdfund.NodeConfig
	err := v.ReadInConfig()
	if err != nil {
		return crowdfund.NodeConfig{}, crowdfund.NewErrInvalidConfig("configfile", configFile,
			fmt.Sprintf("reading config file: %v", err))
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return crowdfund.NodeConfig{}, crowdfund.NewErrInvalidConfig("configfile", configFile,
			fmt.Sprintf("decoding config file: %v", err))
	}
	return cfg, nil
}
