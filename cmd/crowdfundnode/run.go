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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/capaio/solidity-crowdfunding/api/rest"
	"github.com/capaio/solidity-crowdfunding/node"
)

const (
	// flag names for run command.
	configfileF     = "configfile"
	loglevelF       = "loglevel"
	logfileF        = "logfile"
	restaddrF       = "restaddr"
	storetypeF      = "storetype"
	storepathF      = "storepath"
	factoryaddrF    = "factoryaddr"
	accountsF       = "accounts"
	accountbalanceF = "accountbalance"

	// default values for flags in run command.
	defaultConfigFile = "node.yaml"
)

var (
	// node level viper instance for parsing configuration from flags and configuration files.
	nodeViper *viper.Viper

	// flags in the run command is binded with the viper instance to override values from config file.
	flagsToBind = []string{
		loglevelF,
		logfileF,
		restaddrF,
		storetypeF,
		storepathF,
		factoryaddrF,
		accountsF,
		accountbalanceF,
	}
)

func init() {
	nodeViper = viper.New()
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String(configfileF, defaultConfigFile, "node config file")

	runCmd.Flags().String(loglevelF, node.DefaultLogLevel, "Log level. Supported levels: debug, info, error")
	runCmd.Flags().String(logfileF, "", "Log file path. Use empty string for stdout")
	runCmd.Flags().String(restaddrF, node.DefaultRESTAddr, "Address at which the REST API is served")
	runCmd.Flags().String(storetypeF, node.DefaultStoreType, "State store type. Supported types: memory, yaml, sqlite")
	runCmd.Flags().String(storepathF, "", "Path of the state file (yaml) or database (sqlite)")
	runCmd.Flags().String(factoryaddrF, node.DefaultFactoryAddr, "Address of the campaign factory as hex string with 0x prefix")
	runCmd.Flags().Int(accountsF, node.DefaultAccounts, "Number of genesis accounts derived from the mnemonic")
	runCmd.Flags().String(accountbalanceF, node.DefaultAccountBalance, "Balance of each genesis account in ETH")

	// Bind the configuration flags to viper instance used for to override the values defined in config file.
	// Flags that are not set on the command line do not override the config file.
	for i := range flagsToBind {
		nodeViper.BindPFlag(flagsToBind[i], runCmd.Flags().Lookup(flagsToBind[i])) // nolint: errcheck
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the crowdfunding node",
	Long: `
Start the crowdfunding node. The node serves its API as JSON over HTTP.
Configuration can be specified in the config file or via flags.
If both config file and flags are given, values in flags are used.

The mnemonic for deriving the genesis accounts can only be set in the config
file. Use the generate command to create a config file with a new mnemonic.`,
	Run: run,
}

func run(cmd *cobra.Command, args []string) {
	nodeCfgFile, err := cmd.Flags().GetString(configfileF)
	if err != nil {
		panic("unknown flag configFile\n")
	}
	fmt.Printf("Using node config file - %s\n", nodeCfgFile)

	nodeCfg, err := node.ParseConfig(nodeViper, nodeCfgFile)
	if err != nil {
		fmt.Println(redf("Error reading node config file: %v", err))
		return
	}

	n, err := node.New(nodeCfg)
	if err != nil {
		fmt.Println(redf("Error initializing node: %v", err))
		return
	}
	defer func() {
		if err := n.Close(); err != nil {
			fmt.Println(redf("Error closing node: %v", err))
		}
	}()

	printCfg := nodeCfg
	printCfg.Mnemonic = "***"
	fmt.Printf("%s\n\n", prettify(printCfg))
	fmt.Println(greenf("Started crowdfunding node API server with the above config at %s", nodeCfg.RESTAddr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rest.ListenAndServe(ctx, n, nodeCfg.RESTAddr); err != nil {
		fmt.Println(redf("Server returned with error: %v", err))
	}
}
