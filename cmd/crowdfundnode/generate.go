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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capaio/solidity-crowdfunding/cmd/configgen"
)

const dirF = "dir"

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String(dirF, ".", "directory in which the config file is generated")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a node config file",
	Long: `
Generate a node config file (node.yaml) with default values and a newly generated
mnemonic for the genesis accounts. The node started with this file keeps its state
in state.yaml in the directory from which it is started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cmd.Flags().GetString(dirF)
		if err != nil {
			return err
		}
		filePath, err := configgen.GenerateNodeConfig(dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), greenf("Generated node config file - %s", filePath))
		return nil
	},
}
