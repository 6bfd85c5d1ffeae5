package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/member-search/internal/config"
)

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write a config.yaml with every setting at its default",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "config.yaml"
		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		// Nest the flat dotted keys into a yaml tree.
		tree := map[string]any{}
		for key, val := range config.Defaults() {
			section, field, found := strings.Cut(key, ".")
			if !found {
				tree[key] = val
				continue
			}
			sub, ok := tree[section].(map[string]any)
			if !ok {
				sub = map[string]any{}
				tree[section] = sub
			}
			sub[field] = val
		}

		out, err := yaml.Marshal(tree)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", path)
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(configInitCmd)
}
