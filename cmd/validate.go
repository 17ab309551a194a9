package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"trestle/internal/config"
	"trestle/internal/template"
)

func newValidateCmd() *cobra.Command {
	var configPath string
	var propertiesPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve every config key against the supplied properties",
		Long: `Loads the JSON config and resolves each top-level key. Keys referencing
the per-record {{ zz_testcase_class }} variable are reported as dynamic
rather than resolved, since they need a test case for context. Any other
unresolved placeholder fails validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var properties map[string]string
			if propertiesPath != "" {
				var err error
				properties, err = config.LoadProperties(propertiesPath)
				if err != nil {
					return err
				}
			}

			resolver, err := config.Load(configPath, properties)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range resolver.Keys() {
				if resolver.ReferencesClassname(key) {
					fmt.Fprintf(out, "%s: resolved per test record ({{ %s }})\n", key, template.DynamicClassnameVar)
					continue
				}
				value, err := resolver.Get(key, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %v\n", key, value)
			}
			fmt.Fprintln(out, "Config OK")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the JSON config file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&propertiesPath, "properties", "p", "", "Path to a YAML file of interpolation properties")
	return cmd
}
