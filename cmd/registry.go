package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/subrecon/internal/license"
)

var registryPath string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the configured license registry file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := registryPath
		if path == "" {
			path = cfg.License.RegistryPath
		}

		reg, err := license.LoadRegistry(path)
		if err != nil {
			return err
		}

		cols := reg.Columns()
		fmt.Printf("registry: %s\n", path)
		fmt.Printf("records:  %d\n", reg.Len())
		fmt.Printf("columns:  number=%d name=%d expiry=%d\n", cols.Number, cols.Name, cols.Expiry)
		return nil
	},
}

func init() {
	registryCmd.Flags().StringVar(&registryPath, "path", "", "registry file path (default from config)")
	rootCmd.AddCommand(registryCmd)
}
