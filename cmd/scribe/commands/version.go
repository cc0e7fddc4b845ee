package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/cmd/scribe/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(build.String())
		if IsVerbose() {
			fmt.Printf("  go:       %s\n", runtime.Version())
			fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			if cfg, err := GetConfig(); err == nil {
				fmt.Printf("  config:   %s\n", cfg.Dir)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
