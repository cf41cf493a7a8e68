package cmd

import (
	"fmt"
	"github.com/ValentinKolb/pricerproxy/cmd/price"
	"github.com/ValentinKolb/pricerproxy/cmd/serve"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "pricerproxy",
		Short: "websocket proxy for a binary option pricing daemon",
		Long: fmt.Sprintf(`pricerproxy (v%s)

A websocket proxy that translates JSON pricing requests into the binary
request frames of an option pricing daemon and streams the priced results
back to the client.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pricerproxy",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricerproxy v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(price.PriceCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
