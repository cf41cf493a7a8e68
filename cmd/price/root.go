package price

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/cmd/util"
	"github.com/ValentinKolb/pricerproxy/proxy/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	// PriceCommands sends a single pricing request and hosts the bench command
	PriceCommands = &cobra.Command{
		Use:               "price",
		Short:             "Price an option through a running proxy",
		Long:              `Send one pricing request to a running proxy and print the result as JSON. A zero steps value lets the pricing daemon use its default.`,
		PersistentPreRunE: setupClientConfig,
		RunE:              runPrice,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common client flags
	util.SetupClientFlags(PriceCommands)

	// Request flags
	key := "spot"
	PriceCommands.PersistentFlags().Float64(key, 100, util.WrapString("Spot price of the underlying"))
	key = "strike"
	PriceCommands.PersistentFlags().Float64(key, 100, util.WrapString("Strike price"))
	key = "rate"
	PriceCommands.PersistentFlags().Float64(key, 0.01, util.WrapString("Risk free interest rate"))
	key = "volatility"
	PriceCommands.PersistentFlags().Float64(key, 0.2, util.WrapString("Volatility of the underlying"))
	key = "maturity"
	PriceCommands.PersistentFlags().Float64(key, 1, util.WrapString("Time to maturity in years"))
	key = "type"
	PriceCommands.PersistentFlags().String(key, "call", util.WrapString("Option type (call, put)"))
	key = "steps"
	PriceCommands.PersistentFlags().Uint32(key, 0, util.WrapString("Number of tree steps (0 = pricer default)"))

	// Add subcommands
	PriceCommands.AddCommand(benchCmd)
}

// setupClientConfig binds the flags of the called command to viper
func setupClientConfig(cmd *cobra.Command, _ []string) error {
	return util.BindCommandFlags(cmd)
}

// requestFromFlags builds a request from the request flags
func requestFromFlags() client.Request {
	return client.Request{
		Spot:       viper.GetFloat64("spot"),
		Strike:     viper.GetFloat64("strike"),
		Rate:       viper.GetFloat64("rate"),
		Volatility: viper.GetFloat64("volatility"),
		Maturity:   viper.GetFloat64("maturity"),
		Type:       viper.GetString("type"),
		Steps:      viper.GetUint32("steps"),
	}
}

func runPrice(_ *cobra.Command, _ []string) error {
	config := util.GetClientConfig()

	c, err := client.Dial(config.Endpoint, config.Timeout())
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.Price(requestFromFlags())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
