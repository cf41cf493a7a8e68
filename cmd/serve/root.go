package serve

import (
	"context"
	"fmt"
	cmdUtil "github.com/ValentinKolb/pricerproxy/cmd/util"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/serializer"
	"github.com/ValentinKolb/pricerproxy/proxy/server"
	"github.com/ValentinKolb/pricerproxy/proxy/transport/ws"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout is how long live sessions get to close on SIGINT / SIGTERM
const shutdownTimeout = 10 * time.Second

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the pricing proxy",
		Long:    `Start the pricing proxy with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is the flag name in upper case with - replaced by _ (e.g. WS_PORT=8080, PRICER_HOST=pricer-cpp, PRICER_PORT=9000)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	defaults := common.DefaultServerConfig()

	// websocket flags
	key := "ws-host"
	ServeCmd.PersistentFlags().String(key, defaults.ListenHost, cmdUtil.WrapString("The address the websocket server binds to"))

	key = "ws-port"
	ServeCmd.PersistentFlags().Int(key, defaults.ListenPort, cmdUtil.WrapString("The port of the websocket server"))

	key = "ws-path"
	ServeCmd.PersistentFlags().String(key, defaults.Path, cmdUtil.WrapString("The path clients connect to"))

	key = "ws-max-message"
	ServeCmd.PersistentFlags().Int64(key, defaults.MaxMessageSize/1024, cmdUtil.WrapString("The maximum size of a single client message (in KB)"))

	// pricer flags
	key = "pricer-transport"
	ServeCmd.PersistentFlags().String(key, string(defaults.Backend.Transport), cmdUtil.WrapString("How to reach the pricing daemon (tcp, unix)"))

	key = "pricer-host"
	ServeCmd.PersistentFlags().String(key, defaults.Backend.Host, cmdUtil.WrapString("The host of the pricing daemon (tcp only)"))

	key = "pricer-port"
	ServeCmd.PersistentFlags().Int(key, defaults.Backend.Port, cmdUtil.WrapString("The port of the pricing daemon (tcp only)"))

	key = "pricer-socket"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The socket path of the pricing daemon (unix only)"))

	key = "pricer-dial-timeout"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Timeout for connecting to the pricing daemon in seconds (0 = none)"))

	key = "pricer-read-buffer"
	ServeCmd.PersistentFlags().Int(key, defaults.Backend.ReadChunkSize/1024, cmdUtil.WrapString("The size of a single read from the pricing daemon (in KB)"))

	key = "pricer-tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, defaults.Backend.TCPNoDelay, cmdUtil.WrapString("Whether to enable TCP_NODELAY on pricer connections"))

	key = "pricer-tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval of pricer connections (in seconds, 0 = system default)"))

	key = "pricer-tcp-linger"
	ServeCmd.PersistentFlags().Int(key, defaults.Backend.TCPLingerSec, cmdUtil.WrapString("The linger time of pricer connections (in seconds, -1 = system default)"))

	// misc
	key = "metrics"
	ServeCmd.PersistentFlags().Bool(key, defaults.Metrics, cmdUtil.WrapString("Serve /metrics and /healthz next to the websocket endpoint"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, defaults.LogLevel, cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf, err := cmdUtil.GetServerConfig()
	if err != nil {
		return err
	}
	*serveCmdConfig = *conf

	return nil
}

// run starts the proxy and stops it on SIGINT / SIGTERM
func run(_ *cobra.Command, _ []string) error {
	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	connector, err := cmdUtil.GetBackendConnector(serveCmdConfig.Backend.Transport)
	if err != nil {
		return err
	}

	serv := server.NewProxyServer(
		*serveCmdConfig,
		ws.NewWSServerTransport(),
		connector,
		serializer.NewJSONSerializer(),
	)

	serveErr := make(chan error, 1)
	go func() { serveErr <- serv.Serve() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-serveErr:
		// Listener failures end the process
		return err
	case s := <-sig:
		server.Logger.Infof("Received %s, shutting down", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown incomplete: %w", err)
	}
	return <-serveErr
}
