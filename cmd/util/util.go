package util

import (
	"fmt"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"github.com/ValentinKolb/pricerproxy/proxy/transport"
	"github.com/ValentinKolb/pricerproxy/proxy/transport/tcp"
	"github.com/ValentinKolb/pricerproxy/proxy/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and maps environment variables onto flags.
// There is no prefix, a flag like pricer-host is read from PRICER_HOST.
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Server
// --------------------------------------------------------------------------

// GetServerConfig reads the proxy configuration from viper
func GetServerConfig() (*common.ServerConfig, error) {
	conf := common.DefaultServerConfig()

	conf.ListenHost = viper.GetString("ws-host")
	conf.ListenPort = viper.GetInt("ws-port")
	conf.Path = viper.GetString("ws-path")
	conf.MaxMessageSize = viper.GetInt64("ws-max-message") * 1024
	conf.Metrics = viper.GetBool("metrics")
	conf.LogLevel = viper.GetString("log-level")

	conf.Backend.Transport = common.BackendTransportType(viper.GetString("pricer-transport"))
	conf.Backend.Host = viper.GetString("pricer-host")
	conf.Backend.Port = viper.GetInt("pricer-port")
	conf.Backend.SocketPath = viper.GetString("pricer-socket")
	conf.Backend.DialTimeoutSecond = viper.GetInt("pricer-dial-timeout")
	conf.Backend.ReadChunkSize = viper.GetInt("pricer-read-buffer") * 1024
	conf.Backend.TCPNoDelay = viper.GetBool("pricer-tcp-nodelay")
	conf.Backend.TCPKeepAliveSec = viper.GetInt("pricer-tcp-keepalive")
	conf.Backend.TCPLingerSec = viper.GetInt("pricer-tcp-linger")

	// validate
	if conf.ListenPort < 0 || conf.ListenPort > 65535 {
		return nil, fmt.Errorf("invalid ws-port %d", conf.ListenPort)
	}
	if !strings.HasPrefix(conf.Path, "/") {
		return nil, fmt.Errorf("invalid ws-path %q (must start with /)", conf.Path)
	}
	if conf.Backend.ReadChunkSize <= 0 {
		return nil, fmt.Errorf("invalid pricer-read-buffer %d (must be at least 1 KB)", viper.GetInt("pricer-read-buffer"))
	}
	if conf.Backend.Transport == common.BackendUnix && conf.Backend.SocketPath == "" {
		return nil, fmt.Errorf("pricer-socket is required for the unix transport")
	}
	if _, err := common.ParseLogLevel(conf.LogLevel); err != nil {
		return nil, err
	}

	return &conf, nil
}

// GetBackendConnector creates the pricer connector based on configuration
func GetBackendConnector(transportType common.BackendTransportType) (transport.IBackendConnector, error) {
	switch transportType {
	case common.BackendTCP:
		return tcp.NewTCPBackendConnector(), nil
	case common.BackendUnix:
		return unix.NewUnixBackendConnector(), nil
	default:
		return nil, fmt.Errorf("invalid pricer transport %s (expected tcp or unix)", transportType)
	}
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// SetupClientFlags adds the proxy connection flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the client (0 = none)"))

	key = "endpoint"
	cmd.PersistentFlags().String(key, "ws://localhost:8080/", WrapString("The websocket url of the proxy"))
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		Endpoint:      viper.GetString("endpoint"),
		TimeoutSecond: viper.GetInt("timeout"),
	}
}
