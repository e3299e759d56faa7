// Command vitaoxipad is the CLI entrypoint: it parses flags/config,
// resolves the preset, opens the platform sink, performs the handshake, and
// runs the main loop, following cmd/viiper/viiper.go's kong wiring.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/vitaoxipad/vitaoxipad-go/internal/config"
	"github.com/vitaoxipad/vitaoxipad-go/internal/configpaths"
	"github.com/vitaoxipad/vitaoxipad-go/internal/hostutil"
	"github.com/vitaoxipad/vitaoxipad-go/internal/vlog"
	"github.com/vitaoxipad/vitaoxipad-go/internal/vperr"
	"github.com/vitaoxipad/vitaoxipad-go/sink"
	"github.com/vitaoxipad/vitaoxipad-go/vitaclient"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconfig"
)

// version is set at build time via -ldflags; SPEC_FULL.md's -v/--version
// flag prints it.
var version = "dev"

func main() {
	userCfg := findUserConfig(os.Args[1:])
	tomlPaths := configpaths.TOMLCandidatePaths(userCfg)
	yamlPaths := configpaths.YAMLCandidatePaths(userCfg)

	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("vitaoxipad"),
		kong.Description("PS Vita to virtual DualShock 4 bridge"),
		kong.UsageOnError(),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
	)

	if cli.Version {
		fmt.Println("vitaoxipad " + version)
		return
	}

	if cli.SampleConfig {
		out, err := config.RenderSample(cli.SampleFormat)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to render sample config:", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if hostutil.IsRunFromGUI() {
		hostutil.HideConsoleWindow()
	}

	levelStr := cli.Log.Level
	if cli.Debug {
		levelStr = "debug"
	}
	logger, closers, err := vlog.Setup(levelStr, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up logging:", err)
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var rawLogger vlog.RawLogger
	switch {
	case cli.Log.RawFile != "":
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
			rawLogger = vlog.NewRaw(nil)
		} else {
			rawLogger = vlog.NewRaw(f)
			defer f.Close()
		}
	case levelStr == "trace":
		rawLogger = vlog.NewRaw(os.Stdout)
	default:
		rawLogger = vlog.NewRaw(nil)
	}

	if cli.IP == "" {
		fmt.Fprintln(os.Stderr, "missing required argument: ip")
		os.Exit(1)
	}

	cfg, err := vitaconfig.Build(vitaconfig.Name(cli.Configuration))
	if err != nil {
		logger.Error("bad configuration preset", "error", vperr.ConfigInvalid(err.Error()))
		os.Exit(1)
	}

	dev, err := sink.NewDevice()
	if err != nil {
		logger.Error("failed to create virtual device", "error", vperr.SinkCreate("check uinput/ViGEm permissions", err))
		fmt.Fprintln(os.Stderr, "Failed to create virtual controller; on Linux, check /dev/uinput permissions; on Windows, check that ViGEmBus is installed.")
		os.Exit(1)
	}
	defer dev.Close()

	var psk []byte
	if cli.PSK != "" {
		psk = []byte(cli.PSK)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = vitaclient.Run(ctx, vitaclient.Options{
		Host:                  cli.IP,
		Port:                  cli.Port,
		Config:                cfg,
		PollingIntervalMicros: cli.NormalizedPollingInterval(),
		PSK:                   psk,
		Logger:                logger,
		Raw:                   rawLogger,
	}, dev)

	if err != nil {
		logger.Error("session ended", "error", err)
		fmt.Fprintln(os.Stderr, userFacingError(err))
		os.Exit(1)
	}
}

// userFacingError renders the spec.md §7 "User-visible behavior" table.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, vperr.ErrNetworkConnect):
		return "Failed to connect to device, please check that the IP address and port are correct"
	case errors.Is(err, vperr.ErrSinkCreate):
		return "Failed to create virtual controller device; check uinput/ViGEm permissions"
	case errors.Is(err, vperr.ErrProtocolDecode):
		return "Handshake failed: unexpected or malformed response from device"
	default:
		return err.Error()
	}
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("VITAOXIPAD_CONFIG"); v != "" {
		return v
	}
	return ""
}
