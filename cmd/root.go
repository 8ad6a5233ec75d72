package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/liamg/portscout/report"
	"github.com/liamg/portscout/scan"
	"github.com/liamg/portscout/version"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const maxConcurrency = 1000

var debug bool
var target = "127.0.0.1"
var startPort = 1
var endPort = 1024
var concurrency = 200
var timeoutMS = 1000
var quiet bool
var outputPath string
var logFile string
var proxyURL string
var noColor bool
var versionRequested bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&target, "target", "t", target, "Target IP address")
	rootCmd.PersistentFlags().IntVarP(&startPort, "start", "s", startPort, "Starting port")
	rootCmd.PersistentFlags().IntVarP(&endPort, "end", "e", endPort, "Ending port")
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "c", concurrency, fmt.Sprintf("Maximum concurrent probes (max %d)", maxConcurrency))
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout", "T", timeoutMS, "Per-probe timeout in MS")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", quiet, "Quiet mode, only show open ports and the summary")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", outputPath, "Write results to a .json or .yaml file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "", logFile, "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "", proxyURL, "Connect through a proxy e.g. socks5://127.0.0.1:1080")
	rootCmd.PersistentFlags().BoolVarP(&noColor, "no-color", "", noColor, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
}

var rootCmd = &cobra.Command{
	Use:   "portscout",
	Short: "Portscout is a concurrent TCP port scanner",
	Long:  `A TCP connect scanner which probes a port range on a single host with bounded concurrency.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Printf("portscout %s\n", v)
			return
		}

		configureLogging()

		if err := run(context.Background(), os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configureLogging() {

	log.SetOutput(os.Stderr)
	if logFile != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}))
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

func run(ctx context.Context, out io.Writer) error {

	req, err := buildRequest()
	if err != nil {
		return err
	}

	prober, err := createProber(proxyURL)
	if err != nil {
		return err
	}

	terminal := report.NewTerminal(out, quiet, !noColor)
	terminal.PrintStart(req)

	engine := scan.NewEngine(prober)
	if debug {
		engine.OnResult = func(result scan.PortResult) {
			log.WithField("port", result.Port).Debugf("Port is %s", result.State)
		}
	}

	results, err := engine.Scan(ctx, req)
	if err != nil {
		return err
	}

	terminal.Render(results)

	if outputPath != "" {
		if err := report.Export(outputPath, results); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(out, "Report saved to %s\n", outputPath)
		}
	}

	return nil
}

func buildRequest() (scan.Request, error) {

	ip, err := scan.ParseTarget(target)
	if err != nil {
		return scan.Request{}, err
	}

	if timeoutMS <= 0 {
		return scan.Request{}, errors.Wrapf(scan.ErrInvalidTimeout, "%dms, must be positive", timeoutMS)
	}

	req := scan.Request{
		Target:      ip,
		Start:       startPort,
		End:         endPort,
		Concurrency: clampConcurrency(concurrency),
		Timeout:     time.Duration(timeoutMS) * time.Millisecond,
	}

	return req, req.Validate()
}

func clampConcurrency(requested int) int {
	if requested > maxConcurrency {
		log.Warnf("Concurrency %d exceeds the maximum, using %d", requested, maxConcurrency)
		return maxConcurrency
	}
	return requested
}

func createProber(proxy string) (scan.Prober, error) {
	if proxy == "" {
		return scan.NewConnectProber(), nil
	}
	log.Debugf("Connecting through proxy %s", proxy)
	return scan.NewProxyProber(proxy)
}
