package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joomcode/errorx"
	"github.com/mgnsk/esm-devserver/internal/cli"
	"github.com/mgnsk/esm-devserver/internal/server"
	"github.com/mgnsk/esm-devserver/internal/static"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// shutdownGracePeriod bounds how long in-flight requests may finish after an
// interrupt.
const shutdownGracePeriod = 5 * time.Second

// console receives the banner and the stop notice.
var console io.Writer = color.Output

func serveMain(_ *cobra.Command, _ []string) error {
	logger := newLogger(rootConfiguration.verbose)

	root, err := resolveRoot(rootConfiguration.dir)
	if err != nil {
		return err
	}
	// The working directory is fixed before anything is bound.
	if err := os.Chdir(root); err != nil {
		return errorx.Decorate(err, "unable to enter %s", root)
	}

	// Watch for termination before binding so an early Ctrl+C still exits
	// through the shutdown path.
	signalTermination, stopSignals := cli.NotifyTermination()
	defer stopSignals()

	handler := static.NewHandler(root, logger)
	srv, err := server.Listen(fmt.Sprintf(":%d", rootConfiguration.port), handler, logger)
	if err != nil {
		return err
	}

	logger.WithField("root", handler.Root()).Debug("Serving directory")
	server.PrintBanner(console, srv.Port())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve()
	}()

	select {
	case sig := <-signalTermination:
		logger.WithField("signal", sig).Debug("Terminating")
	case err := <-serverErrors:
		if err == nil {
			err = errorx.IllegalState.New("server stopped unexpectedly")
		}
		return errorx.Decorate(err, "premature server termination")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("In-flight requests dropped")
	}
	if err := <-serverErrors; err != nil {
		logger.WithError(err).Warn("Server exited with error")
	}

	server.PrintStopped(console)
	return nil
}

// resolveRoot returns the absolute served root, defaulting to the directory
// holding the binary.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return server.ExecutableDir()
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", errorx.Decorate(err, "unable to resolve %s", dir)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", errorx.Decorate(err, "unable to access %s", root)
	}
	if !info.IsDir() {
		return "", errorx.IllegalArgument.New("%s is not a directory", root)
	}
	return root, nil
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

var rootCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serves a directory to the browser with CORS and ES module friendly headers",
	Args:  cobra.NoArgs,
	Run:   cli.Default.Run(serveMain),
}

var rootConfiguration struct {
	help    bool
	port    int
	dir     string
	verbose bool
}

func init() {
	// We manually add help to override the default message, but Cobra still
	// implements it automatically.
	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.IntVarP(&rootConfiguration.port, "port", "p", server.DefaultPort, "Port to listen on")
	flags.StringVarP(&rootConfiguration.dir, "dir", "d", "", "Directory to serve (default: the directory of this binary)")
	flags.BoolVarP(&rootConfiguration.verbose, "verbose", "v", false, "Log request headers and debug detail")

	// Set up flag normalization. This is only required to handle aliases.
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "directory" || name == "root" {
			name = "dir"
		}
		return pflag.NormalizedName(name)
	})
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
