// Command rainbow-cli generates Rainbow key pairs and signs and verifies files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"gopkg.in/op/go-logging.v1"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/config"
	"github.com/BackendStack21/rainbow-go/instrument"
	"github.com/BackendStack21/rainbow-go/log"
	"github.com/BackendStack21/rainbow-go/sign"
)

const appName = "rainbow-cli"

// errVerificationFailed makes verify exit non-zero for a well formed but
// wrong signature.
var errVerificationFailed = errors.New("signature verification failed")

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	logLevel   string
	metrics    string
	paramSet   string

	cfg     *config.Config
	backend *log.Backend
	log     *logging.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configFile != "" {
		a.cfg, err = config.LoadFile(a.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		a.cfg = config.Default()
	}

	if a.paramSet != "" {
		a.cfg.Rainbow.ParamSet = a.paramSet
		a.cfg.Rainbow.V1, a.cfg.Rainbow.O1, a.cfg.Rainbow.O2 = 0, 0, 0
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if a.metrics != "" {
		a.cfg.Metrics.TextFile = a.metrics
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	// Command output goes to stdout, so an unset log file means stderr.
	if a.cfg.Logging.File == "" && !a.cfg.Logging.Disable {
		a.backend, err = log.NewWriter(cmd.ErrOrStderr(), a.cfg.Logging.Level)
	} else {
		a.backend, err = log.New(a.cfg.Logging.File, a.cfg.Logging.Level, a.cfg.Logging.Disable)
	}
	if err != nil {
		return err
	}
	a.log = a.backend.GetLogger(appName)
	return nil
}

// run wraps a subcommand so that metrics are exported and the log is closed
// whether or not it fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if terr := a.teardown(); err == nil {
			err = terr
		}
		return err
	}
}

func (a *app) teardown() error {
	var err error
	if path := a.cfg.Metrics.TextFile; path != "" {
		if err = instrument.WriteTextfile(path); err != nil {
			a.log.Errorf("Failed to write metrics to %s: %v", path, err)
		}
	}
	if cerr := a.backend.Close(); err == nil {
		err = cerr
	}
	return err
}

// scheme returns a scheme for params configured from the loaded file.
func (a *app) scheme(params rainbow.Params) (*sign.Scheme, error) {
	digester, err := sign.DigesterByName(a.cfg.Rainbow.Digest)
	if err != nil {
		return nil, err
	}
	return sign.New(params, &sign.Options{
		MaxInversionAttempts: a.cfg.Rainbow.MaxInversionAttempts,
		MaxAffineAttempts:    a.cfg.Rainbow.MaxAffineAttempts,
		Digester:             digester,
		Logger:               a.backend.GetLogger("rainbow/sign"),
	})
}

func newRootCommand() *cobra.Command {
	a := new(app)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Rainbow multivariate signature tool",
		Long: `Generate Rainbow key pairs, sign files and verify signatures.

Keys are written as JSON files holding the CBOR encoded key in base64
together with an integrity tag. Signatures are written as JSON files
holding the CBOR signature envelope.`,
		Example: `  # Generate a key pair named alice
  ` + appName + ` keygen --out alice

  # Sign and verify a file
  ` + appName + ` sign --secret-key alice.rainbow_secret.json --input doc.txt --signature doc.sig
  ` + appName + ` verify --public-key alice.rainbow_public.json --input doc.txt --signature doc.sig`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "TOML configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "logging level (DEBUG, INFO, NOTICE, WARNING, ERROR)")
	cmd.PersistentFlags().StringVar(&a.metrics, "metrics", "", "write metrics to this file in textfile format")
	cmd.PersistentFlags().StringVarP(&a.paramSet, "params", "p", "",
		fmt.Sprintf("parameter set (%s, %s, %s)", rainbow.Toy, rainbow.Small, rainbow.Classic))

	cmd.AddCommand(
		newKeygenCommand(a),
		newSignCommand(a),
		newVerifyCommand(a),
		newParamsCommand(a),
		newBenchmarkCommand(a),
	)
	return cmd
}

func main() {
	rootCmd := newRootCommand()
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versioninfo.Short()),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(1)
	}
}

func errorHandler(w io.Writer, styles fang.Styles, err error) {
	_, _ = fmt.Fprintln(w, styles.ErrorHeader.String())
	_, _ = fmt.Fprintln(w, styles.ErrorText.Render(strings.TrimSuffix(err.Error(), ".")+"."))
	_, _ = fmt.Fprintln(w)
}
