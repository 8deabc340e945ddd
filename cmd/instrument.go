package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dave/dst/decorator"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/config"
	"github.com/deprecation-tools/go-deprecation-instrumentation/processor"
	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"
)

const (
	defaultPackageName    = "./..."
	defaultPackagePath    = ""
	defaultOutputFilePath = ""
	defaultConfigFilePath = ""
	defaultDiffFileName   = "deprecation-instrumentation.diff"
	defaultDebug          = false
)

var (
	debug       bool
	packagePath string
	diffFile    string
	configFile  string
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "add deprecation diagnostics",
	Long:  "rewrite deprecated routines in existing application source files to log and count their invocations",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		Instrument()
	},
}

// validateOutputFile checks that the custom output path is valid
func validateOutputFile(path string) error {
	if filepath.Ext(path) != ".diff" {
		return errors.New("output file must have a .diff extension")
	}

	_, err := os.Stat(filepath.Dir(path))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output file directory does not exist: %v", err)
	}

	return nil
}

// setOutputFilePath returns a complete output file path based on the
// provided diff flag and config file values. If both are empty, the default
// path is based on the application path.
//
// This will fail if the packagePath is not valid, and must be run after
// validating it.
func setOutputFilePath(outputFilePath, configFilePath, applicationPath string) (string, error) {
	if outputFilePath == "" {
		outputFilePath = configFilePath
	}
	if outputFilePath == "" {
		outputFilePath = filepath.Join(applicationPath, defaultDiffFileName)
	}

	err := validateOutputFile(outputFilePath)
	if err != nil {
		return "", err
	}

	return outputFilePath, nil
}

func Instrument() {
	if packagePath == "" {
		log.Fatal("--path is required")
	}

	if _, err := os.Stat(packagePath); err != nil {
		cobra.CheckErr(fmt.Errorf("--path \"%s\" is invalid: %v", packagePath, err))
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		cobra.CheckErr(err)
	}

	outputFile, err := setOutputFilePath(diffFile, cfg.Output.DiffFile, packagePath)
	if err != nil {
		cobra.CheckErr(err)
	}

	if debug {
		processor.EnableDebugOutput()
	}

	if err := instrumentOnce(cfg, outputFile); err != nil {
		log.Fatal(err)
	}
}

// instrumentOnce runs a full load-instrument-diff cycle. Watch mode calls
// this on every change set.
func instrumentOnce(cfg *config.Config, outputFile string) error {
	pkgs, err := decorator.Load(&packages.Config{Dir: packagePath, Mode: packages.LoadSyntax}, defaultPackageName)
	if err != nil {
		return err
	}

	manager := processor.NewManager(pkgs, outputFile, packagePath, cfg.Output.Colors)
	if err := manager.RegisterDefaultHandlers(cfg.Markers); err != nil {
		return err
	}

	if err := manager.CreateDiffFile(); err != nil {
		return err
	}

	if err := manager.InstrumentApplication(); err != nil {
		return err
	}

	if err := manager.AddRequiredModules(); err != nil {
		return err
	}

	if err := manager.WriteDiff(); err != nil {
		return err
	}

	manager.Reporter().Flush()

	counts := manager.OutcomeCounts()
	log.Printf("instrumented %d routines (%d skipped, %d failed)",
		counts[processor.OutcomeRewritten], counts[processor.OutcomeSkipped], counts[processor.OutcomeFailed])
	return nil
}

func init() {
	instrumentCmd.Flags().BoolVar(&debug, "debug", defaultDebug, "enable debugging output")
	instrumentCmd.Flags().StringVar(&packagePath, "path", defaultPackagePath, "specify package path")
	instrumentCmd.Flags().StringVar(&diffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	instrumentCmd.Flags().StringVar(&configFile, "config", defaultConfigFilePath, "specify configuration file path")
	cobra.MarkFlagFilename(instrumentCmd.Flags(), "diff", ".diff") // for file completion

	rootCmd.AddCommand(instrumentCmd)
}
