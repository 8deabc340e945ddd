package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/config"
	"github.com/deprecation-tools/go-deprecation-instrumentation/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "re-instrument on source changes",
	Long:  "watch the application source tree and regenerate the instrumentation diff whenever a Go file changes",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		Watch()
	},
}

func Watch() {
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

	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer fw.Close()

	// run once up front so the diff exists before the first change
	if err := instrumentOnce(cfg, outputFile); err != nil {
		log.Fatal(err)
	}

	err = fw.Watch([]string{packagePath}, func(changed []string) error {
		log.Printf("%d file(s) changed, re-instrumenting", len(changed))
		return instrumentOnce(cfg, outputFile)
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("watching %s for changes", packagePath)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func init() {
	watchCmd.Flags().StringVar(&packagePath, "path", defaultPackagePath, "specify package path")
	watchCmd.Flags().StringVar(&diffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	watchCmd.Flags().StringVar(&configFile, "config", defaultConfigFilePath, "specify configuration file path")

	rootCmd.AddCommand(watchCmd)
}
