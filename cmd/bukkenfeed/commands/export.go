package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/homemart/bukkenfeed/internal/feed"
	"github.com/homemart/bukkenfeed/internal/logger"
	"github.com/homemart/bukkenfeed/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert the property feed for downstream ingestion",
	Long: `Export reads an existing properties.json and re-serializes its
records as JSON, JSONL or YAML, to stdout or a file.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.String("feed", "", "feed file (default <output-dir>/properties.json)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.StringP("format", "f", "jsonl", "output format: json, jsonl, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	feedPath, _ := cmd.Flags().GetString("feed")
	if feedPath == "" {
		dir := viper.GetString("output_dir")
		if dir == "" {
			dir = filepath.Join("public", "suumo")
		}
		feedPath = filepath.Join(dir, feed.FileName)
	}

	doc, ok := feed.Load(feedPath)
	if !ok {
		return fmt.Errorf("no readable feed at %s", feedPath)
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(out, output.Format(formatStr))
	if err != nil {
		return err
	}

	for _, item := range doc.Items {
		if err := writer.Write(item); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	logger.Info("export complete", "items", len(doc.Items), "format", formatStr)
	return nil
}
