package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/homemart/bukkenfeed/internal/crawler"
	"github.com/homemart/bukkenfeed/internal/fetcher"
	"github.com/homemart/bukkenfeed/internal/logger"
	"github.com/homemart/bukkenfeed/internal/profile"
	"github.com/homemart/bukkenfeed/internal/watermark"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the listing index and write the property feed",
	Long: `Crawl discovers detail pages across the listing index's pagination,
fetches each one sequentially with randomized politeness delays, downloads
and watermarks its images, and writes everything to properties.json.

With --resume, listings already present in the feed are skipped and kept
unchanged. With --reprocess-images no network fetch happens at all: the
logo is re-applied to every image the existing feed references.`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	flags := crawlCmd.Flags()

	flags.StringP("url", "u", "", "listing index URL (or BUKKENFEED_URL / profile base_url)")
	flags.StringP("output-dir", "o", filepath.Join("public", "suumo"), "output directory for the feed and images")
	flags.String("logo", "", "logo PNG for watermarking (default <output-dir>/logo.png)")
	flags.String("profile", "", "site profile YAML (default: built-in)")

	flags.IntP("limit", "n", crawler.DefaultLimit, "max new detail pages to process")
	flags.Int("offset", 0, "skip the first N discovered URLs")
	flags.Duration("delay-min", crawler.DefaultDelayMin, "min delay between detail fetches")
	flags.Duration("delay-max", crawler.DefaultDelayMax, "max delay between detail fetches")

	flags.Bool("resume", false, "keep existing feed entries and only crawl new listings")
	flags.Bool("reprocess-images", false, "re-apply the watermark to existing images, no crawling")

	flags.String("fetch-mode", "static", "fetch mode: static, dynamic")
	flags.Duration("timeout", fetcher.DefaultTextTimeout, "HTML request timeout")
	flags.Duration("image-timeout", fetcher.DefaultBinaryTimeout, "image download timeout")

	crawlCmd.MarkFlagsMutuallyExclusive("resume", "reprocess-images")

	_ = viper.BindPFlag("url", flags.Lookup("url"))
	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
}

func runCrawl(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	prof, err := loadProfile(cmd)
	if err != nil {
		return err
	}

	reprocess, _ := cmd.Flags().GetBool("reprocess-images")

	baseURL := viper.GetString("url")
	if baseURL == "" {
		baseURL = prof.BaseURL
	}
	if baseURL == "" && !reprocess {
		return fmt.Errorf("no listing URL: pass --url, set BUKKENFEED_URL, or add base_url to the profile")
	}

	outputDir := viper.GetString("output_dir")
	logoPath, _ := cmd.Flags().GetString("logo")
	if logoPath == "" {
		logoPath = filepath.Join(outputDir, "logo.png")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	delayMin, _ := cmd.Flags().GetDuration("delay-min")
	delayMax, _ := cmd.Flags().GetDuration("delay-max")
	resume, _ := cmd.Flags().GetBool("resume")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	imageTimeout, _ := cmd.Flags().GetDuration("image-timeout")

	text, err := newTextFetcher(cmd, timeout)
	if err != nil {
		return err
	}
	defer func() { _ = text.Close() }()

	binary := fetcher.NewBinary(imageTimeout, fetcher.DefaultRetryPolicy())
	images, err := watermark.NewProcessor(logoPath, binary)
	if err != nil {
		return err
	}

	c, err := crawler.New(crawler.Options{
		BaseURL:         baseURL,
		OutputDir:       outputDir,
		LogoPath:        logoPath,
		Limit:           limit,
		Offset:          offset,
		DelayMin:        delayMin,
		DelayMax:        delayMax,
		Resume:          resume,
		ReprocessImages: reprocess,
	}, prof, text, images)
	if err != nil {
		return err
	}

	if err := c.Run(ctx); err != nil {
		logger.Error("crawl aborted", "error", err)
		return err
	}
	return nil
}

func loadProfile(cmd *cobra.Command) (profile.Profile, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return profile.Default(), nil
	}
	return profile.Load(path)
}

func newTextFetcher(cmd *cobra.Command, timeout time.Duration) (fetcher.TextFetcher, error) {
	mode, _ := cmd.Flags().GetString("fetch-mode")
	cfg := fetcher.Config{Timeout: timeout}

	switch mode {
	case "static", "":
		return fetcher.NewStatic(cfg, fetcher.DefaultRetryPolicy()), nil
	case "dynamic":
		return fetcher.NewDynamic(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static' or 'dynamic')", mode)
	}
}
