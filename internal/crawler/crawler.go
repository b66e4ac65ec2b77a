// Package crawler drives the whole pipeline: discovery, extraction,
// image processing and feed persistence.
package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/homemart/bukkenfeed/internal/extract"
	"github.com/homemart/bukkenfeed/internal/feed"
	"github.com/homemart/bukkenfeed/internal/fetcher"
	"github.com/homemart/bukkenfeed/internal/listing"
	"github.com/homemart/bukkenfeed/internal/logger"
	"github.com/homemart/bukkenfeed/internal/pagewalk"
	"github.com/homemart/bukkenfeed/internal/profile"
	"github.com/homemart/bukkenfeed/internal/sanitize"
	"github.com/homemart/bukkenfeed/internal/watermark"
)

// Defaults for run parameters.
const (
	DefaultLimit    = 20
	DefaultDelayMin = 5 * time.Second
	DefaultDelayMax = 9 * time.Second
)

// Options are the per-run crawl parameters.
type Options struct {
	BaseURL   string
	OutputDir string
	LogoPath  string

	Limit  int
	Offset int

	DelayMin time.Duration
	DelayMax time.Duration

	Resume          bool
	ReprocessImages bool
}

// Crawler runs one crawl (or reprocess) pass. Execution is deliberately
// single-threaded: the source site must never see request bursts, so the
// only flow control is the randomized delay between items.
type Crawler struct {
	opts      Options
	profile   profile.Profile
	text      fetcher.TextFetcher
	walker    *pagewalk.Walker
	extractor *extract.Extractor
	sanitizer *sanitize.Sanitizer
	images    *watermark.Processor
	rng       *rand.Rand
}

// New wires a Crawler from its collaborators.
func New(opts Options, p profile.Profile, text fetcher.TextFetcher, images *watermark.Processor) (*Crawler, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.DelayMin <= 0 {
		opts.DelayMin = DefaultDelayMin
	}
	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}

	san, err := sanitize.New(p.Identity, p.Rewrite)
	if err != nil {
		return nil, err
	}

	return &Crawler{
		opts:      opts,
		profile:   p,
		text:      text,
		walker:    pagewalk.New(text, p),
		extractor: extract.New(p),
		sanitizer: san,
		images:    images,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Walker exposes the pagination walker, letting callers tune its pacing.
func (c *Crawler) Walker() *pagewalk.Walker {
	return c.walker
}

// Run executes the configured pass. Individual listing or image failures
// are logged and skipped; only top-level failures (unreachable index,
// unwritable output) return an error.
func (c *Crawler) Run(ctx context.Context) error {
	imageDir := filepath.Join(c.opts.OutputDir, feed.ImagesDirName)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("create output dirs: %w", err)
	}

	if c.opts.ReprocessImages {
		return c.reprocessImages()
	}

	feedPath := filepath.Join(c.opts.OutputDir, feed.FileName)
	runID := uuid.NewString()
	log := logger.With("run_id", runID)

	var existing feed.Document
	skipIDs := map[string]bool{}
	if c.opts.Resume {
		var ok bool
		existing, ok = feed.Load(feedPath)
		skipIDs = feed.IDSet(existing)
		log.Info("resuming", "existing_items", len(existing.Items), "feed_present", ok)
	} else {
		feed.CleanImages(imageDir)
	}

	discovered, err := c.walker.Discover(ctx, c.opts.BaseURL, c.opts.Offset+c.opts.Limit)
	if err != nil {
		return err
	}
	if c.opts.Offset > 0 {
		if c.opts.Offset >= len(discovered) {
			discovered = nil
		} else {
			discovered = discovered[c.opts.Offset:]
		}
	}

	targets := make([]string, 0, len(discovered))
	for _, url := range discovered {
		if skipIDs[listing.HashID(url)] {
			log.Debug("already in feed, skipping", "url", url)
			continue
		}
		targets = append(targets, url)
		if len(targets) >= c.opts.Limit {
			break
		}
	}

	log.Info("crawl starting", "discovered", len(discovered), "targets", len(targets))

	var records []listing.Record
	failures := 0
	for i, url := range targets {
		record, err := c.processListing(ctx, url, i)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			log.Error("listing failed", "url", url, "error", err)
		} else {
			records = append(records, record)
			log.Info("listing saved", "url", url, "id", record.ID, "images", len(record.Images))
		}

		if i < len(targets)-1 {
			if err := c.itemDelay(ctx); err != nil {
				return err
			}
		}
	}

	doc := feed.Document{
		Source:    c.profile.Source,
		URL:       c.opts.BaseURL,
		RunID:     runID,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Items:     append(existing.Items, records...),
	}
	if err := feed.Save(feedPath, doc); err != nil {
		return err
	}

	log.Info("crawl complete",
		"new", len(records),
		"failed", failures,
		"total", len(doc.Items),
		"feed", feedPath)
	return nil
}

// processListing fetches one detail page and assembles its record. Image
// failures inside the listing are logged and leave gaps, never abort it.
func (c *Crawler) processListing(ctx context.Context, url string, index int) (listing.Record, error) {
	html, err := c.text.Fetch(ctx, url)
	if err != nil {
		return listing.Record{}, err
	}

	data, err := c.extractor.Parse(html)
	if err != nil {
		return listing.Record{}, fmt.Errorf("parse %s: %w", url, err)
	}

	id := listing.HashID(url)
	imageDir := filepath.Join(c.opts.OutputDir, feed.ImagesDirName)

	var localImages []string
	for i, imageURL := range data.GalleryURLs {
		name := fmt.Sprintf("%s_%d.jpg", id, i+1)
		if err := c.images.Process(ctx, imageURL, filepath.Join(imageDir, name)); err != nil {
			if ctx.Err() != nil {
				return listing.Record{}, ctx.Err()
			}
			logger.Error("image failed", "listing", url, "image", imageURL, "error", err)
			continue
		}
		localImages = append(localImages, c.sitePath(name))
	}

	sitePlan := ""
	if data.SitePlanURL != "" {
		name := id + "_siteplan.jpg"
		if err := c.images.Process(ctx, data.SitePlanURL, filepath.Join(imageDir, name)); err != nil {
			logger.Error("site plan image failed", "listing", url, "image", data.SitePlanURL, "error", err)
		} else {
			sitePlan = c.sitePath(name)
		}
	}

	units := make([]listing.Unit, 0, len(data.Units))
	for i, u := range data.Units {
		unit := listing.Unit{
			Name:         c.sanitizer.Clean(u.Name),
			Price:        c.sanitizer.Clean(u.Price),
			Layout:       c.sanitizer.Clean(u.Layout),
			LandArea:     c.sanitizer.Clean(u.LandArea),
			BuildingArea: c.sanitizer.Clean(u.BuildingArea),
		}
		if u.FloorPlanURL != "" {
			name := fmt.Sprintf("%s_unit%d_floorplan.jpg", id, i+1)
			if err := c.images.Process(ctx, u.FloorPlanURL, filepath.Join(imageDir, name)); err != nil {
				logger.Error("floor plan image failed", "listing", url, "image", u.FloorPlanURL, "error", err)
			} else {
				unit.FloorPlanImage = c.sitePath(name)
			}
		}
		units = append(units, unit)
	}

	return c.assemble(url, id, index, data, localImages, sitePlan, units), nil
}

// assemble builds the final record, sanitizing every user-facing string.
func (c *Crawler) assemble(url, id string, index int, data extract.PageData, images []string, sitePlan string, units []listing.Unit) listing.Record {
	san := c.sanitizer

	title := san.Clean(data.Title)
	if title == "" {
		title = fmt.Sprintf("物件 %d", index+1)
	}
	propertyType := san.Clean(data.PropertyType)
	if propertyType == "" {
		propertyType = "新築戸建"
	}

	transportation := make([]listing.TransportAccess, 0, len(data.Transportation))
	for _, t := range data.Transportation {
		transportation = append(transportation, listing.TransportAccess{
			Line:        san.Clean(t.Line),
			Station:     san.Clean(t.Station),
			WalkMinutes: t.WalkMinutes,
			Text:        san.Clean(t.Text),
		})
	}

	var overview map[string]string
	if len(data.Overview) > 0 {
		overview = make(map[string]string, len(data.Overview))
		for k, v := range data.Overview {
			overview[k] = san.Clean(v)
		}
	}

	surroundings := make([]listing.Surrounding, 0, len(data.Surroundings))
	for _, s := range data.Surroundings {
		surroundings = append(surroundings, listing.Surrounding{
			Category:    s.Category,
			Name:        san.Clean(s.Name),
			DistanceM:   s.DistanceM,
			WalkMinutes: s.WalkMinutes,
		})
	}

	meta := make([]listing.ImageMeta, 0, len(data.ImageMeta))
	for _, m := range data.ImageMeta {
		meta = append(meta, listing.ImageMeta{
			URL:      m.URL,
			Category: san.Clean(m.Category),
			Caption:  san.Clean(m.Caption),
		})
	}

	imageURL := ""
	if len(images) > 0 {
		imageURL = images[0]
	}

	ident := c.profile.Identity
	return listing.Record{
		ID:           id,
		Title:        title,
		Price:        san.Clean(data.Price),
		Address:      san.Clean(data.Address),
		PropertyType: propertyType,
		Description:  san.Clean(data.Description),
		Layout:       san.Clean(data.Layout),
		LandArea:     san.Clean(data.LandArea),
		BuildingArea: san.Clean(data.BuildingArea),
		Traffic:      san.Clean(data.Traffic),

		Transportation: transportation,
		Features:       san.CleanAll(data.Features),
		Overview:       overview,
		EquipmentNotes: san.CleanAll(data.EquipmentNotes),
		Surroundings:   surroundings,
		EventInfo:      san.Clean(data.EventInfo),

		Images:        images,
		ImageURL:      imageURL,
		SitePlanImage: sitePlan,
		Units:         units,
		ImageMeta:     meta,

		SourceURL: url,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),

		CompanyName:    ident.Name,
		CompanyTel:     ident.Tel,
		CompanyAddress: ident.Address,
		VideoURL:       ident.VideoURL,
	}
}

// reprocessImages re-applies the watermark to every image the existing
// feed references, without any network fetches. Used when the logo asset
// changes.
func (c *Crawler) reprocessImages() error {
	feedPath := filepath.Join(c.opts.OutputDir, feed.FileName)
	doc, ok := feed.Load(feedPath)
	if !ok {
		return fmt.Errorf("no feed at %s to reprocess", feedPath)
	}

	imageDir := filepath.Join(c.opts.OutputDir, feed.ImagesDirName)
	processed, failures := 0, 0

	stamp := func(sitePath string) {
		if sitePath == "" {
			return
		}
		local := filepath.Join(imageDir, filepath.Base(sitePath))
		if err := c.images.Stamp(local); err != nil {
			failures++
			logger.Error("restamp failed", "path", local, "error", err)
			return
		}
		processed++
	}

	for _, item := range doc.Items {
		for _, img := range item.Images {
			stamp(img)
		}
		stamp(item.SitePlanImage)
		for _, u := range item.Units {
			stamp(u.FloorPlanImage)
		}
	}

	logger.Info("reprocess complete", "stamped", processed, "failed", failures, "items", len(doc.Items))
	return nil
}

// sitePath converts an image file name into the site-relative path the
// web front end serves it from.
func (c *Crawler) sitePath(name string) string {
	return "/" + c.profile.Source + "/" + feed.ImagesDirName + "/" + name
}

// itemDelay sleeps a uniformly random duration in [DelayMin, DelayMax].
func (c *Crawler) itemDelay(ctx context.Context) error {
	span := c.opts.DelayMax - c.opts.DelayMin
	delay := c.opts.DelayMin
	if span > 0 {
		delay += time.Duration(c.rng.Int63n(int64(span) + 1))
	}
	logger.Debug("inter-item delay", "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
