// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"salonsite/internal/archive"
	"salonsite/internal/intake"
	"salonsite/internal/models"
	"salonsite/internal/pipeline"
	"salonsite/internal/profile"
	"salonsite/internal/theme"
)

type generateOptions struct {
	profilePath string
	template    string
	imagesDir   string
	out         string
	interactive bool
	quiet       bool
	upload      bool
	expires     time.Duration
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a salon website archive from a profile file",
		Long: `Builds the same ZIP archive as the web form, offline.

The profile is a YAML file using the form field names (salonName, phone,
address, email, website, description, hours, facebook, instagram, whatsapp,
primaryColor, secondaryColor). Pictures are read from --images: files named
after a slot (hero.jpg, logo.png, team1.jpg...) fill that slot and files
named portfolio*.* fill the portfolio in name order.`,
		Example: `  # Build the luxury variant next to the profile
  salonsite generate --profile salon.yaml --template luxury --images ./photos

  # Ask for the variant and the missing fields
  salonsite generate --interactive

  # Publish the archive to the configured bucket
  salonsite generate --profile salon.yaml --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.profilePath, "profile", "p", "", "YAML file with the salon details")
	f.StringVarP(&opts.template, "template", "t", "", "Template variant (default classic)")
	f.StringVarP(&opts.imagesDir, "images", "i", "", "Directory holding the pictures")
	f.StringVarP(&opts.out, "out", "o", "", "Output file (default <salon>-<variant>.zip)")
	f.BoolVar(&opts.interactive, "interactive", false, "Prompt for the variant and missing fields")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar")
	f.BoolVar(&opts.upload, "upload", false, "Upload the archive to the S3 bucket and print a download link")
	f.DurationVar(&opts.expires, "expires", 24*time.Hour, "Lifetime of the download link")

	return cmd
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, opts *generateOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if opts.upload && svc.storage == nil {
		return fmt.Errorf("generate: --upload needs s3.endpoint, s3.bucket and credentials")
	}

	registry := theme.NewRegistry(svc.source)

	raw, err := readProfile(opts.profilePath)
	if err != nil {
		return err
	}

	variant, err := chooseVariant(registry, opts)
	if err != nil {
		return err
	}
	v, _ := registry.Lookup(variant)

	if opts.interactive {
		if raw, err = promptMissing(raw); err != nil {
			return err
		}
	}

	images := models.NewImageSet()
	if opts.imagesDir != "" {
		if err := loadImages(images, opts.imagesDir, intake.New(v.Rules())); err != nil {
			return err
		}
	}

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if opts.quiet {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Copying assets"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}

	gen := svc.generator(registry, archive.WithProgress(progress))
	res, err := gen.Generate(ctx, pipeline.Request{
		SessionID: "cli",
		Variant:   variant,
		Fields:    raw.WithDefaults(),
		Images:    images,
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Archive, 0o644); err != nil {
		return fmt.Errorf("generate: write %s: %w", out, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Wrote %s (%s, %d bytes)\n", out, variant, len(res.Archive))
	for _, missing := range res.Warnings() {
		fmt.Fprintf(w, "  missing asset: %s\n", missing)
	}
	if len(res.Leftover) > 0 {
		fmt.Fprintf(w, "  unreplaced placeholders: %s\n", strings.Join(res.Leftover, ", "))
	}

	if opts.upload {
		key := "generated/" + time.Now().UTC().Format("20060102-150405") + "-" + res.Filename
		if err := svc.storage.Upload(ctx, key, "application/zip", bytes.NewReader(res.Archive), int64(len(res.Archive))); err != nil {
			return err
		}
		link, err := svc.storage.PresignedURL(ctx, key, opts.expires)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Uploaded to s3://%s/%s\n%s\n", svc.storage.Bucket(), key, link)
	}
	return nil
}

// readProfile decodes a YAML profile. An empty path yields an empty
// profile, to be completed interactively.
func readProfile(path string) (profile.Raw, error) {
	var raw profile.Raw
	if path == "" {
		return raw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("generate: read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("generate: parse profile %s: %w", path, err)
	}
	return raw, nil
}

// chooseVariant resolves the --template flag, or asks when it is empty in
// interactive mode.
func chooseVariant(registry *theme.Registry, opts *generateOptions) (models.VariantID, error) {
	if opts.template == "" && opts.interactive {
		return selectVariant(registry)
	}
	if opts.template == "" {
		return models.DefaultVariant, nil
	}
	return registry.ParseVariant(opts.template)
}

// loadImages submits the pictures of dir through the intake policy of the
// variant, exactly as the web form does.
// globIn matches pattern against the entries of dir. The directory itself
// is never read as a pattern, so names like "photos [2026]" are safe.
func globIn(dir, pattern string) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("generate: scan %s: %w", dir, err)
	}
	for i, name := range names {
		names[i] = filepath.Join(dir, filepath.FromSlash(name))
	}
	return names, nil
}

func loadImages(set *models.ImageSet, dir string, in *intake.Intake) error {
	for _, slot := range models.Slots {
		if slot == models.SlotPortfolio {
			continue
		}
		matches, err := globIn(dir, string(slot)+".*")
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			return fmt.Errorf("generate: several pictures for slot %s: %s", slot, strings.Join(matches, ", "))
		}
		u, err := intake.FromFile(matches[0])
		if err != nil {
			return err
		}
		if _, err := in.Submit(set, slot, u); err != nil {
			return err
		}
	}

	matches, err := globIn(dir, "portfolio*.*")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)
	uploads := make([]intake.Upload, 0, len(matches))
	for _, path := range matches {
		u, err := intake.FromFile(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, u)
	}
	_, err = in.SubmitBatch(set, uploads)
	return err
}
