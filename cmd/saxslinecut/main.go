package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/client"
	"saxslinecut/pkg/config"
	"saxslinecut/pkg/logger"
	"saxslinecut/pkg/render"
	"saxslinecut/pkg/session"
	"saxslinecut/pkg/transform"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "config.yaml", "YAML configuration file (defaults are used if missing)")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	inputFile := flag.String("input", "", "Binary image triple file")
	leftImage := flag.String("left", "", "Name of the first image to fetch from the backend (when -input is not set)")
	rightImage := flag.String("right", "", "Name of the second image to fetch from the backend")
	qVectorFile := flag.String("qvectors", "", "Optional JSON q-vector file ({\"q_x\": [...], \"q_y\": [...]})")
	outputDir := flag.String("output", "linecuts", "Output directory")
	logScale := flag.Bool("log", false, "Apply log scaling")
	lower := flag.Float64("lower", 0, "Lower clipping percentile")
	upper := flag.Float64("upper", 100, "Upper clipping percentile")
	norm := flag.String("norm", "none", "Normalization: none, minmax or mean")
	mode := flag.String("mode", "together", "Normalization mode: together or individual")
	hRow := flag.Float64("hrow", 0, "Horizontal linecut position (q if q-vectors are loaded, else pixel row; centre of the range if unset)")
	vCol := flag.Float64("vcol", 0, "Vertical linecut position (q if q-vectors are loaded, else pixel column; centre of the range if unset)")
	angle := flag.Float64("angle", 45, "Inclined linecut angle in degrees")
	qcx := flag.Float64("qcx", 0, "Inclined linecut centre qx (with -qcy; needs q-vectors, image centre if unset)")
	qcy := flag.Float64("qcy", 0, "Inclined linecut centre qy")
	width := flag.Float64("width", 0, "Linecut averaging width")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *inputFile == "" && (*leftImage == "" || *rightImage == "") {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line settings override the config file only when given
	set := flagsSet(flag.CommandLine)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log":
			cfg.Display.LogScale = *logScale
		case "lower":
			cfg.Display.LowerPercentile = *lower
		case "upper":
			cfg.Display.UpperPercentile = *upper
		case "norm":
			cfg.Display.Normalization = transform.Normalization(*norm)
		case "mode":
			cfg.Display.NormalizationMode = transform.Mode(*mode)
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := logger.LevelError
	if cfg.Output.Verbose {
		level = logger.LevelInfo
	}
	lg := logger.NewStdout(level)

	fmt.Println("================================")
	fmt.Println("SAXS/GISAXS Q-SPACE LINECUT EXPORT")
	fmt.Println("================================")

	ctx := context.Background()
	startTime := time.Now()

	var fetcher session.Fetcher
	if *inputFile == "" {
		c, err := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, lg.With("client"))
		if err != nil {
			log.Fatalf("Failed to create backend client: %v", err)
		}
		fetcher = c
	}

	sess := session.New(fetcher, session.OptionsFromConfig(cfg), lg.With("session"))
	defer sess.Close()

	if err := loadImages(ctx, sess, cfg, lg, *inputFile, *leftImage, *rightImage); err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	// With a backend this also fetches the q-vectors for the calibration
	if err := sess.SetCalibration(ctx, cfg.Calibration); err != nil {
		log.Printf("Warning: %v", err)
	}
	if *qVectorFile != "" {
		data, err := os.ReadFile(*qVectorFile)
		if err != nil {
			log.Fatalf("Failed to read q-vectors: %v", err)
		}
		qv, err := client.DecodeQVectors(data)
		if err != nil {
			log.Fatalf("Invalid q-vector file: %v", err)
		}
		sess.SetQVectors(qv)
	}

	// Horizontal, vertical and inclined cuts through the centre unless positioned
	h, _ := sess.AddLinecut(models.HorizontalType)
	sess.UpdateLinecut(models.HorizontalType, h.ID, func(lc models.Linecut) models.Linecut {
		return placeLinecut(lc, *hRow, set["hrow"], *width)
	})
	v, _ := sess.AddLinecut(models.VerticalType)
	sess.UpdateLinecut(models.VerticalType, v.ID, func(lc models.Linecut) models.Linecut {
		return placeLinecut(lc, *vCol, set["vcol"], *width)
	})
	var inc models.InclinedLinecut
	if set["qcx"] && set["qcy"] {
		inc, err = sess.AddInclinedAtQ(*qcx, *qcy)
		if err != nil {
			log.Fatalf("Failed to place inclined linecut: %v", err)
		}
	} else {
		inc = sess.AddInclined()
	}
	sess.UpdateInclined(inc.ID, func(lc models.InclinedLinecut) models.InclinedLinecut {
		lc.Angle = *angle
		lc.Width = *width
		return lc
	})
	sess.Flush()

	if err := export(sess, *outputDir); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("\nExport completed in %.2f seconds\n", time.Since(startTime).Seconds())
	fmt.Printf("Output saved to: %s\n", *outputDir)
}

// flagsSet returns the names of the flags given on the command line
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// placeLinecut moves lc to position only when the position was given, so
// negative q positions are honoured and an unset flag keeps the default centre
func placeLinecut(lc models.Linecut, position float64, given bool, width float64) models.Linecut {
	if given {
		lc.Position = position
	}
	lc.Width = width
	return lc
}

// loadImages installs the image pair from a triple file or the backend,
// printing backend progress while the fetch runs
func loadImages(ctx context.Context, sess *session.Session, cfg *config.Config, lg *logger.Leveled, inputFile, left, right string) error {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return err
		}
		triple, err := client.DecodeImageTriple(data)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %dx%d image pair from %s\n", triple.Array1.Cols(), triple.Array1.Rows(), inputFile)
		return sess.SetImages(triple.Array1, triple.Array2)
	}

	if cfg.Backend.ProgressURL != "" {
		progress, err := client.DialProgress(ctx, cfg.Backend.ProgressURL, cfg.ProgressOptions(), lg.With("progress"))
		if err != nil {
			log.Printf("Warning: progress updates unavailable: %v", err)
		} else {
			defer progress.Close()
			go func() {
				for p := range progress.Updates() {
					fmt.Printf("\rFetching images: %.0f%% %s", p.Progress, p.Message)
				}
			}()
		}
	}

	fmt.Printf("Fetching %s and %s from %s...\n", left, right, cfg.Backend.BaseURL)
	if err := sess.LoadImages(ctx, left, right); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func export(sess *session.Session, outputDir string) error {
	full, err := sess.FullResolution()
	if err != nil {
		return err
	}

	images := map[string]models.Image{
		"image_1.png": full.Array1,
		"image_2.png": full.Array2,
		"diff.png":    full.Diff,
	}
	for name, img := range images {
		path := filepath.Join(outputDir, name)
		if err := render.SaveImage(render.ToGray16(img), path); err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
		fmt.Printf("Saved %s\n", path)
	}

	low := sess.Display()
	preview := render.ScaleImage(render.ToGray16(low.Array1), 256)
	if err := render.SaveImage(preview, filepath.Join(outputDir, "preview.png")); err != nil {
		return fmt.Errorf("saving preview: %w", err)
	}

	for _, o := range sess.LinecutOverlays() {
		if o.Band.Len() == 0 {
			fmt.Printf("Warning: %s linecut %d lies outside the image\n", o.Type, o.ID)
		}
	}

	xLabel := "pixel"
	if !sess.QVectors().Empty() {
		xLabel = "q"
	}

	var series []render.Series
	colors := func(id int, t models.LinecutType) (string, string) {
		for _, lc := range sess.Linecuts(t) {
			if lc.ID == id {
				return lc.LeftColor, lc.RightColor
			}
		}
		return "", ""
	}
	for _, t := range []models.LinecutType{models.HorizontalType, models.VerticalType} {
		for _, p := range sess.Profiles(t) {
			left, right := colors(p.ID, t)
			series = append(series,
				render.Series{Label: fmt.Sprintf("%s %d (1)", t, p.ID), X: p.Left.Axis, Y: p.Left.Intensity, Color: left},
				render.Series{Label: fmt.Sprintf("%s %d (2)", t, p.ID), X: p.Right.Axis, Y: p.Right.Intensity, Color: right},
			)
		}
	}
	inclinedColors := map[int][2]string{}
	for _, lc := range sess.InclinedLinecuts() {
		inclinedColors[lc.ID] = [2]string{lc.LeftColor, lc.RightColor}
	}
	for _, p := range sess.InclinedProfiles() {
		left, right := inclinedColors[p.ID][0], inclinedColors[p.ID][1]
		series = append(series,
			render.Series{Label: fmt.Sprintf("inclined %d (1)", p.ID), X: p.Left.QRadial, Y: p.Left.Intensity, Color: left},
			render.Series{Label: fmt.Sprintf("inclined %d (2)", p.ID), X: p.Right.QRadial, Y: p.Right.Intensity, Color: right},
		)
	}

	path := filepath.Join(outputDir, "profiles.png")
	if err := render.PlotProfiles(series, "Linecut profiles", xLabel, path); err != nil {
		return fmt.Errorf("saving profiles: %w", err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}
