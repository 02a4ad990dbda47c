package cli

import (
	"fmt"
	"os"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/calculator"
	"signal-metrics/internal/config"
	"signal-metrics/internal/dataset"
	"signal-metrics/internal/excel"
	"signal-metrics/internal/logger"
	"signal-metrics/internal/models"
	"signal-metrics/internal/render"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	x, y, z   string
	reference string
	frequency float64
	offset    float64
	txHeight  float64
	rxHeight  float64
	pdfPath   string
	xlsxPath  string
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze FILE [FILE2]",
		Short: "Analyse one or two measurement files and print the statistics",
		Args:  cobra.RangeArgs(1, analysis.MaxDatasets),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return runAnalyze(cmd, cfg, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.x, "x", dataset.DistanceColumn, "x-axis metric")
	f.StringVar(&opts.y, "y", "", "y-axis metric (default: $RSSI_COLUMN)")
	f.StringVar(&opts.z, "z", "", "colour metric, single file only")
	f.StringVarP(&opts.reference, "reference", "r", string(models.ReferenceStart), "distance reference point (start, end)")
	f.Float64Var(&opts.frequency, "frequency", 0, "FSPL carrier frequency in Hz")
	f.Float64Var(&opts.offset, "offset", 0, "model offset in dB")
	f.Float64Var(&opts.txHeight, "ht", 0, "Two-Ray transmitter height in metres")
	f.Float64Var(&opts.rxHeight, "hr", 0, "Two-Ray receiver height in metres")
	f.StringVar(&opts.pdfPath, "pdf", "", "write the chart and statistics to this PDF")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "write the first file's annotated table to this XLSX")
	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, files []string, opts analyzeOptions) error {
	log := logger.GetLogger("analyze")
	analyzer := analysis.NewAnalyzer(cfg)

	datasets := make([]analysis.Dataset, 0, len(files))
	for _, path := range files {
		ds, err := loadFile(path, analyzer.DistanceMethod())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debug().Str("file", path).Int("rows", ds.Table.Len()).Msg("dataset loaded")
		datasets = append(datasets, ds)
	}

	req := analysis.Request{
		X:         opts.x,
		Y:         opts.y,
		Z:         opts.z,
		Reference: models.ReferenceMode(opts.reference),
	}
	if req.Y == "" {
		req.Y = cfg.Analysis.RSSIColumn
	}
	flags := cmd.Flags()
	if flags.Changed("frequency") {
		req.Model.FrequencyHz = &opts.frequency
	}
	if flags.Changed("offset") {
		req.Model.OffsetDB = &opts.offset
	}
	if flags.Changed("ht") {
		req.Model.TxHeightM = &opts.txHeight
	}
	if flags.Changed("hr") {
		req.Model.RxHeightM = &opts.rxHeight
	}

	report, err := analyzer.Run(datasets, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render.Title(report))
	for _, s := range report.Series {
		fmt.Fprintf(out, "%s: %d points\n", s.Name, len(s.Points.X))
	}
	for _, line := range render.Summary(report) {
		fmt.Fprintln(out, line)
	}

	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, func(f *os.File) error {
			return render.PDF(f, report, cfg.Chart.Width, cfg.Chart.Height)
		}); err != nil {
			return err
		}
		log.Info().Str("path", opts.pdfPath).Msg("pdf written")
	}

	if opts.xlsxPath != "" {
		tbl := datasets[0].Table
		if tbl.HasColumn(dataset.LatColumn) && tbl.HasColumn(dataset.LonColumn) {
			if tbl, err = calculator.AnnotateDistances(tbl, report.Reference, analyzer.DistanceMethod()); err != nil {
				return err
			}
		}
		if err := writeFile(opts.xlsxPath, func(f *os.File) error {
			return excel.WriteTable(f, tbl, "Data")
		}); err != nil {
			return err
		}
		log.Info().Str("path", opts.xlsxPath).Msg("xlsx written")
	}
	return nil
}

func loadFile(path string, method models.DistanceMethod) (analysis.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return analysis.Dataset{}, err
	}
	defer f.Close()
	return analysis.Load("", path, f, method)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
