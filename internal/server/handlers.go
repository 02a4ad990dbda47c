package server

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"time"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/excel"
	"signal-metrics/internal/render"

	"github.com/gin-gonic/gin"
)

const (
	previewRows = 5
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type datasetSummary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Filename  string           `json:"filename"`
	Format    string           `json:"format"`
	Rows      int              `json:"rows"`
	Columns   []string         `json:"columns"`
	Preview   []map[string]any `json:"preview"`
	CreatedAt time.Time        `json:"created_at"`
}

func summarize(d *StoredDataset) datasetSummary {
	return datasetSummary{
		ID:        d.ID,
		Name:      d.Dataset.Name,
		Filename:  d.Filename,
		Format:    d.Format,
		Rows:      d.Dataset.Table.Len(),
		Columns:   d.Dataset.Table.Columns(),
		Preview:   d.Dataset.Table.Head(previewRows),
		CreatedAt: d.CreatedAt,
	}
}

// analysisRequest selects workspace datasets by id; none means all of them.
type analysisRequest struct {
	analysis.Request
	Datasets []string `json:"datasets,omitempty"`
}

func (s *Server) uploadDataset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.cfg.Server.MaxUploadMB)<<20)

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, fmt.Errorf("%w: a file is required: %v", analysis.ErrInvalidRequest, err))
		return
	}
	format, err := analysis.Format(file.Filename)
	if err != nil {
		fail(c, err)
		return
	}

	ws := currentWorkspace(c)
	if len(ws.List()) >= analysis.MaxDatasets {
		fail(c, ErrWorkspaceFull)
		return
	}

	f, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	ds, err := analysis.Load(c.PostForm("name"), file.Filename, f, s.analyzer.DistanceMethod())
	s.metrics.DatasetLoaded(format, err)
	if err != nil {
		s.log.Warn().Err(err).Str("file", file.Filename).Msg("dataset rejected")
		fail(c, err)
		return
	}

	stored, err := ws.Add(ds, file.Filename, format)
	if err != nil {
		fail(c, err)
		return
	}
	s.log.Info().
		Str("workspace", ws.ID).
		Str("dataset", stored.ID).
		Str("name", ds.Name).
		Int("rows", ds.Table.Len()).
		Msg("dataset loaded")

	c.JSON(http.StatusCreated, gin.H{"ok": true, "dataset": summarize(stored)})
}

func (s *Server) listDatasets(c *gin.Context) {
	stored := currentWorkspace(c).List()
	summaries := make([]datasetSummary, 0, len(stored))
	datasets := make([]analysis.Dataset, 0, len(stored))
	for _, d := range stored {
		summaries = append(summaries, summarize(d))
		datasets = append(datasets, d.Dataset)
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"datasets":       summaries,
		"metric_options": analysis.MetricOptions(datasets),
	})
}

func (s *Server) deleteDataset(c *gin.Context) {
	id := c.Param("id")
	if !currentWorkspace(c).Remove(id) {
		fail(c, datasetNotFound(id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) exportDataset(c *gin.Context) {
	id := c.Param("id")
	d, ok := currentWorkspace(c).Get(id)
	if !ok {
		fail(c, datasetNotFound(id))
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteTable(&buf, d.Dataset.Table, "Data"); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(d.Dataset.Name+".xlsx"))
	c.Data(http.StatusOK, xlsxType, buf.Bytes())
}

// analyze binds the request body and runs the analysis. On failure the
// response has already been written.
func (s *Server) analyze(c *gin.Context, kind string) (*analysis.Report, bool) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", analysis.ErrInvalidRequest, err))
		return nil, false
	}

	datasets, err := currentWorkspace(c).Select(req.Datasets)
	if err != nil {
		fail(c, err)
		return nil, false
	}

	report, err := s.analyzer.Run(datasets, req.Request)
	if err != nil {
		s.metrics.AnalysisRun(kind, err)
		fail(c, err)
		return nil, false
	}
	return report, true
}

func (s *Server) runAnalysis(c *gin.Context) {
	report, ok := s.analyze(c, "json")
	if !ok {
		return
	}
	s.metrics.AnalysisRun("json", nil)
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": report, "summary": render.Summary(report)})
}

func (s *Server) renderChart(c *gin.Context) {
	report, ok := s.analyze(c, "chart")
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := render.PNG(&buf, report, s.cfg.Chart.Width, s.cfg.Chart.Height)
	s.metrics.AnalysisRun("chart", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) renderPDF(c *gin.Context) {
	report, ok := s.analyze(c, "pdf")
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := render.PDF(&buf, report, s.cfg.Chart.Width, s.cfg.Chart.Height)
	s.metrics.AnalysisRun("pdf", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", attachment("plot.pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// attachment formats a Content-Disposition value, quoting or RFC 2231
// encoding the file name as needed.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
