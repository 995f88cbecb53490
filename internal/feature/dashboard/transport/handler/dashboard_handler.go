// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fuelprices_dashboard/internal/feature/dashboard/adapters/chartrender"
	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
	"fuelprices_dashboard/internal/feature/dashboard/transport/http/dto"
	"fuelprices_dashboard/internal/feature/dashboard/usecase"
)

// IndexTemplate はダッシュボード画面のテンプレート名です。
const IndexTemplate = "index.html"

//go:embed templates/*.html
var templatesFS embed.FS

// Templates はダッシュボード画面のテンプレートを返します。gin.Engine.SetHTMLTemplateに渡します。
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"evolutionClass": evolutionClass,
	}).ParseFS(templatesFS, "templates/*.html"))
}

// PageController はダッシュボード画面の状態遷移を抽象化します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PageController interface {
	Initialize(ctx context.Context) (entity.Page, error)
	Initialized() bool
	SelectRange(ctx context.Context, start, end time.Time) (entity.Page, error)
	Snapshot() entity.Page
}

// ChartRenderer はチャートの描画を抽象化します。
type ChartRenderer interface {
	HTML(w io.Writer, chart entity.ChartData) error
	PNG(chart entity.ChartData) ([]byte, error)
}

// DashboardHandler はダッシュボード画面とそのJSON APIのHTTPリクエストを処理します。
type DashboardHandler struct {
	pc     PageController
	charts ChartRenderer

	initMu sync.Mutex
}

// NewDashboardHandler はDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(pc PageController, charts ChartRenderer) *DashboardHandler {
	return &DashboardHandler{pc: pc, charts: charts}
}

// Index はダッシュボード画面をHTMLで返します。
// クエリにstart_date/end_dateがある場合は範囲を変更してから表示します。
//
// エンドポイント例:
// GET /?start_date=2024-02-01&end_date=2024-05-01
func (h *DashboardHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := h.ensureInitialized(ctx)
	if err != nil {
		c.HTML(http.StatusBadGateway, IndexTemplate, indexView{RangeError: usecase.LoadFailedMessage})
		return
	}

	status := http.StatusOK
	var rangeErr string
	start, end := c.Query("start_date"), c.Query("end_date")
	if start != "" || end != "" {
		page, err = h.selectRange(ctx, start, end)
		if err != nil {
			status = statusFor(err)
			rangeErr = err.Error()
			page = h.pc.Snapshot()
		}
	}

	c.HTML(status, IndexTemplate, newIndexView(page, rangeErr))
}

// Chart は現在の選択範囲の折れ線チャートをインタラクティブなHTMLで返します。
//
// エンドポイント例:
// GET /chart
func (h *DashboardHandler) Chart(c *gin.Context) {
	page, err := h.ensureInitialized(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.charts.HTML(&buf, page.Chart); err != nil {
		slog.Error("failed to render chart", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ChartPNG は表示中の系列のチャートをPNG画像で返します。
//
// エンドポイント例:
// GET /chart.png
func (h *DashboardHandler) ChartPNG(c *gin.Context) {
	page, err := h.ensureInitialized(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	img, err := h.charts.PNG(page.Chart)
	if errors.Is(err, chartrender.ErrNoData) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		slog.Error("failed to render png chart", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", img)
}

// View は現在の画面状態をJSONで返します。
//
// エンドポイント例:
// GET /api/view
func (h *DashboardHandler) View(c *gin.Context) {
	page, err := h.ensureInitialized(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// ChartData は現在のチャートデータをChart.js形式のJSONで返します。
//
// エンドポイント例:
// GET /api/chart
func (h *DashboardHandler) ChartData(c *gin.Context) {
	page, err := h.ensureInitialized(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewChartResponse(page.Chart))
}

// SelectRange は日付範囲を変更し、新しい画面状態をJSONで返します。
//
// エンドポイント例:
// POST /api/range {"start_date":"2024-02-01","end_date":"2024-05-01"}
func (h *DashboardHandler) SelectRange(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.ensureInitialized(ctx); err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	page, err := h.selectRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// ensureInitialized は初回アクセス時に初期ロードを行い、現在の画面状態を返します。
func (h *DashboardHandler) ensureInitialized(ctx context.Context) (entity.Page, error) {
	if h.pc.Initialized() {
		return h.pc.Snapshot(), nil
	}

	h.initMu.Lock()
	defer h.initMu.Unlock()
	if h.pc.Initialized() {
		return h.pc.Snapshot(), nil
	}

	page, err := h.pc.Initialize(ctx)
	if err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		slog.Error("failed to initialize dashboard", "error", err)
		return entity.Page{}, err
	}
	return page, nil
}

// selectRange は日付文字列をパースして範囲を変更します。
// 後から選択された範囲に上書きされた場合でも、その最新の状態を返します。
func (h *DashboardHandler) selectRange(ctx context.Context, startStr, endStr string) (entity.Page, error) {
	start, err := usecase.ParseDate(strings.TrimSpace(startStr))
	if err != nil {
		return entity.Page{}, err
	}
	end, err := usecase.ParseDate(strings.TrimSpace(endStr))
	if err != nil {
		return entity.Page{}, err
	}

	page, err := h.pc.SelectRange(ctx, start, end)
	if errors.Is(err, usecase.ErrSuperseded) {
		slog.Debug("range selection superseded", "start", startStr, "end", endStr)
		return page, nil
	}
	return page, err
}

// statusFor はエラーをHTTPステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
