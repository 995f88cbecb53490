package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// LoadFailedMessage は取得に失敗したビューに表示するメッセージです。
const LoadFailedMessage = "Failed to load data"

// PageController はダッシュボード画面の状態（日付ピッカー・チャート・各テーブル）を保持し、
// 初期ロードと範囲変更の2つの遷移を制御します。
//
// ロードごとに世代番号を採番し、新しいロードを開始すると実行中の古いロードをキャンセルします。
// 現在の世代でない結果は破棄されるため、後から完了した古いリクエストが画面を上書きすることはありません。
type PageController struct {
	uc *DashboardUsecase

	mu          sync.Mutex
	page        entity.Page
	initialized bool
	gen         uint64
	cancel      context.CancelFunc
}

// NewPageController はPageControllerの新しいインスタンスを生成します。
func NewPageController(uc *DashboardUsecase) *PageController {
	return &PageController{uc: uc}
}

// Initialize は初期ロードを行います。日付範囲を取得してピッカーを初期化し（選択は直近3か月）、
// 画面はAPIの日付範囲全体でロードします。
func (pc *PageController) Initialize(ctx context.Context) (entity.Page, error) {
	picker, err := pc.uc.InitPicker(ctx)
	if err != nil {
		return entity.Page{}, fmt.Errorf("initialize date picker: %w", err)
	}

	pc.mu.Lock()
	pc.page = entity.Page{Picker: picker}
	pc.initialized = true
	pc.mu.Unlock()

	slog.Info("date picker initialized",
		"min", picker.Bounds.StartDate.Format(entity.DateLayout),
		"max", picker.Bounds.EndDate.Format(entity.DateLayout))

	return pc.load(ctx, picker.Bounds, false)
}

// Initialized は初期ロード済みかどうかを返します。
func (pc *PageController) Initialized() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.initialized
}

// SelectRange は日付範囲の変更を処理し、新しい範囲で画面をロードします。
// ロード中にさらに新しい範囲が選択された場合はErrSupersededと最新の画面状態を返します。
func (pc *PageController) SelectRange(ctx context.Context, start, end time.Time) (entity.Page, error) {
	pc.mu.Lock()
	if !pc.initialized {
		pc.mu.Unlock()
		return entity.Page{}, ErrNotInitialized
	}
	bounds := pc.page.Picker.Bounds
	pc.mu.Unlock()

	if err := ValidateRange(bounds, start, end); err != nil {
		return entity.Page{}, err
	}
	return pc.load(ctx, entity.DateRange{StartDate: start, EndDate: end}, true)
}

// Snapshot は現在の画面状態のコピーを返します。
func (pc *PageController) Snapshot() entity.Page {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.page.Clone()
}

// load は表示中の日付ラベルを即座に更新したうえで、日次データと県別スナップショットを並行に取得し、
// それぞれの結果が届いた時点で対応するビューだけを更新します。
// selectRangeがtrueの場合はピッカーの選択範囲もrngに更新します。
func (pc *PageController) load(ctx context.Context, rng entity.DateRange, selectRange bool) (entity.Page, error) {
	// 呼び出し元（HTTPリクエスト）が切断されても画面状態の更新は完了させる。
	// キャンセルされるのは新しい範囲が選択されたときだけ。
	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	pc.mu.Lock()
	if pc.cancel != nil {
		pc.cancel()
	}
	pc.gen++
	gen := pc.gen
	pc.cancel = cancel
	pc.page.Generation = gen
	if selectRange {
		pc.page.Picker.Selection = rng
	}
	pc.page.LatestDate = rng.EndDate
	pc.page.DailyPending = true
	pc.page.SnapshotPending = true
	pc.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		chart, rows, err := pc.uc.FetchDaily(loadCtx, rng.StartDate, rng.EndDate)
		applied := pc.apply(gen, func(p *entity.Page) {
			p.DailyPending = false
			if err != nil {
				p.Chart = entity.ChartData{}
				p.LatestPrices = nil
				p.DailyError = LoadFailedMessage
				return
			}
			p.Chart = chart
			p.LatestPrices = rows
			p.DailyError = ""
		})
		logLoadResult("daily country data", applied, err)
		return nil
	})
	g.Go(func() error {
		rows, err := pc.uc.FetchPrefectures(loadCtx, rng.EndDate)
		applied := pc.apply(gen, func(p *entity.Page) {
			p.SnapshotPending = false
			if err != nil {
				p.Prefectures = nil
				p.SnapshotError = LoadFailedMessage
				return
			}
			p.Prefectures = rows
			p.SnapshotError = ""
		})
		logLoadResult("country snapshot", applied, err)
		return nil
	})
	_ = g.Wait()

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.gen != gen {
		return pc.page.Clone(), ErrSuperseded
	}
	pc.cancel = nil
	return pc.page.Clone(), nil
}

// apply はgenが現在の世代である場合にのみ画面状態を更新し、更新したかどうかを返します。
func (pc *PageController) apply(gen uint64, fn func(p *entity.Page)) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.gen != gen {
		return false
	}
	fn(&pc.page)
	return true
}

func logLoadResult(what string, applied bool, err error) {
	switch {
	case !applied:
		slog.Debug("discarded stale result", "view", what, "error", err)
	case err != nil && errors.Is(err, context.Canceled):
		slog.Warn("load canceled", "view", what, "error", err)
	case err != nil:
		slog.Error("failed to load", "view", what, "error", err)
	}
}
