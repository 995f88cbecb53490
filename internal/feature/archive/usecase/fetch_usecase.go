package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"fuelprices_dashboard/internal/feature/archive/domain/entity"
	"fuelprices_dashboard/internal/shared/ratelimiter"

	"golang.org/x/sync/errgroup"
)

// ErrUnsafePath は保存先がデータディレクトリの外を指すリンクです。
var ErrUnsafePath = errors.New("link escapes data directory")

// Scraper は一覧ページから速報ファイルへのリンク(生のhref)を取得します。
type Scraper interface {
	Links(ctx context.Context, kind entity.DataKind) ([]string, error)
}

// Downloader はURLの内容をpathに保存し、書き込んだバイト数を返します。
type Downloader interface {
	Download(ctx context.Context, url, path string) (int64, error)
}

// Ledger はダウンロード済みファイルの台帳です。
type Ledger interface {
	Has(ctx context.Context, path string) (bool, error)
	Record(ctx context.Context, f entity.ArchiveFile) error
}

// FetchUsecase は燃料価格速報のアーカイブを取得するユースケースです。
type FetchUsecase struct {
	scraper     Scraper
	downloader  Downloader
	ledger      Ledger
	rateLimiter ratelimiter.RateLimiterInterface
	baseURL     string
	dataDir     string

	now    func() time.Time
	exists func(path string) (bool, error)
}

// NewFetchUsecase は新しい FetchUsecase を作成します。
func NewFetchUsecase(scraper Scraper, downloader Downloader, ledger Ledger, rateLimiter ratelimiter.RateLimiterInterface, baseURL, dataDir string) *FetchUsecase {
	return &FetchUsecase{
		scraper:     scraper,
		downloader:  downloader,
		ledger:      ledger,
		rateLimiter: rateLimiter,
		baseURL:     baseURL,
		dataDir:     dataDir,
		now:         time.Now,
		exists:      fileExists,
	}
}

var (
	digitGroupRe = regexp.MustCompile(`\(\d\)`)
	dashQueryRe  = regexp.MustCompile(`-\?+`)
)

// NormalizeFileLink は公開されたリンクからダウンロード用のリンクを作ります。
// 空白、"(1)" のような番号、"-?" "-??" のような崩れた文字を取り除きます。
func NormalizeFileLink(href string) string {
	s := strings.ReplaceAll(href, " ", "")
	s = digitGroupRe.ReplaceAllString(s, "")
	return dashQueryRe.ReplaceAllString(s, "")
}

// BuildFileURL は正規化したリンクをベースURLからの絶対URLにします。
func BuildFileURL(baseURL, href string) string {
	link := strings.TrimPrefix(NormalizeFileLink(href), "./")
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(link, "/")
}

// TargetPath は生のhrefを dataDir/<kind>/ 以下のローカルパスにします。
func TargetPath(dataDir string, kind entity.DataKind, href string) (string, error) {
	root := filepath.Join(dataDir, string(kind))
	p := filepath.Join(root, filepath.FromSlash(href))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, href)
	}
	return p, nil
}

// FetchAll は指定された種別の一覧ページを並行して巡回し、未取得の速報をダウンロードします。
// 1つのファイルで失敗しても処理を止めずにログに出力し、次のファイルへ進みます。
// 返すエラーはctxのキャンセルのみです。
func (u *FetchUsecase) FetchAll(ctx context.Context, kinds []entity.DataKind) ([]entity.FetchSummary, error) {
	summaries := make([]entity.FetchSummary, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			s, err := u.fetchKind(gctx, kind)
			summaries[i] = s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return summaries, err
	}
	return summaries, nil
}

func (u *FetchUsecase) fetchKind(ctx context.Context, kind entity.DataKind) (entity.FetchSummary, error) {
	summary := entity.FetchSummary{Kind: kind}

	hrefs, err := u.scraper.Links(ctx, kind)
	if err != nil {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		slog.Error("failed to list bulletins", "kind", kind, "error", err)
		summary.Failed++
		return summary, nil
	}

	seen := make(map[string]struct{}, len(hrefs))
	for _, href := range hrefs {
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		summary.Found++

		link := entity.FileLink{Kind: kind, Href: href, URL: BuildFileURL(u.baseURL, href)}
		fetched, err := u.fetchOne(ctx, link)
		switch {
		case err != nil && ctx.Err() != nil:
			return summary, ctx.Err()
		case err != nil:
			slog.Error("failed to fetch bulletin", "kind", kind, "href", href, "error", err)
			summary.Failed++
		case fetched:
			summary.Downloaded++
		default:
			summary.Skipped++
		}
	}

	slog.Info("archive fetch finished",
		"kind", kind,
		"found", summary.Found,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// fetchOne は1ファイルを取得します。既に存在する場合は false を返します。
func (u *FetchUsecase) fetchOne(ctx context.Context, link entity.FileLink) (bool, error) {
	path, err := TargetPath(u.dataDir, link.Kind, link.Href)
	if err != nil {
		return false, err
	}

	ok, err := u.exists(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if ok {
		return false, nil
	}
	recorded, err := u.ledger.Has(ctx, path)
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	if recorded {
		return false, nil
	}

	if err := u.rateLimiter.WaitIfNeeded(ctx); err != nil {
		return false, err
	}
	size, err := u.downloader.Download(ctx, link.URL, path)
	if err != nil {
		return false, err
	}

	if err := u.ledger.Record(ctx, entity.ArchiveFile{
		Kind:      link.Kind,
		Href:      link.Href,
		URL:       link.URL,
		Path:      path,
		Size:      size,
		FetchedAt: u.now().UTC(),
	}); err != nil {
		// ファイルは保存済みなので次回は存在チェックでスキップされる
		slog.Warn("failed to record bulletin", "path", path, "error", err)
	}
	return true, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
