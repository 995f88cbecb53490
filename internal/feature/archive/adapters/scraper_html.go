package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"fuelprices_dashboard/internal/feature/archive/domain/entity"
	"fuelprices_dashboard/internal/feature/archive/usecase"

	"golang.org/x/net/html"
)

// filesPrefix は一覧ページ中の速報ファイルへのリンクの接頭辞です。
const filesPrefix = "./files"

// StatusError はサイトが2xx以外を返したことを表します。
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fuelprices.gr http %d: %s", e.StatusCode, e.URL)
}

// HTMLScraper は一覧ページのHTMLから速報ファイルのリンクを抽出します。
type HTMLScraper struct {
	baseURL string
	client  *http.Client
}

var _ usecase.Scraper = (*HTMLScraper)(nil)

func NewHTMLScraper(baseURL string, client *http.Client) *HTMLScraper {
	return &HTMLScraper{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Links は {baseURL}/{kind.Page()} を取得し、"./files" で始まる href を出現順に返します。
func (s *HTMLScraper) Links(ctx context.Context, kind entity.DataKind) ([]string, error) {
	page := kind.Page()
	if page == "" {
		return nil, fmt.Errorf("unknown data kind %q", kind)
	}
	u := s.baseURL + "/" + page

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{URL: u, StatusCode: res.StatusCode}
	}
	return ExtractFileLinks(res.Body)
}

// ExtractFileLinks は <a href="./files..."> の href を文書順に返します。
func ExtractFileLinks(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	var links []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("parse listing: %w", err)
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" && strings.HasPrefix(string(val), filesPrefix) {
					links = append(links, string(val))
					break
				}
				if !more {
					break
				}
			}
		}
	}
}
