package usecase

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fuelprices_dashboard/internal/feature/dashboard/domain/entity"
)

// BuildPrefectureRows は県別スナップショットから、入力順に県ごと1行のテーブル行を生成します。
// 県ごとの価格内訳はまだ表示しないため、デバッグログにのみ出力します。
func BuildPrefectureRows(snapshot entity.CountrySnapshot) []entity.PrefectureRow {
	rows := make([]entity.PrefectureRow, 0, len(snapshot.Prefectures))
	for _, p := range snapshot.Prefectures {
		slog.Debug("prefecture snapshot", "prefecture", p.Prefecture, "prices", len(p.Data))
		rows = append(rows, entity.PrefectureRow{
			Prefecture: p.Prefecture,
			Label:      PrefectureLabel(p.Prefecture),
		})
	}
	return rows
}

// PrefectureLabel はAPIの県識別子を表示用ラベルに変換します（例: "EAST_ATTICA" → "East Attica"）。
func PrefectureLabel(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(strings.Join(words, " ")))
}
