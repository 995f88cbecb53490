// Package entity defines the bulletin archive domain types.
package entity

import "time"

// DataKind is a family of bulletins published on its own listing page.
type DataKind string

const (
	DataKindWeekly          DataKind = "WEEKLY"
	DataKindDailyCountry    DataKind = "DAILY_COUNTRY"
	DataKindDailyPrefecture DataKind = "DAILY_PREFECTURE"
)

var dataKindPages = map[DataKind]string{
	DataKindWeekly:          "deltia.view",
	DataKindDailyCountry:    "deltia_d.view",
	DataKindDailyPrefecture: "deltia_dn.view",
}

// DataKinds returns every kind in fetch order.
func DataKinds() []DataKind {
	return []DataKind{DataKindWeekly, DataKindDailyCountry, DataKindDailyPrefecture}
}

// Page is the listing page path relative to the archive base URL.
func (k DataKind) Page() string {
	return dataKindPages[k]
}

// ParseDataKind accepts a kind name such as "DAILY_COUNTRY".
func ParseDataKind(s string) (DataKind, bool) {
	k := DataKind(s)
	_, ok := dataKindPages[k]
	return k, ok
}

// FileLink is one downloadable bulletin found on a listing page.
type FileLink struct {
	Kind DataKind
	// Href is the raw link as published; it names the local file.
	Href string
	// URL is the absolute download URL built from the normalised link.
	URL string
}

// ArchiveFile is a bulletin that has been downloaded.
type ArchiveFile struct {
	Kind      DataKind
	Href      string
	URL       string
	Path      string
	Size      int64
	FetchedAt time.Time
}

// FetchSummary counts what one fetch run did for a kind.
type FetchSummary struct {
	Kind       DataKind
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
}
