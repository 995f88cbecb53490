package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataKind_Page(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind DataKind
		page string
	}{
		{DataKindWeekly, "deltia.view"},
		{DataKindDailyCountry, "deltia_d.view"},
		{DataKindDailyPrefecture, "deltia_dn.view"},
		{DataKind("MONTHLY"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.page, tt.kind.Page())
		})
	}
}

func TestParseDataKind(t *testing.T) {
	t.Parallel()

	k, ok := ParseDataKind("DAILY_COUNTRY")
	assert.True(t, ok)
	assert.Equal(t, DataKindDailyCountry, k)

	_, ok = ParseDataKind("daily_country")
	assert.False(t, ok)
}

func TestDataKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []DataKind{DataKindWeekly, DataKindDailyCountry, DataKindDailyPrefecture}, DataKinds())
}
