package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fencetrack/fencetrack/internal/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  Kim Minsu  ", "Kim Minsu"},
		{"collapses internal runs", "Kim   Min\tsu", "Kim Min su"},
		{"strips corporate marker", "(사)대한펜싱협회", "대한펜싱협회"},
		{"strips company marker", "(주)스포츠클럽", "스포츠클럽"},
		{"strips foundation marker", "(재)체육진흥재단", "체육진흥재단"},
		{"strips long form marker", "(사단법인) 서울펜싱클럽", "서울펜싱클럽"},
		{"marker mid-string", "서울 (사) 펜싱", "서울 펜싱"},
		{"empty input", "", ""},
		{"plain latin name", "Lee Juyoung", "Lee Juyoung"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Name(tt.input))
		})
	}
}

func TestIdentityKey(t *testing.T) {
	// Same player, differently messy mentions.
	assert.Equal(t,
		normalize.IdentityKey("Kim  Minsu", "(사)서울클럽"),
		normalize.IdentityKey(" Kim Minsu ", "서울클럽"),
	)

	// Same name on different teams stays distinct.
	assert.NotEqual(t,
		normalize.IdentityKey("Kim Minsu", "서울클럽"),
		normalize.IdentityKey("Kim Minsu", "부산클럽"),
	)

	// The separator keeps name/team boundaries unambiguous.
	assert.NotEqual(t,
		normalize.IdentityKey("Kim", "Minsu 서울"),
		normalize.IdentityKey("Kim Minsu", "서울"),
	)
}
