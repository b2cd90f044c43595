package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Category
	}{
		{
			name:     "workplace keyword",
			text:     "회의에서 상사가 제 아이디어를 가로챘습니다",
			expected: CategoryWorkplace,
		},
		{
			name:     "relationship keyword",
			text:     "썸 타는 상대가 연락이 뜸해요",
			expected: CategoryRelationship,
		},
		{
			name:     "social keyword",
			text:     "친구가 약속에 자꾸 늦게 나타납니다",
			expected: CategorySocial,
		},
		{
			name:     "no keyword falls back to general",
			text:     "오늘 기분이 이상합니다",
			expected: CategoryGeneral,
		},
		{
			name:     "workplace wins over relationship on mixed input",
			text:     "회사 동료와 데이트를 하게 됐어요",
			expected: CategoryWorkplace,
		},
		{
			name:     "relationship wins over social on mixed input",
			text:     "데이트 얘기를 친구한테 해야 할까요",
			expected: CategoryRelationship,
		},
		{
			name:     "empty string is general",
			text:     "",
			expected: CategoryGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	// Latin-script keywords should not exist in the rule set today, but the
	// contract is case-insensitivity for any input.
	inputs := []string{
		"회의에서 상사가 제 아이디어를 가로챘습니다",
		"썸 타는 상대가 연락이 뜸해요 OK?",
		"Nothing matches HERE",
	}
	for _, s := range inputs {
		assert.Equal(t, Classify(s), Classify(strings.ToUpper(s)))
		assert.Equal(t, Classify(s), Classify(strings.ToLower(s)))
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "회의 준비 때문에 데이트 약속을 미뤘습니다"
	first := Classify(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		ok       bool
	}{
		{"workplace", CategoryWorkplace, true},
		{"relationship", CategoryRelationship, true},
		{"social", CategorySocial, true},
		{"general", CategoryGeneral, true},
		{"  Workplace  ", CategoryWorkplace, true},
		{"", CategoryGeneral, false},
		{"unknown", CategoryGeneral, false},
	}

	for _, tt := range tests {
		cat, ok := ParseCategory(tt.input)
		assert.Equal(t, tt.expected, cat, "input %q", tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
	}
}

func TestRulesOrder(t *testing.T) {
	rs := Rules()
	assert.Len(t, rs, 4)
	assert.Equal(t, CategoryWorkplace, rs[0].Category)
	assert.Equal(t, CategoryRelationship, rs[1].Category)
	assert.Equal(t, CategorySocial, rs[2].Category)
	assert.Equal(t, CategoryGeneral, rs[3].Category)
	assert.Empty(t, rs[3].Keywords, "fallback category must not carry keywords")
}
