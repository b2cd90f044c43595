// Package classify maps free-form situation text to one of the coarse
// coaching categories using keyword matching. Classification is a pure
// function: no external calls, no state, deterministic for a given rule set.
package classify

import "strings"

// Category is a coarse label for the social domain of a situation.
type Category string

const (
	// CategoryWorkplace covers meetings, negotiations and conflicts at work.
	CategoryWorkplace Category = "workplace"

	// CategoryRelationship covers dating, early-stage romance and couples.
	CategoryRelationship Category = "relationship"

	// CategorySocial covers friends, family and acquaintances.
	CategorySocial Category = "social"

	// CategoryGeneral is the fallback when no keyword rule matches.
	CategoryGeneral Category = "general"
)

// Rule associates a category with its display metadata and trigger keywords.
type Rule struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// rules is the classification rule set, evaluated in priority order.
// First match wins: a text containing both a workplace keyword and a
// relationship keyword is classified workplace. The fallback category
// carries no keywords and is never matched directly.
var rules = []Rule{
	{
		Category:    CategoryWorkplace,
		Name:        "직장",
		Description: "회의, 협상, 갈등",
		Keywords: []string{
			"직장", "회사", "상사", "회의", "동료", "팀장", "부장",
			"업무", "협상", "면접", "출근", "사무실", "승진", "프로젝트",
		},
	},
	{
		Category:    CategoryRelationship,
		Name:        "연애",
		Description: "데이트, 썸, 관계",
		Keywords: []string{
			"연애", "데이트", "썸", "남친", "여친", "남자친구", "여자친구",
			"애인", "고백", "소개팅", "연락이", "이별", "짝사랑",
		},
	},
	{
		Category:    CategorySocial,
		Name:        "대인관계",
		Description: "친구, 가족, 지인",
		Keywords: []string{
			"친구", "가족", "부모", "엄마", "아빠", "형제", "지인",
			"모임", "이웃", "선배", "후배", "동호회",
		},
	},
	{
		Category:    CategoryGeneral,
		Name:        "일반",
		Description: "일반적 대인관계",
	},
}

// Classify returns the category whose keywords first match the text,
// falling back to CategoryGeneral. Matching is case-insensitive substring
// containment; categories are tested in the fixed priority order
// workplace, relationship, social.
func Classify(text string) Category {
	normalized := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Category
			}
		}
	}
	return CategoryGeneral
}

// ParseCategory validates a caller-supplied category string.
// Returns the matching Category and true, or CategoryGeneral and false
// when the input is not one of the known labels.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryWorkplace:
		return CategoryWorkplace, true
	case CategoryRelationship:
		return CategoryRelationship, true
	case CategorySocial:
		return CategorySocial, true
	case CategoryGeneral:
		return CategoryGeneral, true
	default:
		return CategoryGeneral, false
	}
}

// Rules returns the full rule set in priority order. The slice is shared;
// callers must not mutate it.
func Rules() []Rule {
	return rules
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWorkplace, CategoryRelationship, CategorySocial, CategoryGeneral:
		return true
	}
	return false
}
