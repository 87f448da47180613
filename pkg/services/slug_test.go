package services

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"UPPER case Title", "upper-case-title"},
		{"한글 제목 테스트", "한글-제목-테스트"},
		{"Mixed 한글 and English", "mixed-한글-and-english"},
		{"Already-hyphenated title", "already-hyphenated-title"},
		{"Dots.and.symbols#removed", "dotsandsymbolsremoved"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"2024 year in review", "2024-year-in-review"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
