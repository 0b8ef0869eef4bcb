package scope

import (
	"errors"
	"testing"
)

func TestParsePath_Normalization(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "Projects/AI", "Projects/AI"},
		{"leading slash", "/Projects/AI", "Projects/AI"},
		{"trailing slash", "Projects/AI/", "Projects/AI"},
		{"repeated slashes", "/Projects//AI/", "Projects/AI"},
		{"outer whitespace", "  Projects/AI  ", "Projects/AI"},
		{"component whitespace", " Projects / AI ", "Projects/AI"},
		{"empty is root", "", ""},
		{"slash is root", "/", ""},
		{"whitespace is root", "   ", ""},
		{"single component", "Chem", "Chem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.raw)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.raw, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("ParsePath(%q).String() = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePath_RejectsDotComponents(t *testing.T) {
	tests := []string{
		".",
		"..",
		"Projects/./AI",
		"Projects/../AI",
		"../Projects",
		"Projects/..",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParsePath(raw); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("ParsePath(%q) error = %v, want ErrInvalidPath", raw, err)
			}
		})
	}
}

func TestParsePath_Idempotent(t *testing.T) {
	tests := []string{
		"Projects/AI",
		"/Projects//AI/",
		"  a / b / c  ",
		"",
		"/",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			first, err := ParsePath(raw)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", raw, err)
			}
			second, err := ParsePath(first.String())
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", first.String(), err)
			}
			if !first.Equal(second) {
				t.Errorf("ParsePath(ParsePath(%q).String()) = %q, want %q", raw, second, first)
			}
		})
	}
}

func TestPath_IsParentOf_PrefixExactness(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{"Chem does not admit Chemistry", "Chem", "Chemistry", false},
		{"Math does not admit Mathematics", "Math", "Mathematics", false},
		{"AI does not admit AI-Extended", "Projects/AI", "Projects/AI-Extended/X", false},
		{"exact child", "Projects/AI", "Projects/AI/Research", true},
		{"deep descendant", "Projects", "Projects/AI/Research/2024", true},
		{"root admits everything", "", "Anything", true},
		{"root admits deep path", "", "A/B/C", true},
		{"path is not its own parent", "Projects/AI", "Projects/AI", false},
		{"root is not its own parent", "", "", false},
		{"reversed", "Projects/AI/Research", "Projects/AI", false},
		{"sibling", "Projects/AI", "Projects/ML", false},
		{"case sensitive", "projects/ai", "Projects/AI/Research", false},
		{"mid-component divergence", "Projects/AI/X", "Projects/AI-Extended/X/Y", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := MustParsePath(tt.parent)
			child := MustParsePath(tt.child)
			if got := parent.IsParentOf(child); got != tt.want {
				t.Errorf("%q.IsParentOf(%q) = %v, want %v", tt.parent, tt.child, got, tt.want)
			}
		})
	}
}

func TestPath_Contains(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		page   string
		want   bool
	}{
		{"equal", "Projects/AI", "Projects/AI", true},
		{"descendant", "Projects/AI", "Projects/AI/Models", true},
		{"substring sibling", "Projects/AI", "Projects/AI-Extended/Advanced", false},
		{"unrelated", "Projects/AI", "Research/Physics", false},
		{"root contains root", "", "", true},
		{"root contains all", "", "Research/Physics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder := MustParsePath(tt.folder)
			page := MustParsePath(tt.page)
			if got := folder.Contains(page); got != tt.want {
				t.Errorf("%q.Contains(%q) = %v, want %v", tt.folder, tt.page, got, tt.want)
			}
		})
	}
}

func TestPath_Derived(t *testing.T) {
	root := MustParsePath("")
	if !root.IsRoot() {
		t.Error("root.IsRoot() = false, want true")
	}
	if root.Depth() != 0 {
		t.Errorf("root.Depth() = %d, want 0", root.Depth())
	}

	p := MustParsePath("Projects/AI/Models")
	if p.IsRoot() {
		t.Error("non-root IsRoot() = true, want false")
	}
	if p.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", p.Depth())
	}
	if p.String() != "Projects/AI/Models" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestPath_Equal(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Projects/AI", "Projects/AI", true},
		{"/Projects//AI/", "Projects/AI", true},
		{"Projects/AI", "Projects/ai", false},
		{"Projects/AI", "Projects/AI/Models", false},
		{"", "", true},
		{"", "A", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a := MustParsePath(tt.a)
			b := MustParsePath(tt.b)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("%q.Equal(%q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
