package semver

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"patch less", "1.2.2", "1.2.3", -1},
		{"patch greater", "1.2.4", "1.2.3", 1},
		{"minor wins over patch", "1.3.0", "1.2.9", 1},
		{"major wins", "2.0.0", "1.9.9", 1},
		{"missing segments are zero", "1.2", "1.2.0", 0},
		{"short vs long", "1", "1.0.1", -1},
		{"v prefix tolerated", "v1.2.3", "1.2.3", 0},
		{"non-numeric segment parses as zero", "1.x.3", "1.0.3", 0},
		{"empty versions equal", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSatisfies_Wildcard(t *testing.T) {
	for _, rng := range []string{"", "*"} {
		if !Satisfies("0.0.1", rng) {
			t.Errorf("Satisfies(0.0.1, %q) = false, want true", rng)
		}
	}
}

func TestSatisfies_Caret(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.2.0", "^1.2.0", true},
		{"1.9.9", "^1.2.0", true},
		{"2.0.0", "^1.2.0", false},
		{"1.1.9", "^1.2.0", false},
		{"0.3.0", "^0.2.0", true},
	}

	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.rng); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.rng, got, tt.want)
		}
	}
}

func TestSatisfies_Tilde(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.2.3", "~1.2.3", true},
		{"1.2.9", "~1.2.3", true},
		{"1.3.0", "~1.2.3", false},
		{"1.2.2", "~1.2.3", false},
		{"2.2.3", "~1.2.3", false},
	}

	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.rng); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.rng, got, tt.want)
		}
	}
}

func TestSatisfies_Comparators(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.5.0", ">=1.0.0", true},
		{"0.9.0", ">=1.0.0", false},
		{"1.0.0", ">1.0.0", false},
		{"1.0.1", ">1.0.0", true},
		{"2.0.0", "<=2.0.0", true},
		{"2.0.1", "<=2.0.0", false},
		{"1.9.9", "<2.0.0", true},
		{"2.0.0", "<2.0.0", false},
		{"1.5.0", ">= 1.0.0", true}, // space after operator is trimmed
		{"0.9.0", ">= 1.0.0", false},
		{"1.9.9", "< 2.0.0", true},
		{"1.2.5", "^ 1.2.0", true},
		{"1.2.9", "~ 1.2.3", true},
	}

	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.rng); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.rng, got, tt.want)
		}
	}
}

func TestSatisfies_CompoundRange(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.5.0", ">=1.0.0 <2.0.0", true},
		{"2.0.0", ">=1.0.0 <2.0.0", false},
		{"0.9.0", ">=1.0.0 <2.0.0", false},
		{"1.2.5", "^1.2.0 <1.3.0", true},
		{"1.3.1", "^1.2.0 <1.3.0", false},
		{"1.5.0", ">= 1.0.0 < 2.0.0", true},
		{"2.0.0", ">= 1.0.0 < 2.0.0", false},
	}

	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.rng); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.rng, got, tt.want)
		}
	}
}

func TestSatisfies_ExactAndMalformed(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.4", "1.2.3", false},
		// Malformed ranges never panic; they fall through to exact match.
		{"1.2.3", "garbage", false},
		{"garbage", "garbage", true},
		{"1.2.3", "==1.2.3", false},
	}

	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.rng); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.rng, got, tt.want)
		}
	}
}
