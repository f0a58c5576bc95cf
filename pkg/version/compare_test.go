package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aipster/pkg/manager"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected Result
	}{
		{"1.0", "1.0", Equal},
		{"0.9", "1.0", Less},
		{"1.10", "1.9", Greater},
		{"1.2.3", "1.2.4", Less},
		{"1.0", "1", Equal},
		{"1.0.0.0", "1", Equal},
		{"1.0.1", "1", Greater},
		{"v2.0", "2.0", Equal},
		{"2.0-rc1", "2.0-rc2", Less},
		{"1.0.a", "1.0.b", Less},
		{"007", "7", Equal},
		{"12345678901234567890", "12345678901234567891", Less},
		{"1.0-beta", "1.0", Greater},
		{"", "", Equal},
		{"", "0.1", Less},
		{"latest", "latest", Equal},
		{"abc", "abd", Less},
		{"1.10.0", "1.9rc1", Greater},
		{"1.9rc1", "1.9", Greater},
		{"1a", "2", Less},
		{"10", "1a", Greater},
		{"2.0rc1", "2.0-rc1", Equal},
		{"1.0", "1.0.alpha", Less},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
		})
	}
}

var orderedSample = []string{
	"", "0", "1", "2", "10", "1a", "1.0", "1.0.1", "1.10", "1.9", "1.9rc1",
	"1.10.0", "2.0-rc1", "2.0_rc1", "v3", "3.a", "3.B", "10.0.0", "9.99",
	"1..2", "garbage!", "1.0+build5", "a1", "007",
}

func TestCompareAntisymmetric(t *testing.T) {
	versions := orderedSample

	for _, a := range versions {
		assert.Equal(t, Equal, Compare(a, a), "Compare(%q, %q)", a, a)
		for _, b := range versions {
			assert.Equal(t, Compare(a, b), Compare(b, a).Invert(), "Compare(%q, %q)", a, b)
		}
	}
}

func TestCompareTransitive(t *testing.T) {
	for _, a := range orderedSample {
		for _, b := range orderedSample {
			for _, c := range orderedSample {
				ab, bc := Compare(a, b), Compare(b, c)
				if ab == Greater || bc == Greater || (ab == Equal && bc == Equal) {
					continue
				}
				assert.Equal(t, Less, Compare(a, c), "%q <= %q <= %q with one strict", a, b, c)
			}
		}
	}
}

func TestCompareEqualityIsConsistent(t *testing.T) {
	for _, a := range orderedSample {
		for _, b := range orderedSample {
			if Compare(a, b) != Equal {
				continue
			}
			for _, c := range orderedSample {
				assert.Equal(t, Compare(a, c), Compare(b, c), "%q == %q against %q", a, b, c)
			}
		}
	}
}

func TestUpgradable(t *testing.T) {
	installed := manager.Package{Name: "foo", Version: "0.9"}
	newer := manager.Package{Name: "foo", Version: "1.0"}
	other := manager.Package{Name: "bar", Version: "5.0"}

	assert.True(t, Upgradable(installed, newer))
	assert.False(t, Upgradable(newer, installed))
	assert.False(t, Upgradable(installed, installed))
	assert.False(t, Upgradable(installed, other))
	assert.False(t, Upgradable(newer, manager.Package{Name: "foo", Version: "1"}))
	assert.False(t, Upgradable(
		manager.Package{Name: "foo", Version: "1.10.0"},
		manager.Package{Name: "foo", Version: "1.9rc1"},
	))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "less", Less.String())
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "greater", Greater.String())
	assert.Equal(t, Greater, Less.Invert())
}
