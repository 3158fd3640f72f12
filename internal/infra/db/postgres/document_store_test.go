package postgres

import "testing"

func TestSplitPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     string
		parent string
		key    string
		ok     bool
	}{
		{"products", "products", "", false},
		{"products/p1", "products", "p1", true},
		{"settings/rates", "settings", "rates", true},
		{"/settings/rates/", "settings", "rates", true},
		{"a/b/c", "a/b", "c", true},
	}
	for _, tc := range cases {
		parent, key, ok := splitPath(tc.in)
		if parent != tc.parent || key != tc.key || ok != tc.ok {
			t.Errorf("splitPath(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, parent, key, ok, tc.parent, tc.key, tc.ok)
		}
	}
}
