package normalize

import "testing"

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"20140307", "2014-03-07", true},
		{"201403", "2014-03-01", true},
		{"2014", "2014-01-01", true},
		{"03/07/2014", "2014-03-07", true},
		{"03/07/14", "2014-03-07", true},
		{"3/7/14", "2014-03-07", true},
		{"3/7/2014", "2014-03-07", true},
		{"13/07/2014", "", false},
		{"  20140307  ", "2014-03-07", true},
		{"20141307", "", false},
		{"20140230", "", false},
		{"not-a-date", "", false},
		{"2014037", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := Date(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Date(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDatePtr(t *testing.T) {
	if p := DatePtr("junk"); p != nil {
		t.Fatalf("DatePtr(junk) = %q, want nil", *p)
	}
	if p := DatePtr("20200115"); p == nil || *p != "2020-01-15" {
		t.Fatalf("DatePtr(20200115) = %v", p)
	}
}
