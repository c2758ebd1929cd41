package domain

import "testing"

func TestBusinessName(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"Starbucks, 789 Elm St, Houston, TX", "Starbucks"},
		{"  Walmart , 123 Main St", "Walmart"},
		{"123 Main St, Houston, TX", ""},
		{"9th Street Deli, Austin, TX", ""},
		{"Houston", ""},
		{", Houston, TX", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := BusinessName(c.address); got != c.want {
			t.Errorf("BusinessName(%q) = %q, want %q", c.address, got, c.want)
		}
	}
}

func TestDisplayNameForAddress(t *testing.T) {
	if got := DisplayNameForAddress("Target, 456 Oak Ave, Houston, TX"); got != "Target" {
		t.Fatalf("got %q, want Target", got)
	}

	addr := "456 Oak Ave, Houston, TX 77002, USA"
	if got := DisplayNameForAddress(addr); got != addr {
		t.Fatalf("got %q, want full address", got)
	}
}
