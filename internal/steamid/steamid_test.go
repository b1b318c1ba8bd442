package steamid

import "testing"

func TestConversionRoundTrip(t *testing.T) {
	const account = int64(70388657)
	id64 := ToSteamID64(account)
	if id64 != 76561198030654385 {
		t.Fatalf("ToSteamID64 = %d", id64)
	}
	if back := ToAccountID(id64); back != account {
		t.Fatalf("round trip = %d, want %d", back, account)
	}
}

func TestIsRadiant(t *testing.T) {
	cases := []struct {
		slot    int
		radiant bool
	}{
		{0, true},
		{4, true},
		{127, true},
		{128, false},
		{132, false},
		{255, false},
	}
	for _, c := range cases {
		if got := IsRadiant(c.slot); got != c.radiant {
			t.Errorf("IsRadiant(%d) = %v, want %v", c.slot, got, c.radiant)
		}
	}
}

func TestParse_Formats(t *testing.T) {
	cases := []struct {
		in      string
		kind    Kind
		account int64
		query   string
	}{
		{"76561198030654385", KindSteam64, 70388657, ""},
		{"70388657", KindAccount, 70388657, ""},
		{"STEAM_0:1:35194328", KindSteam2, 70388657, ""},
		{"steam_1:0:12345", KindSteam2, 24690, ""},
		{"[U:1:70388657]", KindSteam3, 70388657, ""},
		{"https://steamcommunity.com/profiles/76561198030654385", KindProfile, 70388657, ""},
		{"https://steamcommunity.com/profiles/76561198030654385/", KindProfile, 70388657, ""},
		{"http://steamcommunity.com/id/somevanity", KindName, 0, "somevanity"},
		{"https://steamcommunity.com/id/somevanity/games", KindName, 0, "somevanity"},
		{"Dendi", KindName, 0, "Dendi"},
		{"  Dendi  ", KindName, 0, "Dendi"},
	}
	for _, c := range cases {
		p, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", c.in, err)
			continue
		}
		if p.Kind != c.kind {
			t.Errorf("Parse(%q).Kind = %q, want %q", c.in, p.Kind, c.kind)
		}
		if p.AccountID != c.account {
			t.Errorf("Parse(%q).AccountID = %d, want %d", c.in, p.AccountID, c.account)
		}
		if p.Query != c.query {
			t.Errorf("Parse(%q).Query = %q, want %q", c.in, p.Query, c.query)
		}
	}
}

func TestParse_Rejections(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"12345678901234", // 14 digits: too long for account, too short for id64
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}
