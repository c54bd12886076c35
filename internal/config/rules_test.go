package config

import "testing"

func TestMatchFirstRuleWins(t *testing.T) {
	rules := []Rule{
		{Class: "Gimp", Floating: true, Monitor: -1},
		{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
	}
	r := Match(rules, "Firefox", "Navigator", "Mozilla Firefox")
	if r == nil || r.Tags != 1<<8 {
		t.Fatalf("Match(Firefox) = %+v, want the Firefox rule", r)
	}
}

func TestMatchSubstring(t *testing.T) {
	rules := []Rule{{Title: "Picture-in-Picture", Floating: true, Monitor: -1}}
	if r := Match(rules, "chromium", "chromium", "YouTube - Picture-in-Picture"); r == nil {
		t.Fatal("expected title substring match")
	}
	if r := Match(rules, "chromium", "chromium", "YouTube"); r != nil {
		t.Fatal("expected no match without the substring")
	}
}

func TestMatchEmptyFieldMatchesAnything(t *testing.T) {
	rules := []Rule{{Class: "", Monitor: -1, Tags: 4}}
	r := Match(rules, "anything", "anything", "anything")
	if r == nil || r.Tags != 4 {
		t.Fatalf("empty Class should match any client, got %+v", r)
	}
}

func TestMatchNoRuleMatches(t *testing.T) {
	rules := []Rule{{Class: "Gimp", Monitor: -1}}
	if r := Match(rules, "xterm", "xterm", "xterm"); r != nil {
		t.Fatalf("expected nil, got %+v", r)
	}
}
