package config

import "testing"

func TestOverlayApplyOverridesOnlySetFields(t *testing.T) {
	a := DefaultAppearance()
	origSnap := a.SnapPx

	gap := 8
	ov := overlay{GapPx: &gap}
	ov.apply(&a)

	if a.GapPx != 8 {
		t.Errorf("GapPx = %d, want 8", a.GapPx)
	}
	if a.SnapPx != origSnap {
		t.Errorf("SnapPx changed to %d despite no override, want unchanged %d", a.SnapPx, origSnap)
	}
}

func TestOverlayApplyRejectsOutOfRangeMFact(t *testing.T) {
	a := DefaultAppearance()
	orig := a.MFact

	bad := 1.5
	ov := overlay{MFact: &bad}
	ov.apply(&a)
	if a.MFact != orig {
		t.Errorf("MFact = %v, want unchanged %v (out-of-range override must be rejected)", a.MFact, orig)
	}

	good := 0.6
	ov = overlay{MFact: &good}
	ov.apply(&a)
	if a.MFact != 0.6 {
		t.Errorf("MFact = %v, want 0.6", a.MFact)
	}
}

func TestOverlayApplyRejectsNegativeNMaster(t *testing.T) {
	a := DefaultAppearance()
	orig := a.NMaster
	bad := -1
	ov := overlay{NMaster: &bad}
	ov.apply(&a)
	if a.NMaster != orig {
		t.Errorf("NMaster = %d, want unchanged %d", a.NMaster, orig)
	}
}

func TestOverlayApplyColors(t *testing.T) {
	a := DefaultAppearance()
	sel := uint32(0xff0000)
	ov := overlay{BorderColorSel: &sel}
	ov.apply(&a)
	if a.BorderColorSel != 0xff0000 {
		t.Errorf("BorderColorSel = %#x, want 0xff0000", a.BorderColorSel)
	}
}

func TestDefaultRulesObeySizeHintsAndTableSizes(t *testing.T) {
	cfg := Default()
	if len(cfg.TagNames) != TagCount {
		t.Errorf("len(TagNames) = %d, want %d", len(cfg.TagNames), TagCount)
	}
	if len(cfg.Layouts) != 3 {
		t.Errorf("len(Layouts) = %d, want 3 ([]=, [M], ><>)", len(cfg.Layouts))
	}
	for _, r := range cfg.Rules {
		if !r.ObeySizeHints {
			t.Errorf("default rule %+v should honor size hints by default", r)
		}
	}
}

func TestDefaultKeysCoverEveryTag(t *testing.T) {
	keys := DefaultKeys()
	var viewBindings int
	for _, k := range keys {
		if k.Action == ActView && k.Arg.Kind == ArgUint && k.Arg.Uint != 0 {
			viewBindings++
		}
	}
	if viewBindings != TagCount {
		t.Errorf("view bindings = %d, want one per tag (%d)", viewBindings, TagCount)
	}
}
