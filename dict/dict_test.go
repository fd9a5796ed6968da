package dict

import "testing"

func TestEntryNew(t *testing.T) {
	e := NewEntry("hello", 5)
	if e.Value != "hello" || e.Frequency != 5 {
		t.Errorf("entry = %+v, want value=hello frequency=5", e)
	}
}

func TestEntryProvidesBenefitLongString(t *testing.T) {
	e := NewEntryAt("long_string_value", 10, 0)
	if !e.ProvidesBenefit() {
		t.Errorf("entry %+v should provide benefit", e)
	}
}

func TestEntryNoBenefitShortString(t *testing.T) {
	e := NewEntryAt("a", 2, 0)
	if e.ProvidesBenefit() {
		t.Errorf("entry %+v should not provide benefit", e)
	}
}

func TestReferenceLength(t *testing.T) {
	cases := map[int]int{0: 2, 9: 2, 10: 3, 99: 3, 100: 4}
	for index, want := range cases {
		if got := referenceLength(index); got != want {
			t.Errorf("referenceLength(%d) = %d, want %d", index, got, want)
		}
	}
}

func TestBuilderBuildEntriesOrdersByBenefit(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 20; i++ {
		b.Add("common_repeated_value")
	}
	for i := 0; i < 5; i++ {
		b.Add("less_common_value")
	}
	b.Add("unique_value")

	entries := b.BuildEntries()
	if len(entries) == 0 {
		t.Fatal("expected at least one dictionary entry")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].BytesSaved > entries[i-1].BytesSaved {
			t.Errorf("entries not sorted by bytes saved: %+v", entries)
		}
	}
	for _, e := range entries {
		if e.Value == "unique_value" {
			t.Error("a value occurring once should never be a dictionary candidate")
		}
	}
}

func TestBuilderHasBenefit(t *testing.T) {
	b := NewBuilder()
	if b.HasBenefit() {
		t.Error("empty builder should have no benefit")
	}
	for i := 0; i < 10; i++ {
		b.Add("repeated_value_worth_referencing")
	}
	if !b.HasBenefit() {
		t.Error("builder with a repeated long value should have benefit")
	}
}

func TestEnumDetectorBooleanColumn(t *testing.T) {
	d := NewEnumDetector()
	first, second, ok := d.IsBooleanColumn([]string{"true", "false", "true", "true"})
	if !ok {
		t.Fatal("expected boolean column detection")
	}
	if first != "true" || second != "false" {
		t.Errorf("IsBooleanColumn = (%q, %q), want (true, false)", first, second)
	}
}

func TestEnumDetectorEnumColumn(t *testing.T) {
	d := NewEnumDetector()
	values, ok := d.IsEnumColumn([]string{"red", "green", "blue", "red", "green"})
	if !ok {
		t.Fatal("expected enum column detection")
	}
	if len(values) != 3 {
		t.Errorf("IsEnumColumn = %v, want 3 distinct values", values)
	}
}

func TestEnumDetectorRejectsTooManyDistinct(t *testing.T) {
	d := NewEnumDetectorWithMax(2)
	if _, ok := d.IsEnumColumn([]string{"a", "b", "c"}); ok {
		t.Error("expected rejection above max distinct values")
	}
}

func TestNormalizeBoolean(t *testing.T) {
	cases := map[string]bool{"true": true, "1": true, "YES": true, "0": false, "n": false}
	for in, want := range cases {
		got, ok := NormalizeBoolean(in)
		if !ok || got != want {
			t.Errorf("NormalizeBoolean(%q) = %v, %v, want %v, true", in, got, ok, want)
		}
	}
}
