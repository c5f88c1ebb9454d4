package listctl

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var colors = []Choice{
	{Value: "foo", Label: "Foo"},
	{Value: "bar", Label: "Bar"},
	{Value: "baz", Label: "Baz"},
}

func TestTextFilterClean(t *testing.T) {
	tests := []struct {
		name  string
		query string
		def   string
		want  string
	}{
		{"absent", "", "", ""},
		{"present", "name=shoes", "", "shoes"},
		{"empty value", "name=", "", ""},
		{"absent ignores default", "", "boots", ""},
		{"empty with default", "name=", "boots", ""},
		{"last value wins", "name=a&name=b", "", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTextFilter("name").WithDefault(tt.def)
			f.HandleRequest(ParseQuery(tt.query))
			if got := f.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
			if !f.Bound() {
				t.Error("Bound() = false after HandleRequest")
			}
		})
	}
}

func TestTextFilterUnboundValue(t *testing.T) {
	f := NewTextFilter("name")
	if f.RawValue() != nil || f.Bound() {
		t.Errorf("unbound filter: RawValue = %v, Bound = %v", f.RawValue(), f.Bound())
	}
}

func TestBooleanFilterClean(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"on=", false},
		{"on=1", true},
		{"on=true", true},
		{"on=0", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := NewBooleanFilter("on")
			f.HandleRequest(ParseQuery(tt.query))
			if got := f.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateFilterClean(t *testing.T) {
	t.Run("default format", func(t *testing.T) {
		f := NewDateFilter("from")
		f.HandleRequest(ParseQuery("from=2024-03-09"))
		got, ok := f.Value()
		if !ok {
			t.Fatalf("no value, CleanErr = %v", f.CleanErr())
		}
		want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Value() = %v, want %v", got, want)
		}
	})

	t.Run("custom format", func(t *testing.T) {
		f := NewDateFilter("from").WithFormat("%d/%m/%Y")
		f.HandleRequest(ParseQuery("from=09/03/2024"))
		got, ok := f.Value()
		if !ok || got.Month() != time.March || got.Day() != 9 {
			t.Errorf("Value() = %v, %v", got, ok)
		}
	})

	t.Run("unparsable falls back to default", func(t *testing.T) {
		def := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		f := NewDateFilter("from").WithDefault(def)
		f.HandleRequest(ParseQuery("from=not-a-date"))
		got, ok := f.Value()
		if !ok || !got.Equal(def) {
			t.Errorf("Value() = %v, %v; want default", got, ok)
		}
		if f.CleanErr() == nil {
			t.Error("CleanErr() = nil, want parse error")
		}
	})

	t.Run("empty is no value", func(t *testing.T) {
		f := NewDateFilter("from")
		f.HandleRequest(ParseQuery("from=+"))
		if _, ok := f.Value(); ok {
			t.Error("expected no value")
		}
		if f.CleanErr() != nil {
			t.Errorf("CleanErr() = %v, want nil", f.CleanErr())
		}
	})
}

func TestChoiceFilterClean(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		def     string
		want    string
		wantSet bool
	}{
		{"valid", "color=bar", "", "bar", true},
		{"not a choice", "color=woz", "", "", false},
		{"absent uses default", "", "foo", "foo", true},
		{"invalid uses default", "color=woz", "baz", "baz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewChoiceFilter("color", colors)
			if tt.def != "" {
				f.WithDefault(tt.def)
			}
			f.HandleRequest(ParseQuery(tt.query))
			got, ok := f.Value()
			if got != tt.want || ok != tt.wantSet {
				t.Errorf("Value() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantSet)
			}
		})
	}
}

func TestChoiceFilterMultiple(t *testing.T) {
	tests := []struct {
		name  string
		query string
		def   string
		want  []string
	}{
		{"keeps order and drops unknown", "color=foo&color=woz&color=bar", "", []string{"foo", "bar"}},
		{"keeps duplicates", "color=bar&color=bar", "", []string{"bar", "bar"}},
		{"none", "", "", []string{}},
		{"none with default", "", "baz", []string{"baz"}},
		{"only unknown with default", "color=woz", "baz", []string{"baz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewChoiceFilter("color", colors).AllowMultiple()
			if tt.def != "" {
				f.WithDefault(tt.def)
			}
			f.HandleRequest(ParseQuery(tt.query))
			if diff := cmp.Diff(tt.want, f.Values()); diff != "" {
				t.Errorf("Values() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRadioFilterClean(t *testing.T) {
	f := NewRadioFilter("size", []Choice{{"s", "Small"}, {"l", "Large"}}).WithDefault("s")

	f.HandleRequest(ParseQuery("size=l"))
	if v, _ := f.Value(); v != "l" {
		t.Errorf("Value() = %q, want %q", v, "l")
	}

	g := NewRadioFilter("size", []Choice{{"s", "Small"}, {"l", "Large"}}).WithDefault("s")
	g.HandleRequest(ParseQuery("size=xl"))
	if v, _ := g.Value(); v != "s" {
		t.Errorf("Value() = %q, want default %q", v, "s")
	}
}

func TestFilterRequiresName(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for empty name")
		} else if err, ok := r.(error); !ok || !IsConfigurationError(err) {
			t.Errorf("recovered %v, want configuration error", r)
		}
	}()
	NewTextFilter("")
}

func TestFilterSummaryEntries(t *testing.T) {
	t.Run("default excluded", func(t *testing.T) {
		f := NewTextFilter("name").WithDefault("boots")
		f.HandleRequest(ParseQuery("name=boots"))
		if entries := f.SummaryEntries(); len(entries) != 0 {
			t.Errorf("entries = %v, want none", entries)
		}
	})

	t.Run("default included", func(t *testing.T) {
		f := NewTextFilter("name").WithDefault("boots").IncludeDefaultInSummary()
		f.HandleRequest(ParseQuery("name=boots"))
		if entries := f.SummaryEntries(); len(entries) != 1 {
			t.Errorf("entries = %v, want one", entries)
		}
	})

	t.Run("empty value omitted", func(t *testing.T) {
		f := NewTextFilter("name").WithDefault("boots")
		f.HandleRequest(ParseQuery("name="))
		if entries := f.SummaryEntries(); len(entries) != 0 {
			t.Errorf("entries = %v, want none", entries)
		}
	})

	t.Run("entry fields", func(t *testing.T) {
		f := NewChoiceFilter("color", colors).WithLabel("Color").WithSummaryLabel("Colour")
		f.HandleRequest(ParseQuery("color=bar"))
		want := []SummaryEntry{{
			Name:         "color",
			Label:        "Colour",
			DisplayValue: "Bar",
			Value:        "bar",
			Actions:      []Action{RemoveValue("color", "bar"), SubmitForm()},
		}}
		if diff := cmp.Diff(want, f.SummaryEntries()); diff != "" {
			t.Errorf("entries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("boolean", func(t *testing.T) {
		f := NewBooleanFilter("stock").WithLabel("In stock")
		f.HandleRequest(ParseQuery("stock=on"))
		entries := f.SummaryEntries()
		if len(entries) != 1 || entries[0].Value != "on" || entries[0].DisplayValue != "" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("date", func(t *testing.T) {
		f := NewDateFilter("from").WithLabel("From")
		f.HandleRequest(ParseQuery("from=2024-03-09"))
		entries := f.SummaryEntries()
		if len(entries) != 1 || entries[0].DisplayValue != "2024-03-09" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		f := NewChoiceFilter("color", colors).AllowMultiple().WithDefault("foo").WithLabel("Color")
		f.HandleRequest(ParseQuery("color=foo&color=baz"))
		entries := f.SummaryEntries()
		if len(entries) != 1 || entries[0].Value != "baz" || entries[0].DisplayValue != "Baz" {
			t.Errorf("entries = %+v", entries)
		}
	})
}

func TestFilterApplyTo(t *testing.T) {
	appendName := Apply(func(names []string, v string) []string {
		return append(names, v)
	})

	t.Run("applies truthy value", func(t *testing.T) {
		f := NewTextFilter("name").OnApply(appendName)
		f.HandleRequest(ParseQuery("name=x"))
		got := f.ApplyTo([]string{"a"}).([]string)
		if diff := cmp.Diff([]string{"a", "x"}, got); diff != "" {
			t.Errorf("ApplyTo mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips falsy value", func(t *testing.T) {
		f := NewTextFilter("name").OnApply(appendName)
		f.HandleRequest(ParseQuery(""))
		got := f.ApplyTo([]string{"a"}).([]string)
		if len(got) != 1 {
			t.Errorf("ApplyTo = %v, want unchanged", got)
		}
	})

	t.Run("skips mismatched types", func(t *testing.T) {
		f := NewBooleanFilter("on").OnApply(appendName)
		f.HandleRequest(ParseQuery("on=1"))
		got := f.ApplyTo([]string{"a"}).([]string)
		if len(got) != 1 {
			t.Errorf("ApplyTo = %v, want unchanged", got)
		}
	})

	t.Run("no apply function", func(t *testing.T) {
		f := NewTextFilter("name")
		f.HandleRequest(ParseQuery("name=x"))
		if got := f.ApplyTo(7); got != 7 {
			t.Errorf("ApplyTo = %v, want 7", got)
		}
	})
}

func TestDateFilterClientFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"%Y-%m-%d", "Y-m-d"},
		{"%d/%m/%Y", "d/m/Y"},
		{"%d %b %Y %H:%M:%S", "d M Y H:i:s"},
		{"%x", ""},
		{"100%%", "100%"},
		{"trailing %", "trailing %"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := NewDateFilter("from").WithFormat(tt.format).ClientFormat(); got != tt.want {
				t.Errorf("ClientFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBooleanFilterDefaultOnlyAffectsSummary(t *testing.T) {
	tests := []struct {
		query       string
		wantValue   bool
		wantEntries int
	}{
		// Absent cleans to false; false differs from the default, but a
		// false flag is never reported.
		{"", false, 0},
		// True equals the default and is left out.
		{"stock=1", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := NewBooleanFilter("stock").WithDefault(true)
			f.HandleRequest(ParseQuery(tt.query))
			if f.Value() != tt.wantValue {
				t.Errorf("Value() = %v, want %v", f.Value(), tt.wantValue)
			}
			if got := len(f.SummaryEntries()); got != tt.wantEntries {
				t.Errorf("SummaryEntries() = %d entries, want %d", got, tt.wantEntries)
			}
		})
	}
}
