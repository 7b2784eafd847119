package action

import "testing"

func TestNewStampsRoutingAndCorrelation(t *testing.T) {
	incType := DefineAction[int]("counter/inc")
	a := New(incType, "counter", 1)

	if a.RoutingTag() != "counter" {
		t.Errorf("RoutingTag() = %q, want %q", a.RoutingTag(), "counter")
	}
	if a.Type != "counter/inc" {
		t.Errorf("Type = %q, want %q", a.Type, "counter/inc")
	}
	if a.Correlation() == "" {
		t.Error("expected a non-empty correlation id")
	}
	if a.IsHighPriority() {
		t.Error("New without High() should not be high-priority")
	}
}

func TestNewWithHighPriority(t *testing.T) {
	incType := DefineAction[int]("counter/inc")
	a := New(incType, "counter", 1, High())
	if !a.IsHighPriority() {
		t.Error("New with High() should be high-priority")
	}
}

func TestNewDistinctCorrelationIDs(t *testing.T) {
	incType := DefineAction[int]("counter/inc")
	a1 := New(incType, "counter", 1)
	a2 := New(incType, "counter", 1)
	if a1.Correlation() == a2.Correlation() {
		t.Error("each dispatched action should get a distinct correlation id")
	}
}

func TestContextMetaWithDoesNotMutateReceiver(t *testing.T) {
	c := Context{Meta: map[string]any{"a": 1}}
	c2 := c.MetaWith("b", 2)

	if _, ok := c.MetaValue("b"); ok {
		t.Error("MetaWith must not mutate the receiver")
	}
	v, ok := c2.MetaValue("b")
	if !ok || v != 2 {
		t.Errorf("MetaValue(b) = (%v, %v), want (2, true)", v, ok)
	}
	v, ok = c2.MetaValue("a")
	if !ok || v != 1 {
		t.Error("MetaWith should preserve existing entries")
	}
}

func TestContextMetaValueMissingKey(t *testing.T) {
	c := Context{}
	if _, ok := c.MetaValue("missing"); ok {
		t.Error("MetaValue on a nil Meta map should report ok=false")
	}
}

func TestDispatchOptionsApplyMeta(t *testing.T) {
	incType := DefineAction[int]("counter/inc")
	a := New(incType, "counter", 1, WithMeta(map[string]any{"k": "v"}), WithSource("test"), WithTrace("trace-1"))
	if a.Source != "test" || a.TraceID != "trace-1" {
		t.Fatalf("unexpected context fields: %+v", a)
	}
	if a.Meta["k"] != "v" {
		t.Fatalf("Meta = %+v, want k=v", a.Meta)
	}
}
