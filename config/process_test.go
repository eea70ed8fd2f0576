package config

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mhollis/cfgexpr/builder"
)

func TestProcessOnlyValues(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test": "3.0",
		"foo":  "false",
	})

	got, err := NewProcessor().Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{
		"test": 3.0,
		"foo":  false,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessNestedValues(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test.a": "3.0",
		"test.b": "4.1",
		"foo.b":  "false",
	})

	got, err := NewProcessor().Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{
		"test": map[string]any{
			"a": 3.0,
			"b": 4.1,
		},
		"foo": map[string]any{
			"b": false,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessTypedGroupsStayInOutput(t *testing.T) {
	// Non-interim groups are not assembled; the host receives the
	// evaluated property tree, discriminator included.
	sec := FromMap("test", map[string]string{
		"test.type":  "constant",
		"test.value": "4.1",
		"foo.type":   "gaussian",
		"foo.scale":  "10",
		"foo.mean":   "0.5",
		"foo.sd":     "0.5",
	})

	proc := NewProcessor(WithBuilder(builder.NewFactory()))

	got, err := proc.Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{
		"test": map[string]any{
			"type":  "constant",
			"value": 4.1,
		},
		"foo": map[string]any{
			"type":  "gaussian",
			"scale": int64(10),
			"mean":  0.5,
			"sd":    0.5,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessInterimValues(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test": "foo + 1",
		"_foo": "2.0",
	})

	got, err := NewProcessor().Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{"test": 3.0}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessInterimBuiltGroup(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test":       "foo + 2.0",
		"_foo.type":  "gaussian",
		"_foo.scale": "10",
		"_foo.mean":  "0.5",
		"_foo.sd":    "0.5",
	})

	proc := NewProcessor(WithBuilder(builder.NewFactory()))

	got, err := proc.Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected only the test key, got %v", got)
	}

	field, ok := got["test"].(*builder.Field)
	if !ok {
		t.Fatalf("expected *builder.Field, got %T", got["test"])
	}

	// At the gaussian's mean the bump is exactly scale, so 10 + 2.
	if v := field.At([]float64{0.5, 0.5, 0.5}); math.Abs(v-12.0) > 1e-9 {
		t.Errorf("expected 12.0 at the peak, got %v", v)
	}
}

func TestProcessInterimChain(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test": "foo + 1",
		"_foo": "bar + baz",
		"_bar": "17.0",
		"_baz": "bar * 2",
	})

	got, err := NewProcessor().Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{"test": 17.0 + (17.0 * 2) + 1}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessStringKeys(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test":  "foo + 1",
		"test2": "2.0",
	})

	proc := NewProcessor(WithStringKeys("test"))

	got, err := proc.Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{
		"test":  "foo + 1",
		"test2": 2.0,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessCarryOver(t *testing.T) {
	proc := NewProcessor(WithCarryOver(true))

	if _, err := proc.Process(FromMap("first", map[string]string{
		"_foo": "2.0",
		"_bar": "1.0",
	})); err != nil {
		t.Fatalf("process error: %v", err)
	}

	got, err := proc.Process(FromMap("second", map[string]string{
		"test": "foo + bar",
	}))
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	want := map[string]any{"test": 3.0}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessWithoutCarryOverClears(t *testing.T) {
	proc := NewProcessor()

	if _, err := proc.Process(FromMap("first", map[string]string{
		"_foo": "2.0",
		"_bar": "1.0",
	})); err != nil {
		t.Fatalf("process error: %v", err)
	}

	got, err := proc.Process(FromMap("second", map[string]string{
		"test": "foo + bar",
	}))
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	// With the registry cleared, foo and bar fall back to plain
	// strings and + concatenates.
	want := map[string]any{"test": "foobar"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestProcessUnresolvedDependency(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test": "foo + 1",
		"_foo": "bar + 1",
		"_bar": "foo * 2",
	})

	_, err := NewProcessor().Process(sec)
	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Errorf("expected %v, got %v", ErrUnresolvedDependency, err)
	}
}

func TestProcessTypedGroupWithoutBuilder(t *testing.T) {
	sec := FromMap("test", map[string]string{
		"test":       "foo + 1.0",
		"_foo.type":  "constant",
		"_foo.value": "4.0",
	})

	_, err := NewProcessor().Process(sec)
	if !errors.Is(err, ErrNoBuilder) {
		t.Errorf("expected %v, got %v", ErrNoBuilder, err)
	}
}

func TestProcessUntypedInterimGroup(t *testing.T) {
	// An interim group without a discriminator resolves to its plain
	// property map.
	sec := FromMap("test", map[string]string{
		"_grp.a": "1.0",
		"_grp.b": "2.0",
	})

	proc := NewProcessor()

	got, err := proc.Process(sec)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected empty output, got %v", got)
	}

	v, ok := proc.Registry().Value("grp")
	if !ok {
		t.Fatal("expected grp to be resolved")
	}

	want := map[string]any{"a": 1.0, "b": 2.0}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("unexpected group value (-want +got):\n%s", diff)
	}
}
