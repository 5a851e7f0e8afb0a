package diagnostic

import "testing"

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with location",
			err:  Errorf(UnknownType, "demo.adl", 3, 10, "unknown type %q", "Fooo"),
			want: `demo.adl:3:10: UnknownType: unknown type "Fooo"`,
		},
		{
			name: "without location",
			err:  Errorf(ModuleNotFound, "demo.bar", 0, 0, "module not found in search path"),
			want: "demo.bar: ModuleNotFound: module not found in search path",
		},
		{
			name: "with hint",
			err:  Errorf(UnknownType, "demo.adl", 1, 1, "unknown type %q", "Strng").WithHint("did you mean String?"),
			want: `demo.adl:1:1: UnknownType: unknown type "Strng" (did you mean String?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	d := New()
	if !d.Empty() {
		t.Fatalf("new Diagnostics should be empty")
	}

	d.Warnf("demo.adl-java", 0, 0, "unknown decl %q referenced by sidecar", "Ghost")
	d.Infof("demo.adl-java", 0, 0, "loaded sidecar")

	all := d.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(all))
	}
	if all[0].Severity != Warning || all[1].Severity != Info {
		t.Errorf("unexpected severities: %v, %v", all[0].Severity, all[1].Severity)
	}
}
