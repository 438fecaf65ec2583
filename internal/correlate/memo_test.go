package correlate

import "testing"

func TestMemoDeterministic(t *testing.T) {
	a := Memo("donor-1", "caller-1", 1700000000000000000)
	b := Memo("donor-1", "caller-1", 1700000000000000000)
	if a != b {
		t.Fatalf("Memo must be deterministic, got %d and %d", a, b)
	}
}

func TestMemoVariesWithInputs(t *testing.T) {
	base := Memo("donor-1", "caller-1", 1700000000000000000)

	tests := []struct {
		name  string
		donor string
		call  string
		nano  int64
	}{
		{"different donor", "donor-2", "caller-1", 1700000000000000000},
		{"different caller", "donor-1", "caller-2", 1700000000000000000},
		{"different time", "donor-1", "caller-1", 1700000000000000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memo(tt.donor, tt.call, tt.nano); got == base {
				t.Errorf("Memo(%q, %q, %d) collided with base value %d", tt.donor, tt.call, tt.nano, base)
			}
		})
	}
}

func TestMemoFieldsAreDelimited(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not concatenate to the same input.
	if Memo("ab", "c", 1) == Memo("a", "bc", 1) {
		t.Fatal("memo inputs are not delimited, ambiguous concatenation collides")
	}
}
