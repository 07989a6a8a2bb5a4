package secret

import "testing"

func TestZeroize(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	Zeroize(buf)
	for i, b := range buf {
		if b != 0 {
			t.Errorf("Zeroize failed at index %d: got %d, want 0", i, b)
		}
	}
}

func TestZeroizeAll(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5, 6}
	ZeroizeAll(a, b)
	for _, buf := range [][]byte{a, b} {
		for i, v := range buf {
			if v != 0 {
				t.Errorf("byte %d not zeroized", i)
			}
		}
	}
}

func TestBytesZero(t *testing.T) {
	s := New([]byte{1, 2, 3, 4})
	s.Zero()
	for i, b := range s.Expose() {
		if b != 0 {
			t.Errorf("Zero failed at index %d: got %d", i, b)
		}
	}
}

func TestBytesNewCopyDoesNotAliasCaller(t *testing.T) {
	orig := []byte{9, 9, 9}
	s := NewCopy(orig)
	s.Zero()
	if orig[0] != 9 {
		t.Fatal("NewCopy should not alias the caller's slice")
	}
}

func TestBytesStringRedacted(t *testing.T) {
	s := New([]byte{1, 2, 3})
	if got := s.String(); got != "secret.Bytes(REDACTED)" {
		t.Fatalf("String() = %q, should never render the secret value", got)
	}
	var nilS *Bytes
	if got := nilS.String(); got != "secret.Bytes(nil)" {
		t.Fatalf("nil String() = %q", got)
	}
}

func TestBytesLenAndNilSafety(t *testing.T) {
	var nilS *Bytes
	if nilS.Len() != 0 {
		t.Error("nil Bytes should report length 0")
	}
	if nilS.Expose() != nil {
		t.Error("nil Bytes should expose nil")
	}
	nilS.Zero() // must not panic
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte("hello world")
	b := []byte("hello world")
	c := []byte("hello worlD")
	d := []byte("hello")

	if !ConstantTimeEqual(a, b) {
		t.Error("equal slices should compare equal")
	}
	if ConstantTimeEqual(a, c) {
		t.Error("differing slices should not compare equal")
	}
	if ConstantTimeEqual(a, d) {
		t.Error("differing-length slices should not compare equal")
	}
}

func TestConstantTimeSelect(t *testing.T) {
	a := []byte{1, 1, 1}
	b := []byte{2, 2, 2}

	got := ConstantTimeSelect(1, a, b)
	if string(got) != string(a) {
		t.Errorf("select(1, a, b) = %v, want %v", got, a)
	}

	got = ConstantTimeSelect(0, a, b)
	if string(got) != string(b) {
		t.Errorf("select(0, a, b) = %v, want %v", got, b)
	}
}
