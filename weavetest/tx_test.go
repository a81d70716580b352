package weavetest

import (
	"bytes"
	"testing"
)

func TestSequenceID(t *testing.T) {
	numToEnc := map[uint64][]byte{
		1:      {0, 0, 0, 0, 0, 0, 0, 1},
		2:      {0, 0, 0, 0, 0, 0, 0, 2},
		123:    {0, 0, 0, 0, 0, 0, 0, 123},
		123123: {0, 0, 0, 0, 0, 1, 224, 243},
	}
	for id, want := range numToEnc {
		got := SequenceID(id)
		if !bytes.Equal(want, got) {
			t.Fatalf("id=%d, want %d got %d", id, want, got)
		}
	}
}

func TestNewConditionIsUnique(t *testing.T) {
	a, b := NewCondition(), NewCondition()
	if a.Equals(b) {
		t.Fatal("two random conditions are equal")
	}
	if err := a.Address().Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
}
