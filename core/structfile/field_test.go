package structfile

import "testing"

func TestParseFieldSet(t *testing.T) {
	tests := []struct {
		list    string
		want    FieldSet
		wantErr bool
	}{
		{"seq", NewFieldSet(FieldSeq), false},
		{"seq, structure ,ID", NewFieldSet(FieldSeq, FieldStructure, FieldID), false},
		{"react_err,offset", NewFieldSet(FieldReactErr, FieldOffset), false},
		{"", 0, false},
		{"seq,,bpp", NewFieldSet(FieldSeq, FieldBPP), false},
		{"seq,colour", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got, err := ParseFieldSet(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFieldSet(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFieldSet(%q) = %v, want %v", tt.list, got, tt.want)
			}
		})
	}
}

func TestFieldSetOperations(t *testing.T) {
	s := NewFieldSet(FieldSeq, FieldEnergy)
	if !s.Has(FieldSeq) || s.Has(FieldID) {
		t.Errorf("Has reports wrong membership for %v", s)
	}
	s = s.With(FieldStructuredSeq).Without(FieldSeq)
	if got := s.String(); got != "energy,structured_seq" {
		t.Errorf("String() = %q", got)
	}
	if AllFields.Has(FieldStructuredSeq) {
		t.Error("AllFields selects the combined field")
	}
	if n := len(AllFields.Fields()); n != 9 {
		t.Errorf("AllFields has %d fields, want 9", n)
	}
}

func TestFieldString(t *testing.T) {
	for f := FieldSeq; f <= FieldStructuredSeq; f++ {
		back, err := ParseField(f.String())
		if err != nil || back != f {
			t.Errorf("ParseField(%q) = %v, %v", f.String(), back, err)
		}
	}
	if got := Field(42).String(); got != "Field(42)" {
		t.Errorf("Field(42).String() = %q", got)
	}
}
