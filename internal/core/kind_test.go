package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    SourceKind
		wantErr bool
	}{
		{"a", KindAlterdata, false},
		{"A", KindAlterdata, false},
		{"alterdata", KindAlterdata, false},
		{" ALTERDATA ", KindAlterdata, false},
		{"b", KindSantri, false},
		{"santri", KindSantri, false},
		{"SANTRI ADM", KindSantri, false},
		{"c", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceProfiles(t *testing.T) {
	for _, k := range Kinds {
		p := k.Profile()
		if p.Kind != k {
			t.Errorf("%v: profile kind = %v", k, p.Kind)
		}
		if len(p.Required) != 3 {
			t.Errorf("%v: %d required columns, want 3", k, len(p.Required))
		}
		fields := map[string]bool{}
		for _, col := range p.Required {
			field, ok := p.Mapping[col]
			if !ok {
				t.Errorf("%v: required column %q has no mapping", k, col)
			}
			fields[field] = true
		}
		for _, f := range []string{FieldDocumentID, FieldCounterparty, FieldAmount} {
			if !fields[f] {
				t.Errorf("%v: no column maps to %s", k, f)
			}
		}
	}

	if got := KindAlterdata.Profile().SheetHeaderSkip; got != 0 {
		t.Errorf("ALTERDATA header skip = %d, want 0", got)
	}
	if got := KindSantri.Profile().SheetHeaderSkip; got != 4 {
		t.Errorf("SANTRI header skip = %d, want 4", got)
	}
}

func TestSourceKind_Helpers(t *testing.T) {
	if KindAlterdata.Other() != KindSantri || KindSantri.Other() != KindAlterdata {
		t.Error("Other() does not swap kinds")
	}
	if KindAlterdata.Key() != "a" || KindSantri.Key() != "b" {
		t.Error("unexpected kind keys")
	}
	if SourceKind(7).Valid() {
		t.Error("SourceKind(7).Valid() = true")
	}
	if got := SourceKind(7).String(); got != "SourceKind(7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSourceKind_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Kind SourceKind `json:"kind"`
	}{KindSantri})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"kind":"SANTRI"}` {
		t.Errorf("Marshal = %s", data)
	}

	var back struct {
		Kind SourceKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Kind != KindSantri {
		t.Errorf("round trip kind = %v", back.Kind)
	}
}
