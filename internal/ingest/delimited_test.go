package ingest

import (
	"reflect"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{
			name: "comma",
			text: "a,b,c\n1,2,3\n4,5,6\n",
			want: ',',
		},
		{
			name: "semicolon with decimal commas",
			text: "Número;Cadastro;Valor\n1;X;1.234,56\n2;Y;10,00\n",
			want: ';',
		},
		{
			name: "tab",
			text: "a\tb\tc\n1\t2,5\t3\n",
			want: '\t',
		},
		{
			name: "pipe",
			text: "a|b\n1|2\n",
			want: '|',
		},
		{
			name: "quoted delimiters ignored",
			text: "a;b\n\"x,y,z\";1\n\"p,q\";2\n",
			want: ';',
		},
		{
			name: "single column defaults to comma",
			text: "header\nvalue\n",
			want: ',',
		},
		{
			name: "tie goes to earlier candidate",
			text: "a,b;c\n1,2;3\n",
			want: ',',
		},
		{
			name: "banner line falls back to mode",
			text: "Relatorio\n\na;b;c\n1;2;3\n",
			want: ';',
		},
		{
			name: "empty",
			text: "",
			want: ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffDelimiter(tt.text, DefaultSniffLines); got != tt.want {
				t.Errorf("sniffDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSampleLines(t *testing.T) {
	got := sampleLines("a\r\n\r\n  \nb\nc\nd\n", 3)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sampleLines() = %q, want %q", got, want)
	}
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "clean",
			raw:  []string{"Número", "Cadastro"},
			want: []string{"Número", "Cadastro"},
		},
		{
			name: "trimmed and BOM removed",
			raw:  []string{"\ufeff Número ", " Cadastro"},
			want: []string{"Número", "Cadastro"},
		},
		{
			name: "duplicates suffixed",
			raw:  []string{"Valor", "Valor", "Nome", "Valor"},
			want: []string{"Valor", "Valor.1", "Nome", "Valor.2"},
		},
		{
			name: "suffix collision skipped",
			raw:  []string{"A", "A.1", "A"},
			want: []string{"A", "A.1", "A.2"},
		},
		{
			name: "blank names",
			raw:  []string{"A", "", "B", "", ""},
			want: []string{"A", "Unnamed: 1", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerNames(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("headerNames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildTable_Skip(t *testing.T) {
	grid := [][]string{
		{"banner"},
		{},
		{"A", "B"},
		{"1"},
		{"", " "},
		{"2", "3", "extra"},
	}

	table, err := buildTable(grid, 1)
	if err != nil {
		t.Fatalf("buildTable() error = %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"A", "B"}) {
		t.Errorf("Columns = %q", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][1].Valid {
		t.Error("short row should have an absent trailing cell")
	}
	if len(table.Rows[1]) != 2 || table.Rows[1][1].Value != "3" {
		t.Errorf("Rows[1] = %+v", table.Rows[1])
	}

	if _, err := buildTable(grid, 10); err == nil {
		t.Error("buildTable() past the end should fail")
	}
}
