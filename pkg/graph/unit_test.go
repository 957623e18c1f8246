package graph

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string(nil),
		},
		{
			name: "single sentence",
			text: "Juan vive en Madrid.",
			want: []string{"Juan vive en Madrid."},
		},
		{
			name: "multiple sentences",
			text: "Juan vive en Madrid. Trabaja para Acme! Es feliz?",
			want: []string{
				"Juan vive en Madrid.",
				"Trabaja para Acme!",
				"Es feliz?",
			},
		},
		{
			name: "line breaks end sentences",
			text: "Primera linea sin punto\nSegunda linea",
			want: []string{"Primera linea sin punto", "Segunda linea"},
		},
		{
			name: "blank lines are dropped",
			text: "Uno.\n\n\nDos.",
			want: []string{"Uno.", "Dos."},
		},
		{
			name: "whitespace is normalized",
			text: "  Juan    vive\ten   Madrid.  ",
			want: []string{"Juan vive en Madrid."},
		},
		{
			name: "numeric listing",
			text: "1. Primer punto. 2. Segundo punto.",
			want: []string{"1. Primer punto.", "2. Segundo punto."},
		},
		{
			name: "year before period still splits",
			text: "Nació en 1990. Luego se mudó.",
			want: []string{"Nació en 1990.", "Luego se mudó."},
		},
		{
			name: "decimal number does not split",
			text: "El valor es 3.14 aproximadamente.",
			want: []string{"El valor es 3.14 aproximadamente."},
		},
		{
			name: "punctuation runs and closing quotes",
			text: `Dijo "hola!!" y se fue... Nadie respondió.`,
			want: []string{`Dijo "hola!!"`, "y se fue...", "Nadie respondió."},
		},
		{
			name: "non-breaking space after terminator",
			text: "Juan vive en Madrid.\u00a0Trabaja para Acme.",
			want: []string{"Juan vive en Madrid.", "Trabaja para Acme."},
		},
		{
			name: "abbreviation without trailing space",
			text: "Visite www.acme.com hoy.",
			want: []string{"Visite www.acme.com hoy."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestChunkerSplit(t *testing.T) {
	text := "Uno. Dos. Tres. Cuatro. Cinco."

	t.Run("bounded by max sentences", func(t *testing.T) {
		units, err := Chunker{MaxSentences: 2}.Split("d1", text)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		want := []string{"Uno. Dos.", "Tres. Cuatro.", "Cinco."}
		for i, unit := range units {
			if unit.Text != want[i] {
				t.Errorf("unit %d text = %q, want %q", i, unit.Text, want[i])
			}
			if unit.DocumentID != "d1" {
				t.Errorf("unit %d document = %q, want d1", i, unit.DocumentID)
			}
			if unit.ID == "" {
				t.Errorf("unit %d has no id", i)
			}
		}
		if units[1].Start != 2 || units[1].End != 4 {
			t.Errorf("unit 1 range = [%d,%d), want [2,4)", units[1].Start, units[1].End)
		}
	})

	t.Run("default max sentences", func(t *testing.T) {
		long := strings.Repeat("Frase corta. ", 25)
		units, err := Chunker{}.Split("d1", long)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		for _, unit := range units {
			if unit.End-unit.Start > 10 {
				t.Errorf("unit holds %d sentences", unit.End-unit.Start)
			}
		}
	})

	t.Run("blank text", func(t *testing.T) {
		units, err := Chunker{}.Split("d1", " \n\t ")
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		if len(units) != 0 {
			t.Fatalf("expected no units, got %d", len(units))
		}
	})

	t.Run("unknown encoder", func(t *testing.T) {
		_, err := Chunker{MaxTokens: 10, TokenEncoder: "does-not-exist"}.Split("d1", text)
		if err == nil {
			t.Fatal("expected error for unknown encoder")
		}
	})
}
