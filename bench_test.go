package flatfile

import (
	"io"
	"strings"
	"testing"
)

type benchStudent struct {
	ID        int     `fixed:"0,5"`
	FirstName string  `fixed:"5,15"`
	LastName  string  `fixed:"15,25"`
	Grade     float64 `fixed:"25,30"`
}

var benchRecord = []byte("   12May       Portman   88.50")

func BenchmarkUnmarshal(b *testing.B) {
	var s benchStudent
	for i := 0; i < b.N; i++ {
		if err := Unmarshal(benchRecord, &s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	s := benchStudent{12, "May", "Portman", 88.5}
	for i := 0; i < b.N; i++ {
		if _, err := Marshal(s); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReader_Next(b *testing.B) {
	data := strings.Repeat("   12May       Portman   88.50\n", 100)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewReader(strings.NewReader(data), 30)
		for {
			if _, err := r.Next(); err != nil {
				break
			}
		}
	}
}

func BenchmarkWriter_Write(b *testing.B) {
	w := NewWriter(io.Discard, 30)
	b.SetBytes(int64(len(benchRecord)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := w.Write(benchRecord); err != nil {
			b.Fatal(err)
		}
	}
}
