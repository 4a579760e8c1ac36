package langdetect

import (
	"testing"
)

func BenchmarkDetectSQL(b *testing.B) {
	code := []byte(`# nightly rollup
SELECT
  user_id,
  COUNT(*) AS events
FROM ` + "`project.dataset.events`" + `
GROUP BY user_id
`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectGo(b *testing.B) {
	code := []byte(`package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	code := []byte("")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectSmall(b *testing.B) {
	code := []byte("hello")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}
