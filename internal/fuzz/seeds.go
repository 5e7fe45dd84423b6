package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxFuzzInput = 64 << 10 // 64 KiB

// builtinSeeds cover every operator class and the usual recovery paths.
var builtinSeeds = []string{
	"",
	"module M {}",
	"module M { fun f(a: u8, b: u64) { a < b; } }",
	"module M { fun f() { 0 < 1 < 2; } }",
	"module M { fun f() { (0, 1) < (0, 1, 2); } }",
	"module M { fun f(x: bool) { if (x) { 1 } else { 2u8 }; } }",
	"module M { struct S { f: u8 } fun g(s: S): S { s } }",
	"module M { fun f(): u8 { let x = 256; x as u8 } }",
	"module M { fun f() { let (a, b): (u8, u8) = (1, 2); a + b; } }",
	"module M { fun f() { x + ; } }",
	"module M { fun f( { } }",
	"module M { fun f() { 0xffffffffffffffffffffffffffffffffu128 + 1; } }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все *.move файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".move" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src))
		return nil
	})
}

// clamp copies input, cutting it to maxFuzzInput.
func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
