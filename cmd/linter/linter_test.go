package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

// writePkg создаёт testdata/src/<path>/<file> с указанным содержимым.
func writePkg(t *testing.T, testdata, path, file, code string) {
	t.Helper()
	pkgDir := filepath.Join(testdata, "src", filepath.FromSlash(path))
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, file), []byte(code), 0644); err != nil {
		t.Fatal(err)
	}
}

// zapStub повторяет сигнатуры zap, которые проверяет анализатор.
const zapStub = `package zap

type SugaredLogger struct{}

func (*SugaredLogger) Fatalw(msg string, kv ...interface{}) {}
func (*SugaredLogger) Panicf(format string, args ...interface{}) {}
func (*SugaredLogger) Infow(msg string, kv ...interface{}) {}

func NewNop() *SugaredLogger { return &SugaredLogger{} }
`

func TestAnalyzer(t *testing.T) {
	testdata := t.TempDir()

	writePkg(t, testdata, "go.uber.org/zap", "zap.go", zapStub)
	writePkg(t, testdata, "a", "bad.go", `package a

import (
	"log"
	"os"

	"go.uber.org/zap"
	stdlog "log"
)

func BadFunc1() {
	panic("error") // want "использование встроенной функции panic"
}

func BadFunc2() {
	log.Fatal("error") // want "вызов log.Fatal вне функции main пакета main"
}

func BadFunc3() {
	stdlog.Fatalf("error: %v", "something") // want "вызов log.Fatalf вне функции main пакета main"
}

func BadFunc4() {
	log.Fatalln("error") // want "вызов log.Fatalln вне функции main пакета main"
}

func BadFunc5() {
	os.Exit(1) // want "вызов os.Exit вне функции main пакета main"
}

func BadFunc6(l *zap.SugaredLogger) {
	l.Fatalw("stop") // want "вызов zap Fatalw вне функции main пакета main"
	l.Panicf("stop %d", 1) // want "вызов zap Panicf вне функции main пакета main"
}

func GoodFunc(l *zap.SugaredLogger) {
	log.Println("info message")
	l.Infow("info message")
}

func Shadowed() {
	panic := func(string) {}
	panic("not the builtin")
}
`)

	analysistest.Run(t, testdata, Analyzer, "a")
}

func TestAnalyzerMainPackage(t *testing.T) {
	testdata := t.TempDir()

	writePkg(t, testdata, "mainpkg", "main.go", `package main

import (
	"log"
	"os"
)

func helper() {
	panic("error") // want "использование встроенной функции panic"
	log.Fatal("error") // want "вызов log.Fatal вне функции main пакета main"
	os.Exit(1) // want "вызов os.Exit вне функции main пакета main"
}

func main() {
	// Это допустимо
	if false {
		log.Fatal("ok")
		os.Exit(0)
	}
}
`)

	analysistest.Run(t, testdata, Analyzer, "mainpkg")
}
