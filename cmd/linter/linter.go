// Линтер exitcheck запрещает встроенный panic в любом коде, а os.Exit, log.Fatal*
// и методы Fatal*/Panic* логгеров zap вне функции main пакета main.
// Ошибки должны возвращаться вызывающему коду.
//
// Запуск:
//
//	go run ./cmd/linter ./...
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

const zapPath = "go.uber.org/zap"

var Analyzer = &analysis.Analyzer{
	Name: "exitcheck",
	Doc:  "проверяет использование panic, os.Exit, log.Fatal и zap Fatal/Panic вне main пакета main",
	Run:  run,
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	isMainPkg := pass.Pkg.Name() == "main"

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			inMain := false
			if fn, ok := decl.(*ast.FuncDecl); ok {
				inMain = isMainPkg && fn.Name.Name == "main" && fn.Recv == nil
			}

			ast.Inspect(decl, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				checkCall(pass, call, inMain)
				return true
			})
		}
	}

	return nil, nil
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr, inMain bool) {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		if b, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok && b.Name() == "panic" {
			pass.Reportf(call.Pos(), "использование встроенной функции panic")
		}
	case *ast.SelectorExpr:
		fn, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil || inMain {
			return
		}

		name := fn.Name()
		switch fn.Pkg().Path() {
		case "log":
			if isFatalFunc(name) {
				pass.Reportf(call.Pos(), "вызов log.%s вне функции main пакета main", name)
			}
		case "os":
			if name == "Exit" {
				pass.Reportf(call.Pos(), "вызов os.Exit вне функции main пакета main")
			}
		case zapPath:
			if isMethod(fn) && (strings.HasPrefix(name, "Fatal") || strings.HasPrefix(name, "Panic") || strings.HasPrefix(name, "DPanic")) {
				pass.Reportf(call.Pos(), "вызов zap %s вне функции main пакета main", name)
			}
		}
	}
}

func isFatalFunc(name string) bool {
	return name == "Fatal" || name == "Fatalf" || name == "Fatalln"
}

func isMethod(fn *types.Func) bool {
	sig, ok := fn.Type().(*types.Signature)
	return ok && sig.Recv() != nil
}
