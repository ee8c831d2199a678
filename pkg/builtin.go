package lox

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// builtins are the libc functions and constant strings the generated main
// depends on.
type builtins struct {
	printf *ir.Func
	strcmp *ir.Func

	fmtNumber value.Value
	fmtString value.Value
	trueStr   value.Value
	falseStr  value.Value
}

func defineBuiltins(mod *ir.Module) builtins {
	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	strcmp := mod.NewFunc("strcmp", types.I32,
		ir.NewParam("s1", types.I8Ptr),
		ir.NewParam("s2", types.I8Ptr),
	)

	return builtins{
		printf:    printf,
		strcmp:    strcmp,
		fmtNumber: defineCString(mod, ".fmt.number", "%g\n"),
		fmtString: defineCString(mod, ".fmt.string", "%s\n"),
		trueStr:   defineCString(mod, ".str.true", "true"),
		falseStr:  defineCString(mod, ".str.false", "false"),
	}
}

// defineCString adds a private NUL-terminated global and returns an i8*
// pointing at its first byte.
func defineCString(mod *ir.Module, name, s string) value.Value {
	data := constant.NewCharArrayFromString(s + "\x00")

	glob := mod.NewGlobalDef(name, data)
	glob.Linkage = enum.LinkagePrivate
	glob.Immutable = true

	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(types.NewArray(uint64(len(s)+1), types.I8), glob, zero, zero)
}
