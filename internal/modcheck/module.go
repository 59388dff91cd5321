// Package modcheck implements the Module Checker (spec.md §4.3): walks
// globals, aliases, function declarations, and named metadata, without
// descending into function bodies. Grounded on
// PNaClABIVerifyModule::runOnModule (original_source/lib/Analysis/NaCl/
// PNaClABIVerifyModule.cpp).
package modcheck

import (
	"strings"

	"github.com/davidbrazdil/minsfi-llvm/internal/abitypes"
	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/intrinsics"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// Options bundles the configuration and dialect-resolved tables the module
// pass needs, owned and constructed by the root package's Verifier.
type Options struct {
	Lengths            abitypes.VectorLengthTable
	Intrinsics         *intrinsics.Registry
	AllowDebugMetadata bool
	StreamingMode      bool
}

type checker struct {
	module         *ir.Module
	types          *ir.TypeArena
	opts           Options
	reporter       *diagnostic.Reporter
	seenEntryPoint bool
}

// Check runs the module pass, recording diagnostics into r in the order
// required by spec.md §5: globals (declaration order), then aliases, then
// functions, then named metadata.
func Check(m *ir.Module, opts Options, r *diagnostic.Reporter) {
	c := &checker{module: m, types: m.Types, opts: opts, reporter: r}
	c.run()
}

func (c *checker) run() {
	if c.module.InlineAsm != "" {
		c.reporter.Add(diagnostic.MsgTopLevelInlineAsm)
	}

	for _, g := range c.module.Globals {
		c.checkGlobalIsFlattened(g)
		c.checkGlobalValue(&g.GlobalValue, "Variable", false, false)

		if g.ThreadLocal {
			c.reporter.Add("Variable %s %s", g.Name, diagnostic.MsgDisallowedThreadLocalAttr)
		}
		if g.ExternallyInitialized {
			c.reporter.Add("Variable %s %s", g.Name, diagnostic.MsgDisallowedExternallyInitAttr)
		}
	}

	// No aliases allowed, for any reason, under any name.
	for _, a := range c.module.Aliases {
		c.reporter.Add("Variable %s %s", a.Name, diagnostic.MsgIsAnAlias)
	}

	for _, f := range c.module.Functions {
		c.checkFunction(f)
	}

	for _, nmd := range c.module.NamedMetadata {
		if !c.isWhitelistedMetadata(nmd) {
			c.reporter.Add("Named metadata node %s %s", nmd.Name, diagnostic.MsgDisallowedNamedMetadata)
		}
	}

	if !c.seenEntryPoint {
		c.reporter.Add(diagnostic.MsgModuleNoEntryPoint)
	}
}

// checkGlobalValue checks linkage type and the section/addrspace/
// unnamed_addr/visibility attributes that GlobalVariable and Function
// share (spec.md §4.3, "For each global variable"/"In all cases").
func (c *checker) checkGlobalValue(gv *ir.GlobalValue, kindName string, isFunction, isIntrinsic bool) {
	switch gv.Linkage {
	case ir.LinkageExternal:
		c.checkExternalSymbol(gv, isFunction, isIntrinsic)
	case ir.LinkageInternal:
		// Always allowed.
	default:
		c.reporter.Add("%s %s has disallowed linkage type: %s", kindName, gv.Name, gv.Linkage)
	}

	if gv.Visibility != ir.VisibilityDefault {
		c.reporter.Add("%s %s has disallowed visibility: %s", kindName, gv.Name, gv.Visibility)
	}
	if gv.HasSection {
		c.reporter.Add("%s %s %s", kindName, gv.Name, diagnostic.MsgDisallowedSectionAttr)
	}
	if gv.AddrSpace != 0 {
		c.reporter.Add("%s %s %s", kindName, gv.Name, diagnostic.MsgDisallowedAddrSpaceAttr)
	}
	if gv.UnnamedAddr {
		c.reporter.Add("%s %s %s", kindName, gv.Name, diagnostic.MsgDisallowedUnnamedAddrAttr)
	}
}

// checkExternalSymbol implements the entry-point check of spec.md §4.3: the
// function name "_start" or the variable name "__pnacl_pso_root" may serve
// as the entry point, and at most one entry point total is allowed.
// Intrinsic functions are exempt -- their external linkage is inherent to
// being a recognized intrinsic, not a user-chosen entry symbol.
func (c *checker) checkExternalSymbol(gv *ir.GlobalValue, isFunction, isIntrinsic bool) {
	if isIntrinsic {
		return
	}

	validEntry := (isFunction && gv.Name == "_start") ||
		(!isFunction && gv.Name == "__pnacl_pso_root")
	if !validEntry {
		c.reporter.Add("%s %s", gv.Name, diagnostic.MsgNotValidExternalSymbol)
		return
	}
	if c.seenEntryPoint {
		c.reporter.Add(diagnostic.MsgModuleMultipleEntryPoints)
	}
	c.seenEntryPoint = true
}

// isPtrToIntOfGlobal reports whether c is `ptrtoint(@Global)`.
func isPtrToIntOfGlobal(c *ir.Constant) bool {
	return c != nil && c.Kind == ir.ConstantExprPtrToInt && c.Global != nil
}

// isSimpleElement implements the SimpleElement half of the flattened-
// initializer grammar of spec.md §4.3.
func isSimpleElement(c *ir.Constant) bool {
	if c == nil {
		return false
	}
	switch c.Kind {
	case ir.ConstantDataArray, ir.ConstantAggregateZero:
		return true
	case ir.ConstantExprPtrToInt:
		return isPtrToIntOfGlobal(c)
	case ir.ConstantExprAddPtrToInt:
		return c.Global != nil
	default:
		return false
	}
}

// isCompoundElement implements the CompoundElement half of the flattened-
// initializer grammar: a packed, anonymous struct with at least two fields,
// every field a SimpleElement.
func isCompoundElement(c *ir.Constant) bool {
	if c == nil || c.Kind != ir.ConstantPackedStruct || len(c.Fields) <= 1 {
		return false
	}
	for _, f := range c.Fields {
		if !isSimpleElement(f) {
			return false
		}
	}
	return true
}

// checkGlobalIsFlattened implements the FlattenGlobals normal-form check of
// spec.md §4.3.
func (c *checker) checkGlobalIsFlattened(g *ir.GlobalVariable) {
	if !g.HasInitializer {
		c.reporter.Add("Global variable %s %s", g.Name, diagnostic.MsgNoInitializer)
		return
	}
	if isSimpleElement(g.Initializer) || isCompoundElement(g.Initializer) {
		return
	}
	c.reporter.Add("Global variable %s %s", g.Name, diagnostic.MsgNonFlattenedInitializer)
}

// checkFunction implements the per-function rules of spec.md §4.3: type
// validity or intrinsic-table membership, declaration/definition, calling
// convention, attributes, plus the GlobalValue-common rules and the
// function-only gc/align rules.
func (c *checker) checkFunction(f *ir.Function) {
	if f.IsIntrinsic {
		ft := c.types.Type(f.FuncType)
		sig := intrinsics.Signature{Params: ft.ParamTypes, Return: ft.ReturnType}
		if !c.opts.Intrinsics.IsAllowed(intrinsics.Kind(f.IntrinsicKind), sig) {
			c.reporter.Add("Function %s %s", f.Name, diagnostic.MsgDisallowedIntrinsic)
		}
	} else {
		if !abitypes.IsValidFunctionType(c.types, f.FuncType, c.opts.Lengths) {
			c.reporter.Add("Function %s %s: %s", f.Name, diagnostic.MsgDisallowedFunctionType, c.types.TypeName(f.FuncType))
		}
		// Declarations are tolerated only in streaming mode, where function
		// bodies may arrive incrementally.
		if !c.opts.StreamingMode && f.IsDeclaration {
			c.reporter.Add("Function %s %s", f.Name, diagnostic.MsgDeclaredNotDefined)
		}
		if f.HasAttributes {
			c.reporter.Add("Function %s %s", f.Name, diagnostic.MsgDisallowedAttributes)
		}
		if f.CallingConv != ir.CallingConvC {
			c.reporter.Add("Function %s %s: %s", f.Name, diagnostic.MsgBadCallingConv, f.CallingConv)
		}
	}

	c.checkGlobalValue(&f.GlobalValue, "Function", true, f.IsIntrinsic)

	if f.GC != "" {
		c.reporter.Add("Function %s %s", f.Name, diagnostic.MsgDisallowedGCAttr)
	}
	if f.HasAlignment {
		c.reporter.Add("Function %s %s", f.Name, diagnostic.MsgDisallowedAlignAttr)
	}
}

// isWhitelistedMetadata admits named metadata only under the "llvm.dbg."
// prefix, and only when debug metadata is enabled (spec.md §4.3).
func (c *checker) isWhitelistedMetadata(nmd *ir.NamedMDNode) bool {
	return c.opts.AllowDebugMetadata && strings.HasPrefix(nmd.Name, "llvm.dbg.")
}
