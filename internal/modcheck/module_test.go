package modcheck

import (
	"strings"
	"testing"

	"github.com/davidbrazdil/minsfi-llvm/internal/diagnostic"
	"github.com/davidbrazdil/minsfi-llvm/internal/dialect"
	"github.com/davidbrazdil/minsfi-llvm/internal/intrinsics"
	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

func newOpts(t *testing.T, m *ir.Module, allowDebug, streaming bool) Options {
	t.Helper()
	table, err := dialect.Resolve(dialect.DefaultVersion)
	if err != nil {
		t.Fatalf("dialect.Resolve: %v", err)
	}
	i8 := m.Types.Int(8)
	reg := intrinsics.NewRegistry(intrinsics.Types{
		I8: i8, I16: m.Types.Int(16), I32: m.Types.Int(32), I64: m.Types.Int(64),
		Float: m.Types.Float(), Double: m.Types.Double(),
		I8Ptr: m.Types.Pointer(i8, 0), Void: m.Types.Void(),
	}, allowDebug)
	return Options{Lengths: table, Intrinsics: reg, AllowDebugMetadata: allowDebug, StreamingMode: streaming}
}

func moduleWithEntry(m *ir.Module) *ir.Module {
	entry := ir.NewFunction("_start")
	entry.Linkage = ir.LinkageExternal
	entry.CallingConv = ir.CallingConvC
	voidT := m.Types.Void()
	entry.FuncType = m.Types.Function(voidT)
	entry.Blocks = []*ir.BasicBlock{{}}
	m.Functions = append(m.Functions, entry)
	return m
}

func containsMsg(r *diagnostic.Reporter, substr string) bool {
	for _, d := range r.Diagnostics() {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestGlobalWithSectionIsRejected(t *testing.T) {
	m := ir.NewModule()
	g := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "v", Linkage: ir.LinkageInternal, HasSection: true}, HasInitializer: true,
		Initializer: &ir.Constant{Kind: ir.ConstantAggregateZero}}
	m.Globals = append(m.Globals, g)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, `Variable v has disallowed "section" attribute`) {
		t.Fatalf("expected section diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestThreadLocalGlobalIsRejected(t *testing.T) {
	m := ir.NewModule()
	g := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "t", Linkage: ir.LinkageInternal}, ThreadLocal: true, HasInitializer: true,
		Initializer: &ir.Constant{Kind: ir.ConstantAggregateZero}}
	m.Globals = append(m.Globals, g)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, `Variable t has disallowed "thread_local" attribute`) {
		t.Fatalf("expected thread_local diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestFunctionWithGCAttributeIsRejected(t *testing.T) {
	m := ir.NewModule()
	f := ir.NewFunction("f")
	f.Linkage = ir.LinkageInternal
	f.CallingConv = ir.CallingConvC
	f.FuncType = m.Types.Function(m.Types.Void())
	f.GC = "x"
	f.Blocks = []*ir.BasicBlock{{}}
	m.Functions = append(m.Functions, f)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, `Function f has disallowed "gc" attribute`) {
		t.Fatalf("expected gc diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestFunctionWithAlignAttributeIsRejected(t *testing.T) {
	m := ir.NewModule()
	f := ir.NewFunction("f")
	f.Linkage = ir.LinkageInternal
	f.CallingConv = ir.CallingConvC
	f.FuncType = m.Types.Function(m.Types.Void())
	f.HasAlignment = true
	f.Blocks = []*ir.BasicBlock{{}}
	m.Functions = append(m.Functions, f)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, `Function f has disallowed "align" attribute`) {
		t.Fatalf("expected align diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestAliasIsRejected(t *testing.T) {
	m := ir.NewModule()
	m.Aliases = append(m.Aliases, &ir.Alias{GlobalValue: ir.GlobalValue{Name: "a"}})
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, "Variable a is an alias (disallowed)") {
		t.Fatalf("expected alias diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestNoEntryPointIsRejected(t *testing.T) {
	m := ir.NewModule()
	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, "Module has no entry point") {
		t.Fatalf("expected no-entry-point diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestMultipleEntryPointsIsRejected(t *testing.T) {
	m := ir.NewModule()
	moduleWithEntry(m)

	root := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "__pnacl_pso_root", Linkage: ir.LinkageExternal},
		HasInitializer: true, Initializer: &ir.Constant{Kind: ir.ConstantAggregateZero}}
	m.Globals = append(m.Globals, root)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, "Module has multiple entry points") {
		t.Fatalf("expected multiple-entry-points diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestExactlyOneEntryPointIsAccepted(t *testing.T) {
	m := ir.NewModule()
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if r.HasDiagnostics() {
		t.Fatalf("expected a clean accept, got: %+v", r.Diagnostics())
	}
}

func TestNonFlattenedInitializerIsRejected(t *testing.T) {
	m := ir.NewModule()
	g := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "v", Linkage: ir.LinkageInternal}, HasInitializer: true,
		Initializer: &ir.Constant{Kind: ir.ConstantInt, Type: m.Types.Int(32), IntVal: 99}}
	m.Globals = append(m.Globals, g)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if !containsMsg(r, "has non-flattened initializer") {
		t.Fatalf("expected non-flattened-initializer diagnostic, got: %+v", r.Diagnostics())
	}
}

func TestFlattenedInitializersAreAccepted(t *testing.T) {
	m := ir.NewModule()
	g1 := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "bytes", Linkage: ir.LinkageInternal}, HasInitializer: true,
		Initializer: &ir.Constant{Kind: ir.ConstantDataArray, DataLen: 4}}

	other := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "other", Linkage: ir.LinkageInternal}}
	simple1 := &ir.Constant{Kind: ir.ConstantExprPtrToInt, Global: &other.GlobalValue}
	simple2 := &ir.Constant{Kind: ir.ConstantExprAddPtrToInt, Global: &other.GlobalValue, Addend: 4}
	g2 := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: "compound", Linkage: ir.LinkageInternal}, HasInitializer: true,
		Initializer: &ir.Constant{Kind: ir.ConstantPackedStruct, Fields: []*ir.Constant{simple1, simple2}}}

	other.HasInitializer = true
	other.Initializer = &ir.Constant{Kind: ir.ConstantAggregateZero}

	m.Globals = append(m.Globals, g1, g2, other)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)

	if r.HasDiagnostics() {
		t.Fatalf("expected flattened initializers to be accepted, got: %+v", r.Diagnostics())
	}
}

func TestNamedMetadataRequiresDebugFlag(t *testing.T) {
	m := ir.NewModule()
	m.NamedMetadata = append(m.NamedMetadata, &ir.NamedMDNode{Name: "llvm.dbg.cu"})
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r)
	if !containsMsg(r, "Named metadata node llvm.dbg.cu is disallowed") {
		t.Fatalf("expected named metadata to be rejected when debug metadata is off, got: %+v", r.Diagnostics())
	}

	r2 := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, true, false), r2)
	if r2.HasDiagnostics() {
		t.Fatalf("expected llvm.dbg.* named metadata to be accepted with debug metadata on, got: %+v", r2.Diagnostics())
	}
}

func TestStreamingModeTreatesDeclarationAsOK(t *testing.T) {
	m := ir.NewModule()
	decl := ir.NewFunction("helper")
	decl.Linkage = ir.LinkageInternal
	decl.CallingConv = ir.CallingConvC
	decl.FuncType = m.Types.Function(m.Types.Void())
	decl.IsDeclaration = true
	m.Functions = append(m.Functions, decl)
	moduleWithEntry(m)

	r := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, true), r)
	if containsMsg(r, "declared but not defined") {
		t.Fatalf("streaming mode must tolerate declarations, got: %+v", r.Diagnostics())
	}

	r2 := diagnostic.New().WithFatalThreshold(0)
	Check(m, newOpts(t, m, false, false), r2)
	if !containsMsg(r2, "declared but not defined") {
		t.Fatalf("non-streaming mode must reject declarations, got: %+v", r2.Diagnostics())
	}
}
