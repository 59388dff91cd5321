package irjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

// Decode parses a JSON document of the shape described by Module and builds
// an *ir.Module, resolving every named cross-reference (operand refs,
// branch targets, ptrtoint-of-global constants) against the symbol tables
// built in its first pass. Decode never validates subset membership -- that
// is abiverify.Verify's job -- it only reports malformed or unresolvable
// input.
func Decode(data []byte) (*ir.Module, error) {
	var doc Module
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("irjson: %w", err)
	}

	m := ir.NewModule()
	d := &decoder{module: m, globals: map[string]*ir.GlobalValue{}}

	// Pass 1: allocate every GlobalVariable and Function (with its
	// Arguments and BasicBlock shells) up front, so forward references --
	// a global's ptrtoint pointing at a global declared later, a branch to
	// a block defined further down -- resolve regardless of declaration
	// order.
	globalVars := make([]*ir.GlobalVariable, len(doc.Globals))
	for i, g := range doc.Globals {
		gv := &ir.GlobalVariable{GlobalValue: ir.GlobalValue{Name: g.Name}, Type: d.typeOf(g.Type)}
		globalVars[i] = gv
		if err := d.registerGlobal(g.Name, &gv.GlobalValue); err != nil {
			return nil, err
		}
	}

	for _, a := range doc.Aliases {
		alias := &ir.Alias{GlobalValue: ir.GlobalValue{Name: a.Name}}
		m.Aliases = append(m.Aliases, alias)
		if err := d.registerGlobal(a.Name, &alias.GlobalValue); err != nil {
			return nil, err
		}
	}

	functions := make([]*ir.Function, len(doc.Functions))
	funcScopes := make([]*funcScope, len(doc.Functions))
	for i, wf := range doc.Functions {
		f := ir.NewFunction(wf.Name)
		functions[i] = f
		if err := d.registerGlobal(wf.Name, &f.GlobalValue); err != nil {
			return nil, err
		}
		fs := &funcScope{args: map[string]*ir.Argument{}, blocks: map[string]*ir.BasicBlock{}, insts: map[string]*ir.Instruction{}}
		funcScopes[i] = fs

		params := make([]ir.TypeID, len(wf.Params))
		for j, p := range wf.Params {
			argTy := d.typeOf(p.Type)
			params[j] = argTy
			arg := &ir.Argument{Type: argTy, Func: f}
			f.Params = append(f.Params, arg)
			fs.args[p.Name] = arg
		}
		f.FuncType = m.Types.Function(d.typeOf(wf.ReturnType), params...)

		for _, wb := range wf.Blocks {
			bb := &ir.BasicBlock{Func: f}
			f.Blocks = append(f.Blocks, bb)
			fs.blocks[wb.Name] = bb
		}
		// Pre-register every instruction's result name before filling in
		// any instruction's operands, so one block's phi/branch can refer
		// to a result defined in a block visited later.
		for bi, wb := range wf.Blocks {
			bb := f.Blocks[bi]
			for _, wi := range wb.Instructions {
				inst := &ir.Instruction{Opcode: opcodeOf(wi.Opcode), Type: d.typeOf(wi.Type), Block: bb}
				bb.Instructions = append(bb.Instructions, inst)
				if wi.Name != "" {
					fs.insts[wi.Name] = inst
				}
			}
		}
	}

	// Pass 2: fill in global initializers (may reference any global by
	// name) and function bodies (operands may reference any
	// instruction/argument/block in the same function).
	for i, g := range doc.Globals {
		gv := globalVars[i]
		gv.Linkage = linkageOf(g.Linkage)
		gv.Visibility = visibilityOf(g.Visibility)
		gv.HasSection = g.HasSection
		gv.AddrSpace = g.AddrSpace
		gv.UnnamedAddr = g.UnnamedAddr
		gv.ThreadLocal = g.ThreadLocal
		gv.ExternallyInitialized = g.ExternallyInitialized
		gv.HasInitializer = g.HasInitializer
		if g.Initializer != nil {
			c, err := d.constantOf(g.Initializer)
			if err != nil {
				return nil, fmt.Errorf("irjson: global %s: %w", g.Name, err)
			}
			gv.Initializer = c
		}
		m.Globals = append(m.Globals, gv)
	}

	for i, wf := range doc.Functions {
		f := functions[i]
		fs := funcScopes[i]
		f.Linkage = linkageOf(wf.Linkage)
		f.Visibility = visibilityOf(wf.Visibility)
		f.HasSection = wf.HasSection
		f.AddrSpace = wf.AddrSpace
		f.UnnamedAddr = wf.UnnamedAddr
		f.IsDeclaration = wf.IsDeclaration
		f.IsIntrinsic = wf.IsIntrinsic
		f.IntrinsicName = wf.IntrinsicName
		f.IntrinsicKind = wf.IntrinsicKind
		f.CallingConv = callingConvOf(wf.CallingConv)
		f.GC = wf.GC
		f.HasAlignment = wf.HasAlignment
		f.HasAttributes = wf.HasAttributes

		for bi, wb := range wf.Blocks {
			bb := f.Blocks[bi]
			for ii, wi := range wb.Instructions {
				inst := bb.Instructions[ii]
				if err := d.fillInstruction(fs, inst, wi); err != nil {
					return nil, fmt.Errorf("irjson: function %s: %w", wf.Name, err)
				}
			}
		}
		m.Functions = append(m.Functions, f)
	}

	for _, nmd := range doc.NamedMetadata {
		m.NamedMetadata = append(m.NamedMetadata, &ir.NamedMDNode{Name: nmd.Name})
	}
	m.InlineAsm = doc.InlineAsm

	return m, nil
}

type funcScope struct {
	args   map[string]*ir.Argument
	blocks map[string]*ir.BasicBlock
	insts  map[string]*ir.Instruction
}

type decoder struct {
	module  *ir.Module
	globals map[string]*ir.GlobalValue
}

func (d *decoder) registerGlobal(name string, gv *ir.GlobalValue) error {
	if name == "" {
		return fmt.Errorf("irjson: global with empty name")
	}
	if _, exists := d.globals[name]; exists {
		return fmt.Errorf("irjson: duplicate global name %q", name)
	}
	d.globals[name] = gv
	return nil
}

// typeOf interns t into the module's TypeArena, treating a nil descriptor
// as void -- the common case for an instruction with no result.
func (d *decoder) typeOf(t *Type) ir.TypeID {
	if t == nil {
		return d.module.Types.Void()
	}
	switch t.Kind {
	case "void":
		return d.module.Types.Void()
	case "int":
		return d.module.Types.Int(t.IntWidth)
	case "float":
		return d.module.Types.Float()
	case "double":
		return d.module.Types.Double()
	case "vector":
		return d.module.Types.Vector(d.typeOf(t.Elem), t.VectorLen)
	case "pointer":
		return d.module.Types.Pointer(d.typeOf(t.Elem), t.AddrSpace)
	case "function":
		params := make([]ir.TypeID, len(t.ParamTypes))
		for i, p := range t.ParamTypes {
			params[i] = d.typeOf(p)
		}
		return d.module.Types.Function(d.typeOf(t.ReturnType), params...)
	default:
		// An unrecognized type name is represented as an empty aggregate
		// rather than failing decode outright -- internal/abitypes rejects
		// it as not a valid scalar/vector/pointer type, the same outcome a
		// real unsupported-type-in-the-wild would produce.
		return d.module.Types.Aggregate()
	}
}

func (d *decoder) constantOf(c *Constant) (*ir.Constant, error) {
	out := &ir.Constant{Type: d.typeOf(c.Type), IntVal: c.IntVal, DataLen: c.DataLen, Addend: c.Addend}
	switch c.Kind {
	case "int":
		out.Kind = ir.ConstantInt
	case "fp":
		out.Kind = ir.ConstantFP
	case "undef":
		out.Kind = ir.ConstantUndef
	case "aggregateZero":
		out.Kind = ir.ConstantAggregateZero
	case "dataArray":
		out.Kind = ir.ConstantDataArray
	case "ptrtoint":
		out.Kind = ir.ConstantExprPtrToInt
		g, err := d.resolveGlobal(c.Global)
		if err != nil {
			return nil, err
		}
		out.Global = g
	case "addptrtoint":
		out.Kind = ir.ConstantExprAddPtrToInt
		g, err := d.resolveGlobal(c.Global)
		if err != nil {
			return nil, err
		}
		out.Global = g
	case "packedStruct":
		out.Kind = ir.ConstantPackedStruct
		for _, wf := range c.Fields {
			f, err := d.constantOf(wf)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, f)
		}
	default:
		return nil, fmt.Errorf("unknown constant kind %q", c.Kind)
	}
	return out, nil
}

func (d *decoder) resolveGlobal(name string) (*ir.GlobalValue, error) {
	name = strings.TrimPrefix(name, "@")
	gv, ok := d.globals[name]
	if !ok {
		return nil, fmt.Errorf("undefined global %q", name)
	}
	return gv, nil
}

// fillInstruction resolves wi's operands and opcode-specific fields against
// fs and the module's global table, writing into the already-allocated
// inst.
func (d *decoder) fillInstruction(fs *funcScope, inst *ir.Instruction, wi *Instruction) error {
	inst.NUW, inst.NSW, inst.Exact = wi.NUW, wi.NSW, wi.Exact
	inst.Volatile, inst.Atomic, inst.Alignment = wi.Volatile, wi.Atomic, wi.Alignment
	inst.InlineAsm, inst.HasAttributes = wi.InlineAsm, wi.HasAttributes
	inst.CallingConv = callingConvOf(wi.CallingConv)
	inst.IsIntrinsicCall, inst.IntrinsicName = wi.IsIntrinsicCall, wi.IntrinsicName
	if wi.AllocatedType != nil {
		inst.AllocatedType = d.typeOf(wi.AllocatedType)
	}
	for _, md := range wi.Metadata {
		inst.Metadata = append(inst.Metadata, ir.MDAttachment{Kind: md.Kind})
	}

	ops := make([]ir.Operand, len(wi.Operands))
	for i, wo := range wi.Operands {
		op, err := d.operandOf(fs, wo)
		if err != nil {
			return fmt.Errorf("instruction %s operand %d: %w", wi.Opcode, i, err)
		}
		ops[i] = op
	}
	inst.Operands = ops

	cases := make([]ir.Operand, len(wi.SwitchCases))
	for i, wo := range wi.SwitchCases {
		op, err := d.operandOf(fs, wo)
		if err != nil {
			return fmt.Errorf("instruction %s switch case %d: %w", wi.Opcode, i, err)
		}
		cases[i] = op
	}
	inst.SwitchCases = cases

	return nil
}

func (d *decoder) operandOf(fs *funcScope, wo *Operand) (ir.Operand, error) {
	ref := strings.TrimPrefix(strings.TrimPrefix(wo.Ref, "%"), "@")
	ref = strings.TrimPrefix(ref, "^")
	switch wo.Kind {
	case "instruction":
		inst, ok := fs.insts[ref]
		if !ok {
			return ir.Operand{}, fmt.Errorf("undefined instruction operand %q", wo.Ref)
		}
		return ir.Operand{Kind: ir.OperandInstruction, Type: inst.Type, Inst: inst}, nil
	case "argument":
		arg, ok := fs.args[ref]
		if !ok {
			return ir.Operand{}, fmt.Errorf("undefined argument operand %q", wo.Ref)
		}
		return ir.Operand{Kind: ir.OperandArgument, Type: arg.Type, Arg: arg}, nil
	case "block":
		bb, ok := fs.blocks[ref]
		if !ok {
			return ir.Operand{}, fmt.Errorf("undefined block operand %q", wo.Ref)
		}
		return ir.Operand{Kind: ir.OperandBlock, Block: bb}, nil
	case "global":
		gv, err := d.resolveGlobal(ref)
		if err != nil {
			return ir.Operand{}, err
		}
		ty := d.module.Types.Void()
		if fn := gv.Function(); fn != nil {
			ty = d.module.Types.Pointer(fn.FuncType, 0)
		}
		return ir.Operand{Kind: ir.OperandGlobal, Type: ty, Global: gv}, nil
	case "constant":
		if wo.Const == nil {
			return ir.Operand{}, fmt.Errorf("constant operand missing \"const\"")
		}
		c, err := d.constantOf(wo.Const)
		if err != nil {
			return ir.Operand{}, err
		}
		return ir.Operand{Kind: ir.OperandConstant, Type: c.Type, Const: c}, nil
	case "metadata":
		return ir.Operand{Kind: ir.OperandMetadata}, nil
	default:
		return ir.Operand{}, fmt.Errorf("unknown operand kind %q", wo.Kind)
	}
}

func linkageOf(s string) ir.Linkage {
	switch s {
	case "external":
		return ir.LinkageExternal
	case "internal":
		return ir.LinkageInternal
	case "":
		return ir.LinkageInternal
	default:
		return ir.LinkageOther
	}
}

func visibilityOf(s string) ir.Visibility {
	switch s {
	case "hidden":
		return ir.VisibilityHidden
	case "protected":
		return ir.VisibilityProtected
	default:
		return ir.VisibilityDefault
	}
}

func callingConvOf(s string) ir.CallingConv {
	switch s {
	case "", "ccc", "c":
		return ir.CallingConvC
	default:
		return ir.CallingConvOther
	}
}

var opcodeNames = map[string]ir.Opcode{
	"getelementptr": ir.OpGetElementPtr, "vaarg": ir.OpVAArg, "invoke": ir.OpInvoke,
	"landingpad": ir.OpLandingPad, "resume": ir.OpResume, "indirectbr": ir.OpIndirectBr,
	"shufflevector": ir.OpShuffleVector, "extractvalue": ir.OpExtractValue, "insertvalue": ir.OpInsertValue,
	"atomiccmpxchg": ir.OpAtomicCmpXchg, "atomicrmw": ir.OpAtomicRMW, "fence": ir.OpFence,

	"ret": ir.OpRet, "br": ir.OpBr, "unreachable": ir.OpUnreachable,
	"fadd": ir.OpFAdd, "fsub": ir.OpFSub, "fmul": ir.OpFMul, "fdiv": ir.OpFDiv, "frem": ir.OpFRem,
	"and": ir.OpAnd, "or": ir.OpOr, "xor": ir.OpXor,
	"trunc": ir.OpTrunc, "zext": ir.OpZExt, "sext": ir.OpSExt,
	"fptrunc": ir.OpFPTrunc, "fpext": ir.OpFPExt, "fptoui": ir.OpFPToUI, "fptosi": ir.OpFPToSI,
	"uitofp": ir.OpUIToFP, "sitofp": ir.OpSIToFP,
	"fcmp": ir.OpFCmp, "phi": ir.OpPHI, "select": ir.OpSelect,

	"icmp": ir.OpICmp, "add": ir.OpAdd, "sub": ir.OpSub, "mul": ir.OpMul,
	"udiv": ir.OpUDiv, "sdiv": ir.OpSDiv, "urem": ir.OpURem, "srem": ir.OpSRem,
	"shl": ir.OpShl, "lshr": ir.OpLShr, "ashr": ir.OpAShr,
	"extractelement": ir.OpExtractElement, "insertelement": ir.OpInsertElement,
	"load": ir.OpLoad, "store": ir.OpStore,
	"bitcast": ir.OpBitCast, "inttoptr": ir.OpIntToPtr, "ptrtoint": ir.OpPtrToInt,
	"alloca": ir.OpAlloca, "call": ir.OpCall, "switch": ir.OpSwitch,
}

func opcodeOf(s string) ir.Opcode {
	if op, ok := opcodeNames[s]; ok {
		return op
	}
	return ir.OpUnknown
}
