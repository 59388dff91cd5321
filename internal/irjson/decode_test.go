package irjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbrazdil/minsfi-llvm/internal/ir"
)

func TestDecodeGlobalWithFlattenedInitializer(t *testing.T) {
	doc := `{
		"globals": [
			{"name": "bytes", "linkage": "internal", "type": {"kind": "pointer", "elem": {"kind": "int", "intWidth": 8}},
			 "hasInitializer": true, "initializer": {"kind": "dataArray", "dataLen": 4}}
		],
		"functions": [
			{"name": "_start", "linkage": "external", "callingConv": "ccc", "returnType": {"kind": "void"},
			 "blocks": [{"name": "entry", "instructions": [{"opcode": "ret"}]}]}
		]
	}`

	m, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, m.Globals, 1)
	require.Equal(t, "bytes", m.Globals[0].Name)
	require.True(t, m.Globals[0].HasInitializer)
	require.Equal(t, ir.ConstantDataArray, m.Globals[0].Initializer.Kind)
	require.Len(t, m.Functions, 1)
	require.Equal(t, "_start", m.Functions[0].Name)
	require.Len(t, m.Functions[0].Blocks[0].Instructions, 1)
	require.Equal(t, ir.OpRet, m.Functions[0].Blocks[0].Instructions[0].Opcode)
}

func TestDecodeResolvesForwardGlobalReference(t *testing.T) {
	doc := `{
		"globals": [
			{"name": "a", "linkage": "internal", "type": {"kind": "int", "intWidth": 32},
			 "hasInitializer": true, "initializer": {"kind": "ptrtoint", "type": {"kind": "int", "intWidth": 32}, "global": "b"}},
			{"name": "b", "linkage": "internal", "type": {"kind": "int", "intWidth": 32},
			 "hasInitializer": true, "initializer": {"kind": "aggregateZero"}}
		]
	}`

	m, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, ir.ConstantExprPtrToInt, m.Globals[0].Initializer.Kind)
	require.Equal(t, "b", m.Globals[0].Initializer.Global.Name)
}

func TestDecodeResolvesOperandsAcrossBlocks(t *testing.T) {
	doc := `{
		"functions": [
			{"name": "f", "linkage": "internal", "callingConv": "ccc", "returnType": {"kind": "int", "intWidth": 32},
			 "blocks": [
				{"name": "entry", "instructions": [
					{"name": "x", "opcode": "add", "type": {"kind": "int", "intWidth": 32},
					 "operands": [
						{"kind": "constant", "const": {"kind": "int", "type": {"kind": "int", "intWidth": 32}, "intVal": 1}},
						{"kind": "constant", "const": {"kind": "int", "type": {"kind": "int", "intWidth": 32}, "intVal": 2}}
					 ]},
					{"opcode": "br", "operands": [{"kind": "block", "ref": "^exit"}]}
				 ]},
				{"name": "exit", "instructions": [
					{"opcode": "ret", "operands": [{"kind": "instruction", "ref": "%x"}]}
				 ]}
			 ]}
		]
	}`

	m, err := Decode([]byte(doc))
	require.NoError(t, err)
	f := m.Functions[0]
	retInst := f.Blocks[1].Instructions[0]
	require.Equal(t, ir.OpRet, retInst.Opcode)
	require.Equal(t, f.Blocks[0].Instructions[0], retInst.Operands[0].Inst)
}

func TestDecodeRejectsUnknownGlobalReference(t *testing.T) {
	doc := `{
		"globals": [
			{"name": "a", "linkage": "internal", "type": {"kind": "int", "intWidth": 32},
			 "hasInitializer": true, "initializer": {"kind": "ptrtoint", "type": {"kind": "int", "intWidth": 32}, "global": "missing"}}
		]
	}`

	_, err := Decode([]byte(doc))
	require.Error(t, err)
}

func TestDecodeRejectsDuplicateGlobalName(t *testing.T) {
	doc := `{
		"globals": [
			{"name": "a", "type": {"kind": "int", "intWidth": 32}},
			{"name": "a", "type": {"kind": "int", "intWidth": 32}}
		]
	}`

	_, err := Decode([]byte(doc))
	require.Error(t, err)
}
