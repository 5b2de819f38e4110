package xls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileFormulaSumOfThreeRefs(t *testing.T) {
	ptg, err := compileFormula("=SUM(A1,A2,A3)")
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x44, 0x00, 0x00, 0x00,
		0x44, 0x01, 0x00, 0x00,
		0x44, 0x02, 0x00, 0x00,
		0x42, 0x03, 0x04, 0x00,
	}, ptg)
}

func TestCompileFormulaSumOfNestedAddition(t *testing.T) {
	// SUM(A1+A2,A3) has two arguments even though the first spans an
	// operator; argc bookkeeping must not be fooled by the '+' inside it.
	ptg, err := compileFormula("=SUM(A1+A2,A3)")
	require.NoError(t, err)
	require.Equal(t, byte(0x42), ptg[len(ptg)-4], "must emit the variadic FuncVarV opcode")
	require.Equal(t, byte(2), ptg[len(ptg)-3], "argc must be 2, not 3")
}

func TestCompileFormulaPrecedenceGroupsMultiplicationFirst(t *testing.T) {
	// With the corrected comparison, the incoming "*" must not pop the
	// pending lower-precedence "+": 1+2*3 emits ptgInt(1), ptgInt(2),
	// ptgInt(3), ptgMul, ptgAdd (postfix for 1+(2*3)).
	ptg, err := compileFormula("=1+2*3")
	require.NoError(t, err)

	mulPos := indexOfPtg(ptg, ptgMul)
	addPos := indexOfPtg(ptg, ptgAdd)
	require.NotEqual(t, -1, mulPos)
	require.NotEqual(t, -1, addPos)
	require.Less(t, mulPos, addPos, "multiplication must be emitted before addition")
}

func TestCompileFormulaUnaryMinus(t *testing.T) {
	ptg, err := compileFormula("=-5")
	require.NoError(t, err)
	require.Equal(t, []byte{ptgInt, 0x05, 0x00, ptgUminus}, ptg)
}

func TestCompileFormulaRejectsCellRange(t *testing.T) {
	_, err := compileFormula("=SUM(A1:A3)")
	require.Error(t, err)
	var syntaxErr *FormulaSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestTokenizeFormulaSkipsLeadingEquals(t *testing.T) {
	toks := tokenizeFormula("=A1+B1")
	require.NotEmpty(t, toks)
	require.Equal(t, tokWord, toks[0].kind)
	require.Equal(t, "A1", toks[0].text)
}

// indexOfPtg returns the position of the first token whose opcode is v,
// stepping over operand bytes so that an operand equal to v (such as the
// 0x03 of ptgInt(3)) is not mistaken for an opcode.
func indexOfPtg(b []byte, v byte) int {
	for i := 0; i < len(b); {
		if b[i] == v {
			return i
		}
		switch b[i] {
		case ptgInt, ptgFuncV:
			i += 3
		case ptgRefV, ptgFuncVarV:
			i += 4
		default:
			i++
		}
	}
	return -1
}
