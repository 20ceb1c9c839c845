package mods

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applicake-tools/searchcake/enzyme"
)

func ExampleToEngine() {
	static := "Carbamidomethyl (C)"
	variable := "Oxidation (M); Phospho (STY)"

	st, va, _, _ := ToEngine(static, variable, enzyme.XTandem)
	fmt.Println(st)
	fmt.Println(va)

	st, va, _, _ = ToEngine(static, variable, enzyme.Myrimatch)
	fmt.Println(st)
	fmt.Println(va)
	// Output:
	// 57.021464@C
	// 15.994915@M,79.966331@S,79.966331@T,79.966331@Y
	// C 57.021464
	// M * 15.994915 [STY] # 79.966331
}

func TestParse(t *testing.T) {
	parsed, err := Parse(" Carbamidomethyl (C);;Label:13C(6)15N(2) (K); [+8.0142] (K); Carbamidomethyl (C) ")
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, Mod{Name: "Carbamidomethyl", Mass: 57.021464, Kind: Residue, Residues: "C"}, parsed[0])
	assert.Equal(t, "Label:13C(6)15N(2)", parsed[1].Name)
	assert.Equal(t, "K", parsed[1].Residues)
	assert.InDelta(t, 8.0142, parsed[2].Mass, 1e-9)

	empty, err := Parse("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseNameCase(t *testing.T) {
	parsed, err := Parse("oxidation (M); OXIDATION (M); carbamidomethyl (C); label:13c(6) (K)")
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, Mod{Name: "Oxidation", Mass: 15.994915, Kind: Residue, Residues: "M"}, parsed[0])
	assert.Equal(t, "Carbamidomethyl", parsed[1].Name)
	assert.Equal(t, "Label:13C(6)", parsed[2].Name)

	st, va, _, err := ToEngine("carbamidomethyl (C)", "oxidation (M)", enzyme.XTandem)
	require.NoError(t, err)
	assert.Equal(t, "57.021464@C", st)
	assert.Equal(t, "15.994915@M", va)
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"Carbamidomethyl",
		"Carbamidomethyl ()",
		"Frobnicated (C)",
		"Oxidation (m)",
		"(M)",
	} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestTerminalXTandem(t *testing.T) {
	st, va, term, err := ToEngine(
		"Acetyl (Protein N-term); TMT6plex (N-term)",
		"Acetyl (Protein N-term); Amidated (C-term); Gln->pyro-Glu (Protein C-term)",
		enzyme.XTandem)
	require.NoError(t, err)

	assert.Equal(t, "229.162932@[", st)
	assert.Equal(t, "-0.984016@]", va)
	assert.Equal(t,
		`<note type="input" label="protein, N-terminal residue modification mass">42.010565</note>`+"\n"+
			`<note type="input" label="refine, potential N-terminus modifications">+42.010565@[</note>`+"\n"+
			`<note type="input" label="refine, potential C-terminus modifications">-17.026549@]</note>`,
		term)
}

func TestTerminalMyrimatch(t *testing.T) {
	st, va, term, err := ToEngine("TMT6plex (N-term); TMT6plex (K)", "Acetyl (Protein N-term); Amidated (C-term)",
		enzyme.Myrimatch)
	require.NoError(t, err)

	assert.Equal(t, "( 229.162932 K 229.162932", st)
	assert.Equal(t, "( * 42.010565 ) # -0.984016", va)
	assert.Empty(t, term)
}

func TestMyrimatchTooManyVariable(t *testing.T) {
	variable := ""
	for i := 0; i < len(myrimatchMarkers)+1; i++ {
		variable += fmt.Sprintf("[%d] (M);", i+1)
	}
	_, _, _, err := ToEngine("", variable, enzyme.Myrimatch)
	assert.ErrorContains(t, err, "at most")
}

func TestUnsupportedEngine(t *testing.T) {
	_, _, _, err := ToEngine("", "", enzyme.Engine("OMSSA"))
	assert.Error(t, err)
}
