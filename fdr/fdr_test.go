package fdr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pepFixture = "../pepxml/testdata/iprophet.pep.xml"

const mayuTable = `IP/PPs,target_PSM,decoy_PSM,target_pepID,decoy_pepID,target_protID,decoy_protID,mFDR,pepFDR,protFDR
0.99,400,1,300,1,100,0,0.0025,0.0033,0
0.9,500,5,380,4,120,2,0.01,0.0105,0.0167
0.5,560,20,420,15,130,9,0.0357,0.0357,0.0692
0.1,600,60,450,40,140,30,0.1,0.0889,0.2143
`

func TestParseType(t *testing.T) {
	typ, err := ParseType("iprophet")
	require.NoError(t, err)
	assert.Equal(t, IProphet, typ)

	typ, err = ParseType(" mayu-protFDR ")
	require.NoError(t, err)
	assert.Equal(t, MayuProtein, typ)

	_, err = ParseType("percolator")
	assert.Error(t, err)
}

func TestIProphet(t *testing.T) {
	iprob, fdr, err := IProbForFDR(0.01, IProphet, "", pepFixture)
	require.NoError(t, err)
	assert.Equal(t, 0.9, iprob)
	assert.Equal(t, 0.008, fdr)

	iprob, _, err = IProbForFDR(0.05, IProphet, "", pepFixture)
	require.NoError(t, err)
	assert.Equal(t, 0.6, iprob)

	_, _, err = IProbForFDR(0.0001, IProphet, "", pepFixture)
	assert.ErrorContains(t, err, "no ROC point")

	_, _, err = IProbForFDR(0.01, IProphet, "", "")
	assert.Error(t, err)
}

func TestMayu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mayu_main.csv")
	require.NoError(t, os.WriteFile(path, []byte(mayuTable), 0644))

	tests := []struct {
		typ    Type
		cutoff float64
		iprob  float64
		fdr    float64
	}{
		{MayuPSM, 0.01, 0.9, 0.01},
		{MayuPeptide, 0.01, 0.99, 0.0033},
		{MayuProtein, 0.1, 0.5, 0.0692},
		{MayuPSM, 1, 0.1, 0.1},
	}
	for _, test := range tests {
		iprob, fdr, err := IProbForFDR(test.cutoff, test.typ, path, "")
		require.NoError(t, err, test.typ)
		assert.Equal(t, test.iprob, iprob, test.typ)
		assert.Equal(t, test.fdr, fdr, test.typ)
	}

	_, _, err := IProbForFDR(0.001, MayuPSM, path, "")
	assert.ErrorContains(t, err, "no Mayu row")

	_, _, err = IProbForFDR(0.01, MayuPSM, "", pepFixture)
	assert.Error(t, err)
}

func TestMayuMalformed(t *testing.T) {
	_, _, err := fromMayu(strings.NewReader("IP/PPs,mFDR\n"), MayuPSM, 0.01)
	assert.ErrorContains(t, err, "no rows")

	_, _, err = fromMayu(strings.NewReader("IP/PPs,pepFDR\n0.9,0.01\n"), MayuPSM, 0.01)
	assert.ErrorContains(t, err, "mFDR")

	_, _, err = fromMayu(strings.NewReader("IP/PPs,mFDR\nx,0.01\n"), MayuPSM, 0.01)
	assert.Error(t, err)

	// Without a target column the lowest qualifying probability wins.
	iprob, _, err := fromMayu(strings.NewReader("IP/PPs,mFDR\n0.9,0.001\n0.5,0.009\n0.2,0.02\n"), MayuPSM, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 0.5, iprob)
}
