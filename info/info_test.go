package info

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInfo = `
WORKDIR: /tmp/wd
FDR_CUTOFF: 0.01
THREADS: 4
RUNRT: true
PEPXML:
  - a.pep.xml
  - b.pep.xml
`

func TestReadCoercion(t *testing.T) {
	inf, err := Read(strings.NewReader(sampleInfo))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/wd", inf.Get(WorkDir))
	assert.Equal(t, "0.01", inf.Get("FDR_CUTOFF"))
	assert.Equal(t, "4", inf.Get(Threads))
	assert.Equal(t, "True", inf.Get("RUNRT"))
	assert.True(t, inf.GetBool("RUNRT"))
	assert.Equal(t, []string{"a.pep.xml", "b.pep.xml"}, inf.GetList(PepXML))
	assert.Equal(t, "a.pep.xml b.pep.xml", inf.Get(PepXML))
	assert.Equal(t, []string{"/tmp/wd"}, inf.GetList(WorkDir))
	assert.Nil(t, inf.GetList("MISSING"))
	assert.Equal(t, "", inf.Get("MISSING"))

	f, err := inf.GetFloat("FDR_CUTOFF")
	require.NoError(t, err)
	assert.InDelta(t, 0.01, f, 1e-12)

	_, err = inf.GetFloat(WorkDir)
	assert.Error(t, err)
}

func TestGetBool(t *testing.T) {
	inf := Info{"a": "True", "b": "yes", "c": "False", "d": "0", "e": 1}
	assert.True(t, inf.GetBool("a"))
	assert.True(t, inf.GetBool("b"))
	assert.False(t, inf.GetBool("c"))
	assert.False(t, inf.GetBool("d"))
	assert.True(t, inf.GetBool("e"))
	assert.False(t, inf.GetBool("missing"))
}

func TestCopyIsIndependent(t *testing.T) {
	inf := Info{Enzyme: "Trypsin", PepXML: []string{"a"}}
	cp := inf.Copy()
	cp[Enzyme] = "[RK]|{P}"
	cp[PepXML].([]string)[0] = "b"

	assert.Equal(t, "Trypsin", inf.Get(Enzyme))
	assert.Equal(t, "a", inf.Get(PepXML))
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.yaml")
	inf := Info{WorkDir: "/x", PepXML: []string{"1.pep.xml", "2.pep.xml"}}
	require.NoError(t, WriteFile(path, inf))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/x", back.Get(WorkDir))
	assert.Equal(t, []string{"1.pep.xml", "2.pep.xml"}, back.GetList(PepXML))
	assert.Equal(t, []string{PepXML, WorkDir}, back.Keys())
}

func TestWriteSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Info{"B": "2", "A": "1"}))
	assert.Equal(t, "A: \"1\"\nB: \"2\"\n", buf.String())
}

func TestReadEmpty(t *testing.T) {
	inf, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, inf)
}
