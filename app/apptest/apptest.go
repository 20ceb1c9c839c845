// Package apptest provides fake tool binaries for testing apps end to end.
package apptest

import (
	"os"
	"path/filepath"
	"testing"
)

// Script writes an executable shell script called name into dir and returns
// its path. body is everything after the '#!/bin/sh' line.
func Script(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("Could not write fake binary '%s': %s", path, err)
	}
	return path
}

// WriteFile writes contents to dir/name and returns its path.
func WriteFile(t testing.TB, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Could not write '%s': %s", path, err)
	}
	return path
}

// MinimalPepXML is the smallest document the XML checks accept as a pepXML
// result.
const MinimalPepXML = `<?xml version="1.0" encoding="UTF-8"?>
<msms_pipeline_analysis xmlns="http://regis-web.systemsbiology.net/pepXML">
<msms_run_summary base_name="run1">
<spectrum_query spectrum="run1.00010.00010.2" spectrumNativeID="controllerType=0 controllerNumber=1 scan=10" assumed_charge="2" index="1">
</spectrum_query>
</msms_run_summary>
</msms_pipeline_analysis>
`
