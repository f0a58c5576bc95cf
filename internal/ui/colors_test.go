package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	prevOut, prevErr := Out, Err
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	Out, Err = out, errOut
	t.Cleanup(func() {
		Out, Err = prevOut, prevErr
		Init(true, true)
	})
	return out, errOut
}

func TestMessagesSplitStreams(t *testing.T) {
	out, errOut := captureOutput(t)
	Init(false, true)

	SuccessMsg("installed %s", "krita")
	InfoMsg("refreshing")
	WarningMsg("catalog is stale")
	ErrorMsg("aip-man failed")

	assert.Equal(t, "✓ installed krita\n→ refreshing\n", out.String())
	assert.Equal(t, "! catalog is stale\n✗ aip-man failed\n", errOut.String())
}

func TestASCIISymbols(t *testing.T) {
	out, errOut := captureOutput(t)
	Init(false, false)

	SuccessMsg("done")
	ErrorMsg("broken")
	MutedMsg("quiet")

	assert.Equal(t, "[OK] done\nquiet\n", out.String())
	assert.Equal(t, "[ERROR] broken\n", errOut.String())
	assert.False(t, UseUnicode)
}

func TestHeaderMsgLeadsWithBlankLine(t *testing.T) {
	out, _ := captureOutput(t)
	Init(false, true)

	HeaderMsg("History (%d)", 2)
	assert.Equal(t, "\nHistory (2)\n", out.String())
}
