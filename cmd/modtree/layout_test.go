package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-modtree/host"
	"github.com/cwbudde/algo-modtree/param"
)

func TestLoadVoiceLayout(t *testing.T) {
	lf, err := loadLayoutFile("testdata/voice.yaml")
	require.NoError(t, err)
	require.Len(t, lf.Trees, 2)

	bank, counter, err := buildBank(lf)
	require.NoError(t, err)
	defer bank.Release()

	assert.Equal(t, []string{"voice", "amp"}, bank.Names())

	voice, ok := bank.Get("voice")
	require.True(t, ok)

	var paths []string
	for _, e := range host.Flatten(voice) {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"cutoff", "cutoff/drive", "cutoff/drive/brightness", "cutoff/tone"}, paths)

	assert.Equal(t, param.ClampToBounds, voice.Config().Clamp)

	drive := voice.Children()[0]
	assert.Equal(t, voice.Value(), drive.Value(), "drive inherits the root envelope")

	require.NoError(t, bank.TickAll(context.Background()))

	assert.Equal(t, 1100.0, voice.Value().Current)
	assert.Equal(t, 550.0, drive.Value().Current)

	brightness := drive.Children()[0]
	assert.Equal(t, param.BaselineBlend, brightness.Baseline().Mode)
	assert.InDelta(t, 0.055, brightness.Value().Current, 1e-12)

	amp, _ := bank.Get("amp")
	tremolo := amp.Children()[0]
	assert.Equal(t, 2.0, amp.Value().Current)
	assert.Equal(t, 4.0, tremolo.Value().Current)

	assert.Zero(t, counter.failures.Load())
}

func TestDecodeLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty", yaml: "", want: "no trees"},
		{name: "no trees", yaml: "trees: []", want: "no trees"},
		{name: "unknown field", yaml: "trees:\n  - nmae: x\n", want: "invalid layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeLayout(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildBankErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "root without bounds",
			yaml: "trees:\n  - root: {name: r}\n",
			want: "needs min and max",
		},
		{
			name: "bad bounds",
			yaml: "trees:\n  - root: {name: r, min: 1, max: 0}\n",
			want: "invalid bounds",
		},
		{
			name: "original out of range",
			yaml: "trees:\n  - root: {name: r, min: 0, max: 1, original: 2}\n",
			want: "out of range",
		},
		{
			name: "unknown modulator",
			yaml: "trees:\n  - root: {name: r, min: 0, max: 1, modulator: {kind: lfo}}\n",
			want: "unknown modulator kind",
		},
		{
			name: "unknown param",
			yaml: "trees:\n  - root: {name: r, min: 0, max: 1, modulator: {kind: offset, params: {detla: 1}}}\n",
			want: "invalid modulator params",
		},
		{
			name: "bad window",
			yaml: "trees:\n  - root: {name: r, min: 0, max: 1, modulator: {kind: peak, params: {window: 12}}}\n",
			want: "power of two",
		},
		{
			name: "value fallback without value",
			yaml: "trees:\n  - root: {name: r, min: 0, max: 1, modulator: {kind: centroid, params: {fallback: value}}}\n",
			want: "needs a value",
		},
		{
			name: "bad blend",
			yaml: "trees:\n  - baseline: {mode: blend, amount: 2}\n    root: {name: r, min: 0, max: 1}\n",
			want: "blend amount",
		},
		{
			name: "duplicate names",
			yaml: "trees:\n  - name: a\n    root: {min: 0, max: 1}\n  - name: a\n    root: {min: 0, max: 1}\n",
			want: "duplicate tree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf, err := decodeLayout(strings.NewReader(tt.yaml))
			require.NoError(t, err)

			_, _, err = buildBank(lf)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSpectralFallbackValue(t *testing.T) {
	yaml := `
trees:
  - name: t
    root:
      min: 0
      max: 1
      original: 0
      modulator:
        kind: peak
        params:
          window: 4
          fallback: value
          value: 0.75
`
	lf, err := decodeLayout(strings.NewReader(yaml))
	require.NoError(t, err)

	bank, counter, err := buildBank(lf)
	require.NoError(t, err)

	require.NoError(t, bank.TickAll(context.Background()))

	root, _ := bank.Get("t")
	assert.Equal(t, 0.75, root.Value().Current)
	assert.Equal(t, uint64(1), counter.failures.Load())
	assert.Equal(t, "0", host.Flatten(root)[0].Path)
}
