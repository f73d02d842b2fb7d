package report

import (
	"bytes"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/fsutil"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func smallResult(t *testing.T) *sweep.Result {
	t.Helper()
	p := dose.DefaultParams()
	p.Axis.Samples = 120
	res, err := sweep.RunParams(p, nil, dose.DefaultOrderNames, 1)
	require.NoError(t, err)
	return res
}

func TestGenerateColors(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10} {
		assert.Len(t, generateColors(n), n)
	}

	seen := make(map[string]bool)
	for i, c := range generateColors(6) {
		rgba, ok := c.(color.RGBA)
		require.True(t, ok, "colour %d: expected color.RGBA, got %T", i, c)
		assert.Equal(t, uint8(255), rgba.A)
		seen[hexColor(c)] = true
	}
	assert.Len(t, seen, 6, "expected distinct colours")
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#000000", hexColor(color.Black))
	assert.Equal(t, "#ffffff", hexColor(color.White))
	assert.Equal(t, "#ff8000", hexColor(color.RGBA{R: 255, G: 128, A: 255}))
}

func TestLegendLabel(t *testing.T) {
	assert.Equal(t, "Left → Right — MSE=0.0012", LegendLabel("Left → Right", 0.00123))
	assert.Equal(t, "layer_01.png", LayerPNGName(0))
	assert.Equal(t, "layer_12.png", LayerPNGName(11))
}

func TestLayerPlot(t *testing.T) {
	res := smallResult(t)

	p, err := LayerPlot(res, 1)
	require.NoError(t, err)
	assert.Equal(t, "Energy Layer 2", p.Title.Text)
	assert.Equal(t, "Relative Dose", p.Y.Label.Text)

	_, err = LayerPlot(res, 3)
	assert.Error(t, err)
	_, err = LayerPlot(res, -1)
	assert.Error(t, err)
	_, err = LayerPlot(res.Compact(), 0)
	assert.Error(t, err)
}

func TestSavePNGs(t *testing.T) {
	res := smallResult(t)
	mfs := fsutil.NewMemoryFileSystem()

	paths, err := SavePNGs(mfs, "out", res)
	require.NoError(t, err)
	assert.Equal(t, []string{"out/layer_01.png", "out/layer_02.png", "out/layer_03.png"}, paths)
	assert.Equal(t, paths, mfs.Files("out"))

	for _, path := range paths {
		data, err := mfs.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngSignature), "%s is not a PNG", path)
	}
}

func TestSavePNGs_CreateFailure(t *testing.T) {
	res := smallResult(t)
	mfs := fsutil.NewMemoryFileSystem()
	mfs.FailCreate = os.ErrPermission

	paths, err := SavePNGs(mfs, "out", res)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Empty(t, paths)
}

func TestRenderHTML(t *testing.T) {
	res := smallResult(t)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, res))
	page := buf.String()

	assert.Contains(t, page, "Spot Delivery Under Motion")
	assert.Contains(t, page, "MSE per Layer")
	for _, title := range []string{"Energy Layer 1", "Energy Layer 2", "Energy Layer 3"} {
		assert.Contains(t, page, title)
	}
	assert.Contains(t, page, res.RunID)

	assert.Error(t, RenderHTML(&bytes.Buffer{}, res.Compact()))
}

func TestSaveHTML(t *testing.T) {
	res := smallResult(t)
	mfs := fsutil.NewMemoryFileSystem()

	require.NoError(t, SaveHTML(mfs, "out/"+HTMLName, res))
	data, err := mfs.ReadFile("out/report.html")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<html"), "expected an HTML document")
}
